package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Persister writes cart snapshots after each state change.
type Persister interface {
	SaveSnapshot(ctx context.Context, sessionID string, state State) error
}

// Loader reads the persisted snapshot when a session first becomes active.
type Loader interface {
	LoadSnapshot(ctx context.Context, sessionID string) (State, error)
}

// SnapshotStorage combines both sides of the snapshot slot.
type SnapshotStorage interface {
	Persister
	Loader
}

// Store owns the cart state for one session. All mutations funnel through a
// single mutex so concurrent dispatches serialize; each applied action is
// mirrored to the snapshot slot on a best-effort basis.
type Store struct {
	sessionID string
	persister Persister
	logg      *logger.Logger
	metrics   *metrics.CartMetrics

	mu    sync.Mutex
	state State
}

// AddItem adds quantity units of the product, merged into an existing line
// item when the (product, variation) pair is already present.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity float64, variationID string) {
	s.dispatch(ctx, Action{
		Type:        ActionAdd,
		Product:     &product,
		VariationID: variationID,
		Quantity:    quantity,
	})
}

// RemoveItem drops the matching line item, ignoring unknown identities.
func (s *Store) RemoveItem(ctx context.Context, productID, variationID string) {
	s.dispatch(ctx, Action{
		Type:        ActionRemove,
		ProductID:   productID,
		VariationID: variationID,
	})
}

// UpdateQty overwrites the quantity on the matching line item, ignoring
// unknown identities.
func (s *Store) UpdateQty(ctx context.Context, productID string, quantity float64, variationID string) {
	s.dispatch(ctx, Action{
		Type:        ActionSetQty,
		ProductID:   productID,
		VariationID: variationID,
		Quantity:    quantity,
	})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.dispatch(ctx, Action{Type: ActionClear})
}

// Items returns a copy of the current line items, most recent first.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]LineItem, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

// TotalItems returns the summed quantity across line items.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems()
}

// Subtotal returns the summed price*quantity across line items.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Subtotal()
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// dispatch applies the action and mirrors the new state to the
// snapshot slot before releasing the lock, so persisted snapshots
// land in transition order.
func (s *Store) dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Apply(s.state, action)
	s.metrics.IncAction(string(action.Type))

	if s.persister == nil {
		return
	}
	// Persistence is a mirror, not a gate: a failed write keeps the
	// in-memory state authoritative and only leaves a trace.
	if err := s.persister.SaveSnapshot(ctx, s.sessionID, cloneState(s.state)); err != nil {
		s.metrics.IncPersistFailure()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithSessionID(ctx, s.sessionID), fmt.Sprintf("cart snapshot write failed: %v", err))
		}
	}
}

// Manager hands out one Store per session, restoring the persisted snapshot
// the first time a session is seen.
type Manager struct {
	storage SnapshotStorage
	logg    *logger.Logger
	metrics *metrics.CartMetrics

	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager(storage SnapshotStorage, logg *logger.Logger, m *metrics.CartMetrics) (*Manager, error) {
	if storage == nil {
		return nil, fmt.Errorf("snapshot storage required")
	}
	return &Manager{
		storage: storage,
		logg:    logg,
		metrics: m,
		stores:  make(map[string]*Store),
	}, nil
}

// Session returns the store for the session, creating and restoring it on
// first access. Restore failures degrade to an empty cart.
func (m *Manager) Session(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store
	}

	store := &Store{
		sessionID: sessionID,
		persister: m.storage,
		logg:      m.logg,
		metrics:   m.metrics,
	}
	restored, err := m.storage.LoadSnapshot(ctx, sessionID)
	if err != nil {
		if m.logg != nil {
			m.logg.Warn(m.logg.WithSessionID(ctx, sessionID), fmt.Sprintf("cart snapshot read failed: %v", err))
		}
		restored = State{}
	}
	store.state = Apply(State{}, Action{Type: ActionRestore, Snapshot: &restored})

	m.stores[sessionID] = store
	return store
}
