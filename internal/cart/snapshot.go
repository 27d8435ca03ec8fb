package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
	"github.com/luanmoretti/kmerch-backend/pkg/redis"
)

// snapshotKV is the slice of the redis client the snapshot repo uses.
type snapshotKV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	CartSnapshotKey(sessionID string) string
}

// SnapshotRepo serializes whole cart states into the durable key-value slot,
// one key per session. Writes overwrite the previous snapshot; there is no
// incremental format.
type SnapshotRepo struct {
	kv      snapshotKV
	ttl     time.Duration
	metrics *metrics.CartMetrics
}

func NewSnapshotRepo(kv snapshotKV, ttl time.Duration, m *metrics.CartMetrics) (*SnapshotRepo, error) {
	if kv == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &SnapshotRepo{kv: kv, ttl: ttl, metrics: m}, nil
}

// SaveSnapshot writes the full state for the session.
func (r *SnapshotRepo) SaveSnapshot(ctx context.Context, sessionID string, state State) error {
	if state.Items == nil {
		state.Items = []LineItem{}
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := r.kv.Set(ctx, r.kv.CartSnapshotKey(sessionID), payload, r.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write cart snapshot")
	}
	return nil
}

// LoadSnapshot reads the persisted state for the session. A missing key and a
// snapshot that no longer decodes both yield an empty state without error;
// only infrastructure failures are reported.
func (r *SnapshotRepo) LoadSnapshot(ctx context.Context, sessionID string) (State, error) {
	raw, err := r.kv.Get(ctx, r.kv.CartSnapshotKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, nil
		}
		return State{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart snapshot")
	}

	state, ok := decodeSnapshot([]byte(raw))
	if !ok {
		r.metrics.IncCorruptSnapshot()
		return State{}, nil
	}
	return state, nil
}

// decodeSnapshot parses a persisted snapshot. Well-formedness is the
// items list being present; individual items are restored verbatim,
// trusting whatever the persistence layer previously accepted.
func decodeSnapshot(raw []byte) (State, bool) {
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return State{}, false
	}
	if state.Items == nil {
		return State{}, false
	}
	return state, true
}
