package cart

import (
	"math"

	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/shopspring/decimal"
)

const (
	// MinQuantity and MaxQuantity bound every line item quantity.
	MinQuantity = 1
	MaxQuantity = 99
)

// LineItem is one distinct (product, variation) entry in the cart. Price is
// frozen at the moment the item is added and never re-read from the catalog.
type LineItem struct {
	ProductID   string          `json:"productId"`
	VariationID string          `json:"variationId,omitempty"`
	Title       string          `json:"title"`
	Image       string          `json:"image,omitempty"`
	TypeLabel   string          `json:"type,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// sameIdentity reports whether the item matches the (productID, variationID)
// key. An empty variationID means the base product without a variation, which
// is distinct from any variation of the same product.
func (li LineItem) sameIdentity(productID, variationID string) bool {
	return li.ProductID == productID && li.VariationID == variationID
}

// State is the full cart contents, most recently added first.
type State struct {
	Items []LineItem `json:"items"`
}

// TotalItems sums the quantities across all line items.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal sums price*quantity across all line items.
func (s State) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.Items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

type ActionType string

const (
	ActionAdd     ActionType = "ADD"
	ActionRemove  ActionType = "REMOVE"
	ActionSetQty  ActionType = "SET_QTY"
	ActionClear   ActionType = "CLEAR"
	ActionRestore ActionType = "RESTORE"
)

// Action is one cart mutation. Fields beyond Type are read per action:
// ADD uses Product, VariationID and Quantity; REMOVE uses ProductID and
// VariationID; SET_QTY uses ProductID, VariationID and Quantity; RESTORE
// uses Snapshot; CLEAR uses nothing.
type Action struct {
	Type        ActionType
	Product     *catalog.Product
	ProductID   string
	VariationID string
	Quantity    float64
	Snapshot    *State
}

// ClampQuantity floors the requested quantity and forces it into
// [MinQuantity, MaxQuantity].
func ClampQuantity(q float64) int {
	n := int(math.Floor(q))
	if n < MinQuantity {
		return MinQuantity
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

// Apply runs one action against the state and returns the next state. It
// never mutates its input; callers own serialization of concurrent actions.
func Apply(state State, action Action) State {
	switch action.Type {
	case ActionAdd:
		return applyAdd(state, action)
	case ActionRemove:
		return applyRemove(state, action)
	case ActionSetQty:
		return applySetQty(state, action)
	case ActionClear:
		return State{}
	case ActionRestore:
		if action.Snapshot == nil {
			return state
		}
		return cloneState(*action.Snapshot)
	default:
		return state
	}
}

func applyAdd(state State, action Action) State {
	if action.Product == nil {
		return state
	}
	product := *action.Product
	qty := ClampQuantity(action.Quantity)

	for i, item := range state.Items {
		if item.sameIdentity(product.ID, action.VariationID) {
			next := cloneState(state)
			next.Items[i].Quantity = clampInt(item.Quantity + qty)
			return next
		}
	}

	priceCents := product.PriceCentsFor(action.VariationID)
	entry := LineItem{
		ProductID:   product.ID,
		VariationID: action.VariationID,
		Title:       product.Title,
		Image:       product.PrimaryImage(),
		TypeLabel:   product.TypeLabel(),
		Price:       decimal.NewFromInt(priceCents).Shift(-2),
		Quantity:    qty,
	}
	next := State{Items: make([]LineItem, 0, len(state.Items)+1)}
	next.Items = append(next.Items, entry)
	next.Items = append(next.Items, state.Items...)
	return next
}

func applyRemove(state State, action Action) State {
	next := State{Items: make([]LineItem, 0, len(state.Items))}
	for _, item := range state.Items {
		if item.sameIdentity(action.ProductID, action.VariationID) {
			continue
		}
		next.Items = append(next.Items, item)
	}
	return next
}

func applySetQty(state State, action Action) State {
	next := cloneState(state)
	for i, item := range next.Items {
		if item.sameIdentity(action.ProductID, action.VariationID) {
			next.Items[i].Quantity = ClampQuantity(action.Quantity)
		}
	}
	return next
}

func clampInt(n int) int {
	if n < MinQuantity {
		return MinQuantity
	}
	if n > MaxQuantity {
		return MaxQuantity
	}
	return n
}

func cloneState(state State) State {
	if len(state.Items) == 0 {
		return State{}
	}
	items := make([]LineItem, len(state.Items))
	copy(items, state.Items)
	return State{Items: items}
}
