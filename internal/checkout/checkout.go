package checkout

import (
	"context"
	"fmt"

	"github.com/luanmoretti/kmerch-backend/internal/cart"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
)

// Address is the shipping destination collected at checkout.
type Address struct {
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required"`
}

// Customer identifies the buyer on an order.
type Customer struct {
	Name    string  `json:"name" validate:"required"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   string  `json:"phone" validate:"required"`
	Address Address `json:"address" validate:"required"`
}

// OrderItem references a cart line item by identity only. Prices are
// deliberately absent: the order collaborator re-prices at submission time.
type OrderItem struct {
	ProductID   string `json:"productId"`
	VariationID string `json:"variationId,omitempty"`
	Quantity    int    `json:"quantity"`
}

// OrderPayload is the wire shape sent to the order collaborator.
type OrderPayload struct {
	Customer Customer    `json:"customer"`
	Items    []OrderItem `json:"items"`
}

// Confirmation is the collaborator's acknowledgement of a created order.
type Confirmation struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// BuildOrderPayload projects the cart state into an order payload. An empty
// cart cannot become an order.
func BuildOrderPayload(state cart.State, customer Customer) (*OrderPayload, error) {
	if len(state.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	items := make([]OrderItem, 0, len(state.Items))
	for _, line := range state.Items {
		items = append(items, OrderItem{
			ProductID:   line.ProductID,
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
		})
	}
	return &OrderPayload{Customer: customer, Items: items}, nil
}

// Submitter sends a finished order payload to the order collaborator.
type Submitter interface {
	SubmitOrder(ctx context.Context, payload *OrderPayload) (*Confirmation, error)
}

// Service turns a session cart into a submitted order and empties the cart
// once the collaborator has accepted it.
type Service struct {
	submitter Submitter
	logg      *logger.Logger
}

func NewService(submitter Submitter, logg *logger.Logger) (*Service, error) {
	if submitter == nil {
		return nil, fmt.Errorf("order submitter required")
	}
	return &Service{submitter: submitter, logg: logg}, nil
}

// Submit builds the payload from the store's current state, submits it, and
// clears the cart on success. The cart is left untouched when submission
// fails so the buyer can retry.
func (s *Service) Submit(ctx context.Context, store *cart.Store, customer Customer) (*Confirmation, error) {
	payload, err := BuildOrderPayload(store.Snapshot(), customer)
	if err != nil {
		return nil, err
	}

	confirmation, err := s.submitter.SubmitOrder(ctx, payload)
	if err != nil {
		return nil, err
	}

	store.ClearCart(ctx)
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", confirmation.ID), "order submitted")
	}
	return confirmation, nil
}
