package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/luanmoretti/kmerch-backend/api/middleware"
	"github.com/luanmoretti/kmerch-backend/api/responses"
	"github.com/luanmoretti/kmerch-backend/api/validators"
	"github.com/luanmoretti/kmerch-backend/internal/cart"
	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
)

type cartView struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"totalItems"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

func viewOf(store *cart.Store) cartView {
	return cartView{
		Items:      store.Items(),
		TotalItems: store.TotalItems(),
		Subtotal:   store.Subtotal(),
	}
}

func sessionStore(r *http.Request, manager *cart.Manager) (*cart.Store, error) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return manager.Session(r.Context(), sessionID), nil
}

// GetCart serves the session's current cart.
func GetCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}

type addItemRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	VariationID string  `json:"variationId,omitempty"`
	Quantity    float64 `json:"quantity,omitempty"`
}

// AddCartItem resolves the product through the catalog and adds it to the
// session cart, freezing its current price.
func AddCartItem(manager *cart.Manager, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		product, err := catalogSvc.Get(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.VariationID != "" {
			if _, ok := product.VariationByID(payload.VariationID); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "variation not found"))
				return
			}
		}

		store.AddItem(r.Context(), *product, payload.Quantity, payload.VariationID)
		responses.WriteSuccess(w, viewOf(store))
	}
}

// Quantity carries no validation tag: any value is accepted and
// clamped into range by the cart engine, zero included.
type updateQtyRequest struct {
	ProductID   string  `json:"productId" validate:"required"`
	VariationID string  `json:"variationId,omitempty"`
	Quantity    float64 `json:"quantity"`
}

// UpdateCartItem overwrites the quantity of one line item.
func UpdateCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQtyRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.UpdateQty(r.Context(), payload.ProductID, payload.Quantity, payload.VariationID)
		responses.WriteSuccess(w, viewOf(store))
	}
}

// RemoveCartItem drops one line item from the session cart.
func RemoveCartItem(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		store.RemoveItem(r.Context(), productID, strings.TrimSpace(r.URL.Query().Get("variationId")))
		responses.WriteSuccess(w, viewOf(store))
	}
}

// ClearCart empties the session cart.
func ClearCart(manager *cart.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.ClearCart(r.Context())
		responses.WriteSuccess(w, viewOf(store))
	}
}
