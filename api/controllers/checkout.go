package controllers

import (
	"net/http"

	"github.com/luanmoretti/kmerch-backend/api/responses"
	"github.com/luanmoretti/kmerch-backend/api/validators"
	"github.com/luanmoretti/kmerch-backend/internal/cart"
	"github.com/luanmoretti/kmerch-backend/internal/checkout"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
)

type checkoutRequest struct {
	Customer checkout.Customer `json:"customer" validate:"required"`
}

// SubmitOrder turns the session cart into an order submission.
func SubmitOrder(manager *cart.Manager, svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		store, err := sessionStore(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(w, r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		confirmation, err := svc.Submit(r.Context(), store, payload.Customer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
