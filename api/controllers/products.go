package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/luanmoretti/kmerch-backend/api/responses"
	"github.com/luanmoretti/kmerch-backend/api/validators"
	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	pkgerrors "github.com/luanmoretti/kmerch-backend/pkg/errors"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
)

// ListProducts serves one normalized catalog page.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := listQueryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, page)
	}
}

// GetProduct serves one normalized product by upstream ID.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func listQueryFromRequest(r *http.Request) (catalog.ListQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	pageSize, err := validators.ParseQueryInt(r, "pageSize", 0)
	if err != nil {
		return catalog.ListQuery{}, err
	}
	minPrice, err := validators.ParseQueryFloat(r, "minPrice")
	if err != nil {
		return catalog.ListQuery{}, err
	}
	maxPrice, err := validators.ParseQueryFloat(r, "maxPrice")
	if err != nil {
		return catalog.ListQuery{}, err
	}

	return catalog.ListQuery{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(r.URL.Query().Get("q")),
		Category:     strings.TrimSpace(r.URL.Query().Get("category")),
		Sort:         strings.TrimSpace(r.URL.Query().Get("sort")),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		PreorderOnly: validators.ParseQueryBool(r, "preorder"),
	}, nil
}
