package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/luanmoretti/kmerch-backend/internal/catalog"
)

type recordingCatalog struct {
	stubCatalog
	lastQuery catalog.ListQuery
	listResp  *catalog.ListResponse
}

func (r *recordingCatalog) List(_ context.Context, query catalog.ListQuery) (*catalog.ListResponse, error) {
	r.lastQuery = query
	if r.listResp != nil {
		return r.listResp, nil
	}
	return &catalog.ListResponse{Items: []catalog.Product{}}, nil
}

func TestListProductsParsesQuery(t *testing.T) {
	logg := testLogger()
	stub := &recordingCatalog{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=3&pageSize=24&q=lightstick&category=albums&minPrice=10.5&maxPrice=200&preorder=true", nil)
	ListProducts(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	q := stub.lastQuery
	if q.Page != 3 || q.PageSize != 24 || q.Search != "lightstick" || q.Category != "albums" {
		t.Fatalf("unexpected query: %+v", q)
	}
	if q.MinPrice != 10.5 || q.MaxPrice != 200 || !q.PreorderOnly {
		t.Fatalf("unexpected filters: %+v", q)
	}
}

func TestListProductsRejectsBadPage(t *testing.T) {
	logg := testLogger()
	stub := &recordingCatalog{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=abc", nil)
	ListProducts(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	logg := testLogger()
	stub := &stubCatalog{products: map[string]catalog.Product{
		"p-1": {ID: "p-1", Title: "Lightstick Ver. 2", PriceCents: 19999},
	}}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", "p-1")
	req := httptest.NewRequest(http.MethodGet, "/api/products/p-1", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	GetProduct(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data catalog.Product `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "p-1" || envelope.Data.PriceCents != 19999 {
		t.Fatalf("unexpected product: %+v", envelope.Data)
	}
}

func TestGetProductNotFound(t *testing.T) {
	logg := testLogger()
	stub := &stubCatalog{products: map[string]catalog.Product{}}

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productId", "missing")
	req := httptest.NewRequest(http.MethodGet, "/api/products/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	rec := httptest.NewRecorder()
	GetProduct(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
