package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luanmoretti/kmerch-backend/internal/cart"
	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/luanmoretti/kmerch-backend/internal/checkout"
	"github.com/luanmoretti/kmerch-backend/pkg/config"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
	"github.com/luanmoretti/kmerch-backend/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubCatalogService struct{}

func (stubCatalogService) List(context.Context, catalog.ListQuery) (*catalog.ListResponse, error) {
	return &catalog.ListResponse{Items: []catalog.Product{}, Page: 1, PageSize: 12, TotalPages: 1}, nil
}

func (stubCatalogService) Get(context.Context, string) (*catalog.Product, error) {
	return &catalog.Product{ID: "p-1", Title: "Poster", PriceCents: 3999}, nil
}

type stubStorage struct{}

func (stubStorage) SaveSnapshot(context.Context, string, cart.State) error { return nil }
func (stubStorage) LoadSnapshot(context.Context, string) (cart.State, error) {
	return cart.State{}, nil
}

type stubOrderSubmitter struct{}

func (stubOrderSubmitter) SubmitOrder(context.Context, *checkout.OrderPayload) (*checkout.Confirmation, error) {
	return &checkout.Confirmation{ID: "ord-1", Status: "created"}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Cart.CookieName = "km_session"

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	registry := prometheus.NewRegistry()

	manager, err := cart.NewManager(stubStorage{}, logg, metrics.NewCartMetrics(registry))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	checkoutService, err := checkout.NewService(stubOrderSubmitter{}, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	return NewRouter(cfg, logg, stubPinger{}, stubCatalogService{}, manager, checkoutService, registry)
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, rec.Code)
		}
		if rec.Header().Get("X-KMerch-Env") != "test" {
			t.Fatalf("expected env header on %s", path)
		}
	}
}

func TestRouterProductRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from product list, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/p-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from product detail, got %d", rec.Code)
	}
}

func TestRouterCartFlowIssuesSession(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from cart read, got %d: %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "km_session" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from metrics, got %d", rec.Code)
	}
}
