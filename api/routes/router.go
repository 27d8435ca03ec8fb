package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luanmoretti/kmerch-backend/api/controllers"
	"github.com/luanmoretti/kmerch-backend/api/middleware"
	"github.com/luanmoretti/kmerch-backend/internal/cart"
	"github.com/luanmoretti/kmerch-backend/internal/catalog"
	"github.com/luanmoretti/kmerch-backend/internal/checkout"
	"github.com/luanmoretti/kmerch-backend/pkg/config"
	"github.com/luanmoretti/kmerch-backend/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient controllers.Pinger,
	catalogService catalog.Service,
	cartManager *cart.Manager,
	checkoutService *checkout.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Session(cfg.Cart.CookieName, cfg.Cart.SnapshotTTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{productId}", controllers.GetProduct(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartManager, logg))
			r.Delete("/", controllers.ClearCart(cartManager, logg))
			r.Post("/items", controllers.AddCartItem(cartManager, catalogService, logg))
			r.Patch("/items", controllers.UpdateCartItem(cartManager, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(cartManager, logg))
		})

		r.Post("/orders", controllers.SubmitOrder(cartManager, checkoutService, logg))
	})

	return r
}
