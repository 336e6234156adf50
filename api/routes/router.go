package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marisolvega/threadmarket-backend/api/controllers"
	"github.com/marisolvega/threadmarket-backend/api/middleware"
	"github.com/marisolvega/threadmarket-backend/internal/auth"
	"github.com/marisolvega/threadmarket-backend/internal/cart"
	checkoutsvc "github.com/marisolvega/threadmarket-backend/internal/checkout"
	"github.com/marisolvega/threadmarket-backend/internal/fulfillment"
	"github.com/marisolvega/threadmarket-backend/internal/products"
	"github.com/marisolvega/threadmarket-backend/pkg/config"
	"github.com/marisolvega/threadmarket-backend/pkg/db"
	"github.com/marisolvega/threadmarket-backend/pkg/enums"
	"github.com/marisolvega/threadmarket-backend/pkg/logger"
	"github.com/marisolvega/threadmarket-backend/pkg/metrics"
	"github.com/marisolvega/threadmarket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	authService auth.Service,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	fulfillmentService fulfillment.Service,
) http.Handler {
	r := chi.NewRouter()

	httpMetrics := metrics.NewHTTPMetrics(registry)

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	loginPolicy := middleware.NewAuthRateLimitPolicy("login", cfg.AuthRateLimit.LoginWindow, cfg.AuthRateLimit.LoginIPLimit, cfg.AuthRateLimit.LoginEmailLimit)
	registerPolicy := middleware.NewAuthRateLimitPolicy("register", cfg.AuthRateLimit.RegisterWindow, cfg.AuthRateLimit.RegisterIPLimit, cfg.AuthRateLimit.RegisterEmailLimit)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
	})

	// Browsing the catalog needs no session.
	r.Get("/api/v1/products", controllers.ProductsList(productService, logg))
	r.Get("/api/v1/products/{productID}", controllers.ProductsGet(productService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleSeller, logg))
			r.Post("/", controllers.ProductsCreate(productService, logg))
			r.Get("/mine", controllers.ProductsMine(productService, logg))
			r.Patch("/{productID}", controllers.ProductsUpdate(productService, logg))
			r.Put("/{productID}/ledger", controllers.ProductsReplaceLedger(productService, logg))
			r.Delete("/{productID}", controllers.ProductsDelete(productService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", controllers.CartAdd(cartService, logg))
			r.Get("/", controllers.CartList(cartService, logg))
			r.Patch("/{entryID}", controllers.CartUpdate(cartService, logg))
			r.Delete("/{entryID}", controllers.CartDelete(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/seller/orders", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleSeller, logg))
			r.Get("/", controllers.OrdersList(fulfillmentService, logg))
			r.Post("/{orderID}/approve", controllers.OrdersApprove(fulfillmentService, logg))
			r.Post("/{orderID}/decline", controllers.OrdersDecline(fulfillmentService, logg))
			r.Post("/{orderID}/ready", controllers.OrdersMarkReady(fulfillmentService, logg))
			r.Post("/{orderID}/remarks", controllers.OrdersSetCompletionRemarks(fulfillmentService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(fulfillmentService, logg))
			r.Post("/{orderID}/pickup", controllers.OrdersConfirmPickup(fulfillmentService, logg))
		})
	})

	return r
}
