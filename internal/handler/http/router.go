package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/internal/service"
	"github.com/AayushAcharya189/SportGear/pkg/health"
	"github.com/AayushAcharya189/SportGear/pkg/middleware"
)

// RouterConfig groups everything the router needs beyond the services.
type RouterConfig struct {
	TokenValidator middleware.TokenValidator
	CORS           middleware.CORSConfig
	RequestTimeout time.Duration
	Health         *health.Handler
	Logger         *slog.Logger
}

// Services groups the service-layer dependencies of the HTTP layer.
type Services struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	Contact  *service.ContactService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("sportgear"))
	r.Use(middleware.Tracing("sportgear"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authn := middleware.Auth(cfg.TokenValidator)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	authHandler := NewAuthHandler(svc.Accounts, cfg.Logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(authn)
			r.Get("/profile", authHandler.GetProfile)
			r.Put("/profile", authHandler.UpdateProfile)
		})
	})

	productHandler := NewProductHandler(svc.Catalog, cfg.Logger)
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	orderHandler := NewOrderHandler(svc.Checkout, svc.Orders, cfg.Logger)
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(authn)

		r.Post("/checkout", orderHandler.Checkout)
		r.Get("/mine", orderHandler.ListMine)
		r.Get("/{id}", orderHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", orderHandler.ListAll)
			r.Put("/{id}", orderHandler.UpdateStatus)
			r.Delete("/{id}", orderHandler.Delete)
		})
	})

	contactHandler := NewContactHandler(svc.Contact, cfg.Logger)
	r.Route("/api/v1/contact", func(r chi.Router) {
		r.Post("/", contactHandler.Submit)

		r.Group(func(r chi.Router) {
			r.Use(authn, adminOnly)
			r.Get("/", contactHandler.List)
		})
	})

	return r
}
