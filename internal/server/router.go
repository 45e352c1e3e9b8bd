package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ticket-storefront/internal/handlers"
	"ticket-storefront/internal/middleware"
	"ticket-storefront/internal/services"
	"ticket-storefront/web/templates/pages"
)

// Dependencies are the collaborators the storefront routes are built from
type Dependencies struct {
	Store    sessions.Store
	Catalog  services.CatalogServiceInterface
	Carts    services.CartServiceInterface
	Checkout services.CheckoutServiceInterface
	Orders   services.OrderServiceInterface

	// Limiter bounds order submissions; nil disables rate limiting
	Limiter      middleware.Limiter
	HealthChecks map[string]handlers.HealthCheck

	Shop              pages.Storefront
	EventName         string
	CustomerParam     string
	DefaultCustomerID string
	AllowedOrigins    []string
	Logger            *zap.Logger
}

// NewRouter wires the storefront routes and middleware chain
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionMiddleware := middleware.NewSessionMiddleware(deps.Store, deps.CustomerParam, deps.DefaultCustomerID, logger)
	csrfMiddleware := middleware.NewCSRFMiddleware(deps.Store, logger)

	storefrontHandler := handlers.NewStorefrontHandler(deps.Catalog, deps.Carts, deps.Store, deps.Shop, deps.EventName, logger)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Carts, deps.Checkout, deps.Store, deps.Shop, logger)
	ordersHandler := handlers.NewOrdersHandler(deps.Orders, deps.Shop, logger)
	healthHandler := handlers.NewHealthHandler("ticket-storefront", deps.HealthChecks)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandlingMiddleware(logger))
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(deps.AllowedOrigins)))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Get("/health", healthHandler.Health)

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.LoadVisitor)
		r.Use(csrfMiddleware.EnsureCSRFToken)
		r.Use(csrfMiddleware.CSRFProtection)

		r.Get("/", storefrontHandler.TicketsPage)
		r.Route("/cart", func(r chi.Router) {
			r.Post("/add", storefrontHandler.AddToCart)
			r.Post("/update", storefrontHandler.UpdateCartItem)
			r.Post("/remove", storefrontHandler.RemoveFromCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkoutHandler.CheckoutPage)
			if deps.Limiter != nil {
				r.With(middleware.SubmissionRateLimit(deps.Limiter, logger)).Post("/", checkoutHandler.ProcessCheckout)
			} else {
				r.Post("/", checkoutHandler.ProcessCheckout)
			}
			r.Post("/format", checkoutHandler.FormatField)
			r.Get("/complete", checkoutHandler.CompletePage)
			r.Post("/new", checkoutHandler.NewOrder)
		})

		r.Get("/orders", ordersHandler.OrdersPage)
		r.Get("/orders/{id}", ordersHandler.OrderDetailPage)
		r.Get("/tickets", ordersHandler.MyTicketsPage)
	})

	return r
}
