package router

import (
	"net/http"

	"chatmart/internal/handler"
	"chatmart/internal/identity"
	"chatmart/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Handlers groups every HTTP handler the router serves.
type Handlers struct {
	Health     *handler.HealthHandler
	Order      *handler.OrderHandler
	Product    *handler.ProductHandler
	Payment    *handler.PaymentHandler
	User       *handler.UserHandler
	Statistics *handler.StatisticsHandler
	Messaging  *handler.MessagingHandler
}

// New creates a new HTTP router with all routes and middleware configured.
// Admin routes require X-API-Key when apiKey is set; caller routes require a
// bearer token the identity provider accepts.
func New(h Handlers, provider identity.Provider, apiKey string, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Recovery -> RequestID -> Logging -> CORS
	r.Use(middleware.Recovery(logger))
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS)

	r.Get("/health", h.Health.Check)

	// Chat client routes.
	r.Post("/orders", h.Order.Create)
	r.Get("/products", h.Product.GetAll)
	r.Get("/products/{id}", h.Product.GetByID)
	r.Post("/verify-access-token", h.User.VerifyAccessToken)
	r.Post("/update-profile", h.User.UpdateProfile)
	r.Get("/get-user/{userId}", h.User.Get)
	r.Post("/webhook", h.Messaging.Webhook)

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerIdentity(provider, logger))
		r.Get("/userorders", h.Order.ListMine)
		r.Get("/userorders/statistics", h.Statistics.MyQuantities)
	})

	// Admin routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(apiKey, logger))

		r.Get("/orders", h.Order.List)
		r.Put("/orders/{orderId}/delivery", h.Order.UpdateDelivery)
		r.Post("/payments", h.Payment.Create)

		r.Post("/products", h.Product.Create)
		r.Post("/products/import", h.Product.Import)
		r.Put("/products/{id}", h.Product.Update)
		r.Delete("/products/{id}", h.Product.Delete)

		r.Post("/send-message", h.Messaging.SendMessage)
		r.Post("/send-promotion", h.Messaging.SendPromotion)

		r.Get("/admin/users", h.User.List)
		r.Get("/admin/statistics/revenue", h.Statistics.Revenue)
		r.Get("/admin/statistics/{userId}", h.Statistics.UserQuantities)
	})

	return otelhttp.NewHandler(r, "chatmart-api")
}
