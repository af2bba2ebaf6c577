package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	checkoutservice "github.com/dejidee0/litwaypickss-eccomerce/internal/checkout/service"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/orders"
	"github.com/dejidee0/litwaypickss-eccomerce/internal/session"
)

// NewRouter assembles the storefront API. The recorder is optional; when
// nil the order history routes are not mounted.
func NewRouter(
	sessions *session.Manager,
	orchestrator *checkoutservice.Orchestrator,
	recorder *orders.Recorder,
	requestTimeout time.Duration) http.Handler {

	cartHandler := NewCartHandler(sessions, requestTimeout)
	loyaltyHandler := NewLoyaltyHandler(sessions, requestTimeout)
	checkoutHandler := NewCheckoutHandler(sessions, orchestrator)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(HeaderAuthMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		})

		r.Route("/loyalty", func(r chi.Router) {
			r.Get("/", loyaltyHandler.GetAccount)
			r.Post("/bonus", loyaltyHandler.AddBonus)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		if recorder != nil {
			ordersHandler := NewOrdersHandler(recorder)
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordersHandler.ListOrders)
				r.Get("/{order_id}", ordersHandler.GetOrder)
			})
		}
	})

	return otelhttp.NewHandler(r, "storefront-api")
}
