package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New wires every route and the middleware chain into a single handler.
// All /api routes require the gateway API key and a resolved caller
// identity; admin-only routes additionally require the admin role.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	admin := middleware.RequireAdmin(logger)

	// Catalogue. The literal /categories pattern is more specific than the
	// {id} wildcard and wins the match.
	mux.HandleFunc("GET /api/products", productHandler.List)
	mux.HandleFunc("GET /api/products/categories", productHandler.Categories)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("GET /api/products/{id}/reviews", productHandler.GetReviews)
	mux.HandleFunc("POST /api/products/{id}/reviews", productHandler.AddReview)
	mux.Handle("POST /api/products", admin(http.HandlerFunc(productHandler.Create)))
	mux.Handle("PUT /api/products/{id}", admin(http.HandlerFunc(productHandler.Update)))
	mux.Handle("DELETE /api/products/{id}", admin(http.HandlerFunc(productHandler.Delete)))

	// Cart. All routes act on the caller's own cart.
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("DELETE /api/cart", cartHandler.Clear)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{productId}", cartHandler.UpdateItem)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", cartHandler.RemoveItem)
	mux.HandleFunc("POST /api/cart/coupon", cartHandler.ApplyCoupon)

	// Orders.
	mux.HandleFunc("POST /api/orders", orderHandler.Create)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.Handle("GET /api/orders/all", admin(http.HandlerFunc(orderHandler.ListAll)))
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)
	mux.Handle("PUT /api/orders/{id}/status", admin(http.HandlerFunc(orderHandler.UpdateStatus)))
	mux.HandleFunc("POST /api/orders/{id}/cancel", orderHandler.Cancel)

	var h http.Handler = mux
	h = middleware.Identity(logger)(h)
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
