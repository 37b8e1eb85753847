package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves products matching the filter with the total match count.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product with its reviews.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create validates and persists a new product on behalf of the seller.
	Create(ctx context.Context, actor model.Actor, p *model.Product) (*model.Product, error)

	// Update applies a partial update to an existing product.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)

	// Delete removes a product from the catalogue.
	Delete(ctx context.Context, id uuid.UUID) error

	// Categories returns the distinct categories in the catalogue.
	Categories(ctx context.Context) ([]string, error)

	// AddReview appends a review, at most one per user per product, and
	// recomputes the product's derived rating.
	AddReview(ctx context.Context, actor model.Actor, productID uuid.UUID, userName string, rating int, comment string) (*model.Product, error)

	// GetReviews returns a product's reviews with the derived aggregates.
	GetReviews(ctx context.Context, productID uuid.UUID) (*model.ReviewSummary, error)
}

// CartService defines operations on the caller's cart. Every mutation
// recomputes the derived totals and applies checkout pricing (tax,
// shipping, coupon discount) before the cart is returned.
type CartService interface {
	// GetCart retrieves the user's cart, lazily creating an empty one.
	GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds a product to the cart, snapshotting its current
	// name, price, discount, image, stock and category.
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error)

	// UpdateItemQuantity sets a line's quantity; zero or negative removes it.
	UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error)

	// RemoveItem drops a line from the cart; absent lines are a no-op.
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, error)

	// Clear empties the cart and zeroes all derived totals and any coupon.
	Clear(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// ApplyCoupon validates a coupon code and applies its discount.
	ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error)
}

// OrderService defines operations for the order lifecycle.
type OrderService interface {
	// Create converts an explicit item list or the caller's cart into a
	// durable order, atomically decrementing product stock.
	Create(ctx context.Context, userID uuid.UUID, req *model.CreateOrderRequest) (*model.Order, error)

	// GetByID retrieves an order; only its owner or an admin may see it.
	GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the user's own orders.
	ListByUser(ctx context.Context, userID uuid.UUID, filter model.OrderFilter) ([]model.Order, int, error)

	// ListAll retrieves all orders (admin).
	ListAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// UpdateStatus advances an order through the lifecycle state machine.
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus model.OrderStatus) (*model.Order, error)

	// Cancel cancels a pending or processing order, restoring stock.
	Cancel(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error)
}
