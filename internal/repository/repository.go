package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// List retrieves products matching the filter along with the total
	// match count (before pagination).
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// GetByID retrieves a single product by its ID, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update persists the mutable fields of an existing product.
	// Returns false when the product does not exist.
	Update(ctx context.Context, p *model.Product) (bool, error)

	// Delete removes a product. Returns false when the product does not exist.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// Categories returns the distinct categories in the catalogue.
	Categories(ctx context.Context) ([]string, error)

	// GetReviews retrieves all reviews for a product, newest first.
	GetReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error)

	// HasReview reports whether the user has already reviewed the product.
	HasReview(ctx context.Context, productID, userID uuid.UUID) (bool, error)

	// AddReview inserts a review and updates the product's derived rating
	// and review count in one transaction.
	AddReview(ctx context.Context, review *model.Review, rating float64, numReviews int) error

	// GetForUpdate reads a product's name and stock inside the given
	// transaction, or nil when absent.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error)

	// DecrementStock atomically subtracts qty from the product's stock
	// inside the given transaction, only when sufficient stock remains.
	// Returns false when the product is missing or stock < qty.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (bool, error)

	// RestoreStock adds qty back onto the product's stock inside the given
	// transaction. The exact inverse of DecrementStock.
	RestoreStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) error
}

// CartRepository defines the interface for cart data access operations.
type CartRepository interface {
	// GetByUserID retrieves the user's cart with its items, or nil when
	// the user has no cart yet.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// Save upserts the cart and replaces its line items atomically.
	Save(ctx context.Context, cart *model.Cart) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new order within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateItems inserts the order's line items within the provided transaction.
	CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// Count returns the total number of orders, read within the provided
	// transaction. Used for order number generation.
	Count(ctx context.Context, tx pgx.Tx) (int64, error)

	// GetByID retrieves an order with its items, or nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders matching the filter, newest
	// first, along with the total match count.
	ListByUser(ctx context.Context, userID uuid.UUID, filter model.OrderFilter) ([]model.Order, int, error)

	// ListAll retrieves all orders matching the filter, newest first,
	// along with the total match count.
	ListAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error)

	// Update persists the order's lifecycle fields (status, payment,
	// delivery and cancellation metadata).
	Update(ctx context.Context, order *model.Order) error

	// UpdateTx is Update within an existing transaction.
	UpdateTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
}
