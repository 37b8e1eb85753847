package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetByUserID retrieves the user's cart with its items, or nil when the
// user has no cart yet.
func (r *cartRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cartQuery := `
		SELECT id, user_id, total_items, subtotal, tax_amount, shipping_cost,
			discount_amount, total_price, coupon_code, created_at, updated_at
		FROM carts
		WHERE user_id = $1
	`

	var cart model.Cart
	err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID, &cart.UserID, &cart.TotalItems, &cart.Subtotal, &cart.TaxAmount,
		&cart.ShippingCost, &cart.DiscountAmount, &cart.TotalPrice, &cart.CouponCode,
		&cart.CreatedAt, &cart.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("user_id", userID.String()).Msg("cart not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}

	itemsQuery := `
		SELECT id, cart_id, product_id, product_name, price, discount_price, image,
			category, stock, quantity, subtotal, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at
	`

	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.Price,
			&item.DiscountPrice, &item.Image, &item.Category, &item.Stock,
			&item.Quantity, &item.Subtotal, &item.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return &cart, nil
}

// Save upserts the cart and replaces its line items atomically.
func (r *cartRepository) Save(ctx context.Context, cart *model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	upsertQuery := `
		INSERT INTO carts (id, user_id, total_items, subtotal, tax_amount, shipping_cost,
			discount_amount, total_price, coupon_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET total_items = EXCLUDED.total_items,
			subtotal = EXCLUDED.subtotal,
			tax_amount = EXCLUDED.tax_amount,
			shipping_cost = EXCLUDED.shipping_cost,
			discount_amount = EXCLUDED.discount_amount,
			total_price = EXCLUDED.total_price,
			coupon_code = EXCLUDED.coupon_code,
			updated_at = NOW()
	`

	_, err = tx.Exec(ctx, upsertQuery,
		cart.ID, cart.UserID, cart.TotalItems, cart.Subtotal, cart.TaxAmount,
		cart.ShippingCost, cart.DiscountAmount, cart.TotalPrice, cart.CouponCode,
		cart.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to upsert cart")
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	if _, err := tx.Exec(ctx, "DELETE FROM cart_items WHERE cart_id = $1", cart.ID); err != nil {
		r.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart items")
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	if len(cart.Items) > 0 {
		insertQuery := `
			INSERT INTO cart_items (id, cart_id, product_id, product_name, price, discount_price,
				image, category, stock, quantity, subtotal, added_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`

		batch := &pgx.Batch{}
		for _, item := range cart.Items {
			batch.Queue(insertQuery,
				item.ID, cart.ID, item.ProductID, item.ProductName, item.Price,
				item.DiscountPrice, item.Image, item.Category, item.Stock,
				item.Quantity, item.Subtotal, item.AddedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		for i := 0; i < len(cart.Items); i++ {
			if _, err := results.Exec(); err != nil {
				results.Close()
				r.logger.Error().Err(err).
					Str("cart_id", cart.ID.String()).
					Str("product_id", cart.Items[i].ProductID.String()).
					Msg("failed to insert cart item")
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close batch results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}

	r.logger.Debug().
		Str("cart_id", cart.ID.String()).
		Int("item_count", len(cart.Items)).
		Msg("cart saved")

	return nil
}
