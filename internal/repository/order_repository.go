package repository

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, user_id, order_number, subtotal, tax_amount, shipping_cost,
	discount_amount, total_amount, coupon_code, status, payment_status, payment_method,
	transaction_id, shipping_address, billing_address, tracking_number, shipping_provider,
	estimated_delivery, actual_delivery, notes, cancellation_reason, return_reason,
	return_date, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Subtotal, &o.TaxAmount, &o.ShippingCost,
		&o.DiscountAmount, &o.TotalAmount, &o.CouponCode, &o.Status, &o.PaymentStatus,
		&o.PaymentMethod, &o.TransactionID, &o.ShippingAddress, &o.BillingAddress,
		&o.TrackingNumber, &o.ShippingProvider, &o.EstimatedDelivery, &o.ActualDelivery,
		&o.Notes, &o.CancellationReason, &o.ReturnReason, &o.ReturnDate,
		&o.CreatedAt, &o.UpdatedAt,
	)
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Create inserts a new order within the provided transaction.
func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, order_number, subtotal, tax_amount, shipping_cost,
			discount_amount, total_amount, coupon_code, status, payment_status, payment_method,
			transaction_id, shipping_address, billing_address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.OrderNumber, order.Subtotal, order.TaxAmount,
		order.ShippingCost, order.DiscountAmount, order.TotalAmount, order.CouponCode,
		order.Status, order.PaymentStatus, order.PaymentMethod, order.TransactionID,
		order.ShippingAddress, order.BillingAddress, order.Notes,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created")

	return nil
}

// CreateItems inserts the order's line items within the provided transaction.
func (r *orderRepository) CreateItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, product_name, quantity, price, image, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.Price, item.Image, item.Subtotal,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")

	return nil
}

// Count returns the total number of orders within the provided transaction.
func (r *orderRepository) Count(ctx context.Context, tx pgx.Tx) (int64, error) {
	var count int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// GetByID retrieves an order with its items, or nil when absent.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"

	var order model.Order
	err := scanOrder(r.pool.QueryRow(ctx, query, id), &order)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	if order.Items == nil {
		order.Items = []model.OrderItem{}
	}

	return &order, nil
}

// ListByUser retrieves a user's orders matching the filter, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter model.OrderFilter) ([]model.Order, int, error) {
	return r.list(ctx, &userID, filter)
}

// ListAll retrieves all orders matching the filter, newest first.
func (r *orderRepository) ListAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	return r.list(ctx, nil, filter)
}

func (r *orderRepository) list(ctx context.Context, userID *uuid.UUID, filter model.OrderFilter) ([]model.Order, int, error) {
	where := []string{"TRUE"}
	args := []any{}

	addArg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if userID != nil {
		where = append(where, "user_id = "+addArg(*userID))
	}
	if filter.Status != "" {
		where = append(where, "status = "+addArg(filter.Status))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM orders WHERE " + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM orders WHERE %s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		orderColumns, whereClause, addArg(filter.Limit), addArg(filter.Offset()),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var orderIDs []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		orderIDs = append(orderIDs, o.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orderIDs) > 0 {
		items, err := r.loadItems(ctx, orderIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].Items = items[orders[i].ID]
			if orders[i].Items == nil {
				orders[i].Items = []model.OrderItem{}
			}
		}
	}

	return orders, total, nil
}

// loadItems fetches the line items for a set of orders in one query,
// grouped by order ID.
func (r *orderRepository) loadItems(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, quantity, price, image, subtotal
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderIDs)
	if err != nil {
		r.logger.Error().Err(err).Int("order_count", len(orderIDs)).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]model.OrderItem)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Image, &item.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

const orderUpdateQuery = `
	UPDATE orders
	SET status = $2, payment_status = $3, tracking_number = $4, shipping_provider = $5,
		estimated_delivery = $6, actual_delivery = $7, cancellation_reason = $8,
		return_reason = $9, return_date = $10, updated_at = NOW()
	WHERE id = $1
`

// Update persists the order's lifecycle fields.
func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	if _, err := r.pool.Exec(ctx, orderUpdateQuery, orderUpdateArgs(order)...); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

// UpdateTx is Update within an existing transaction.
func (r *orderRepository) UpdateTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	if _, err := tx.Exec(ctx, orderUpdateQuery, orderUpdateArgs(order)...); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to update order")
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func orderUpdateArgs(order *model.Order) []any {
	return []any{
		order.ID, order.Status, order.PaymentStatus, order.TrackingNumber,
		order.ShippingProvider, order.EstimatedDelivery, order.ActualDelivery,
		order.CancellationReason, order.ReturnReason, order.ReturnDate,
	}
}
