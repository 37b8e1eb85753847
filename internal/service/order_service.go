package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// Create converts an explicit item list or the caller's cart into a durable
// order. The whole sequence — stock checks, decrements, order and item
// inserts — runs in one transaction, so a failure on any line leaves no
// partial decrement behind and concurrent orders cannot oversell.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req *model.CreateOrderRequest) (*model.Order, error) {
	if err := validateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	// Resolve the item set: explicit items, or the caller's cart.
	var cart *model.Cart
	var orderItems []model.OrderItem

	if len(req.Items) == 0 {
		var err error
		cart, err = s.cartRepo.GetByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to get cart: %w", err)
		}
		if cart == nil || len(cart.Items) == 0 {
			return nil, model.ErrCartEmpty
		}
		for _, item := range cart.Items {
			orderItems = append(orderItems, model.OrderItem{
				ID:          uuid.New(),
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.EffectivePrice(),
				Image:       item.Image,
				Subtotal:    item.Subtotal,
			})
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// Explicit items are snapshotted against the live catalogue inside the
	// transaction; cart items keep their add-time snapshot.
	if len(req.Items) > 0 {
		for _, item := range req.Items {
			product, perr := s.productRepo.GetForUpdate(ctx, tx, item.ProductID)
			if perr != nil {
				err = fmt.Errorf("failed to resolve product: %w", perr)
				return nil, err
			}
			if product == nil {
				err = model.NewNotFoundError("Product %s not found", item.ProductID)
				return nil, err
			}
			price := product.EffectivePrice()
			orderItems = append(orderItems, model.OrderItem{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    item.Quantity,
				Price:       price,
				Image:       product.Image,
				Subtotal:    price * float64(item.Quantity),
			})
		}
	}

	// Check-and-decrement is a single conditional write per line; the first
	// insufficient line aborts the transaction, undoing every earlier one.
	for _, item := range orderItems {
		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock: %w", err)
		}
		if !ok {
			product, perr := s.productRepo.GetForUpdate(ctx, tx, item.ProductID)
			if perr != nil {
				err = fmt.Errorf("failed to resolve product: %w", perr)
				return nil, err
			}
			if product == nil {
				err = model.NewNotFoundError("Product %s not found", item.ProductName)
				return nil, err
			}
			err = &model.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
			}
			s.logger.Warn().
				Str("product_id", item.ProductID.String()).
				Int("requested", item.Quantity).
				Int("available", product.Stock).
				Msg("insufficient stock")
			return nil, err
		}
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           orderItems,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
		ShippingAddress: *req.ShippingAddress,
		BillingAddress:  *req.ShippingAddress,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.BillingAddress != nil {
		order.BillingAddress = *req.BillingAddress
	}
	if req.TransactionID != nil && *req.TransactionID != "" {
		order.PaymentStatus = model.PaymentPaid
	}
	if cart != nil {
		order.CouponCode = cart.CouponCode
		order.DiscountAmount = cart.DiscountAmount
	}

	order.TaxAmount = 0
	order.ShippingCost = 0
	order.CalculateTotal()
	order.TaxAmount = model.TaxOn(order.Subtotal)
	order.ShippingCost = model.ShippingOn(order.Subtotal)
	order.CalculateTotal()

	// Order number is a display identifier combining the creation time and
	// the order count, generated inside the transaction. The unique
	// constraint on order_number turns a concurrent collision into a
	// failed creation rather than a silent duplicate.
	var count int64
	count, err = s.orderRepo.Count(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.OrderNumber = fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), count+1)

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	if err = s.orderRepo.CreateItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	// Best-effort: a failure here leaves a stale cart but never invalidates
	// the committed order.
	if cart != nil {
		cart.Clear()
		if clearErr := s.cartRepo.Save(ctx, cart); clearErr != nil {
			s.logger.Warn().
				Err(clearErr).
				Str("order_id", order.ID.String()).
				Str("cart_id", cart.ID.String()).
				Msg("failed to clear cart after order placement")
		}
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(order.Items)).
		Float64("total", order.TotalAmount).
		Msg("order created")

	return order, nil
}

// GetByID retrieves an order; only its owner or an admin may see it.
func (s *orderService) GetByID(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !actor.Owns(order.UserID) && !actor.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("actor_id", actor.ID.String()).
			Msg("order access denied")
		return nil, model.ErrNotAuthorised
	}

	return order, nil
}

// ListByUser retrieves the user's own orders.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, filter model.OrderFilter) ([]model.Order, int, error) {
	normalizeOrderFilter(&filter, 10)

	orders, total, err := s.orderRepo.ListByUser(ctx, userID, filter)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

// ListAll retrieves all orders (admin).
func (s *orderService) ListAll(ctx context.Context, filter model.OrderFilter) ([]model.Order, int, error) {
	normalizeOrderFilter(&filter, 20)

	orders, total, err := s.orderRepo.ListAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus advances an order through the lifecycle state machine. A
// disallowed transition is rejected without touching the persisted state.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus model.OrderStatus) (*model.Order, error) {
	if !model.ValidOrderStatus(newStatus) {
		return nil, model.NewValidationError("Invalid order status: %s", newStatus)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	from := order.Status
	if !order.UpdateStatus(newStatus) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(from)).
			Str("to", string(newStatus)).
			Msg("status transition rejected")
		return nil, model.NewDomainError(model.ErrCodeInvalidState,
			fmt.Sprintf("Cannot change order status from %s to %s", from, newStatus))
	}

	if newStatus == model.StatusDelivered {
		now := time.Now()
		order.ActualDelivery = &now
	}
	if newStatus == model.StatusReturned {
		now := time.Now()
		order.ReturnDate = &now
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(from)).
		Str("to", string(newStatus)).
		Msg("order status updated")

	return order, nil
}

// Cancel cancels a pending or processing order. Stock restoration and the
// status change commit together; the restore is the exact inverse of the
// all-or-nothing decrement performed at creation.
func (s *orderService) Cancel(ctx context.Context, actor model.Actor, id uuid.UUID, reason string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if !actor.Owns(order.UserID) && !actor.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("actor_id", actor.ID.String()).
			Msg("cancel denied")
		return nil, model.ErrNotAuthorised
	}

	if !model.Cancellable(order.Status) {
		return nil, model.NewDomainError(model.ErrCodeInvalidState,
			fmt.Sprintf("Cannot cancel order in %s status", order.Status))
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	for _, item := range order.Items {
		if err = s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to restore stock: %w", err)
		}
	}

	order.Status = model.StatusCancelled
	order.CancellationReason = &reason

	if err = s.orderRepo.UpdateTx(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to cancel order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit cancellation: %w", err)
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(order.Items)).
		Msg("order cancelled, stock restored")

	return order, nil
}

// validateCreateOrderRequest checks the fields every order needs before
// any database work starts.
func validateCreateOrderRequest(req *model.CreateOrderRequest) error {
	if req == nil {
		return model.NewValidationError("Order request is required")
	}
	if req.ShippingAddress == nil || req.PaymentMethod == "" {
		return model.NewValidationError("Please provide shipping address and payment method")
	}
	if !model.ValidPaymentMethod(req.PaymentMethod) {
		return model.NewValidationError("Invalid payment method: %s", req.PaymentMethod)
	}
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.NewValidationError("Item %d: product ID is required", i)
		}
		if item.Quantity < 1 {
			return model.NewValidationError("Item %d: quantity must be at least 1", i)
		}
	}
	return nil
}

func normalizeOrderFilter(filter *model.OrderFilter, defaultLimit int) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
}
