package service

import (
	"context"
	"fmt"

	"storefront/internal/coupon"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	coupons     coupon.Validator
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	coupons coupon.Validator,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		coupons:     coupons,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// applyCheckoutPricing recomputes the cart's derived totals and applies
// tax, shipping and any coupon discount. Idempotent; run after every
// mutation and before every read so TotalPrice is always presentable.
func applyCheckoutPricing(cart *model.Cart) {
	cart.CalculateTotals()
	if len(cart.Items) == 0 {
		cart.TaxAmount = 0
		cart.ShippingCost = 0
		cart.DiscountAmount = 0
		cart.TotalPrice = 0
		return
	}
	cart.TaxAmount = model.TaxOn(cart.Subtotal)
	cart.ShippingCost = model.ShippingOn(cart.Subtotal)
	if cart.CouponCode != nil {
		cart.DiscountAmount = model.CouponDiscountOn(cart.Subtotal)
	}
	cart.CalculateTotals()
}

// loadOrCreate fetches the user's cart, lazily creating one on first use.
func (s *cartService) loadOrCreate(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		cart = model.NewCart(userID)
		s.logger.Debug().Str("user_id", userID.String()).Msg("creating cart")
	}
	return cart, nil
}

// save applies checkout pricing and persists the cart.
func (s *cartService) save(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	applyCheckoutPricing(cart)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// GetCart retrieves the user's cart, lazily creating an empty one.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, cart)
}

// AddItem adds a product to the cart with a snapshot of its current state.
func (s *cartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}
	if quantity > 999 {
		return nil, model.NewValidationError("Quantity cannot exceed 999")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || !product.IsActive {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(model.CartItem{
		ProductID:     product.ID,
		ProductName:   product.Name,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Image:         product.Image,
		Category:      product.Category,
		Stock:         product.Stock,
	}, quantity)

	s.logger.Debug().
		Str("user_id", userID.String()).
		Str("product_id", productID.String()).
		Int("quantity", quantity).
		Msg("item added to cart")

	return s.save(ctx, cart)
}

// UpdateItemQuantity sets a line's quantity; zero or negative removes it.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity > 999 {
		return nil, model.NewValidationError("Quantity cannot exceed 999")
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !cart.UpdateItemQuantity(productID, quantity) {
		return nil, model.NewNotFoundError("Item not found in cart")
	}

	return s.save(ctx, cart)
}

// RemoveItem drops a line from the cart; absent lines are a no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(productID)

	return s.save(ctx, cart)
}

// Clear empties the cart and zeroes all derived totals and any coupon.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Clear()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to save cart")
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug().Str("user_id", userID.String()).Msg("cart cleared")

	return cart, nil
}

// ApplyCoupon validates a coupon code and applies its discount to the cart.
func (s *cartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*model.Cart, error) {
	if code == "" {
		return nil, model.NewValidationError("Please provide a coupon code")
	}

	if err := s.coupons.Validate(ctx, code); err != nil {
		s.logger.Warn().Str("coupon_code", code).Err(err).Msg("coupon rejected")
		return nil, err
	}

	cart, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrCartEmpty
	}

	cart.CouponCode = &code

	s.logger.Info().
		Str("user_id", userID.String()).
		Str("coupon_code", code).
		Msg("coupon applied")

	return s.save(ctx, cart)
}
