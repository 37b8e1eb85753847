package service

import (
	"context"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest() (*cartService, *MockCartRepository, *MockProductRepository, *MockCouponValidator) {
	cartRepo := new(MockCartRepository)
	productRepo := new(MockProductRepository)
	coupons := new(MockCouponValidator)
	svc := NewCartService(cartRepo, productRepo, coupons, zerolog.Nop()).(*cartService)
	return svc, cartRepo, productRepo, coupons
}

func activeProduct(price float64) *model.Product {
	return &model.Product{
		ID:       uuid.New(),
		Name:     "Wireless Headphones",
		Price:    price,
		Category: "Electronics",
		Stock:    50,
		IsActive: true,
	}
}

func TestGetCartCreatesLazily(t *testing.T) {
	svc, cartRepo, _, _ := newCartServiceForTest()

	userID := uuid.New()
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)
	cartRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.GetCart(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
	assert.Zero(t, cart.ShippingCost, "an empty cart never charges shipping")
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	svc, cartRepo, productRepo, _ := newCartServiceForTest()

	userID := uuid.New()
	discount := 80.0
	product := activeProduct(100)
	product.DiscountPrice = &discount

	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)
	cartRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Cart")).Return(nil)

	cart, err := svc.AddItem(context.Background(), userID, product.ID, 2)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, product.Name, item.ProductName)
	assert.InDelta(t, 100.0, item.Price, 0.001)
	require.NotNil(t, item.DiscountPrice)
	assert.InDelta(t, 80.0, *item.DiscountPrice, 0.001)
	assert.Equal(t, 2, item.Quantity)

	// Discount price drives the line subtotal and the checkout pricing.
	assert.InDelta(t, 160.0, cart.Subtotal, 0.001)
	assert.InDelta(t, model.TaxOn(160), cart.TaxAmount, 0.001)
	assert.InDelta(t, 50.0, cart.ShippingCost, 0.001)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _, productRepo, _ := newCartServiceForTest()

	productID := uuid.New()
	productRepo.On("GetByID", mock.Anything, productID).Return(nil, nil)

	cart, err := svc.AddItem(context.Background(), uuid.New(), productID, 1)

	assert.Nil(t, cart)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestAddItemInactiveProduct(t *testing.T) {
	svc, _, productRepo, _ := newCartServiceForTest()

	product := activeProduct(10)
	product.IsActive = false
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1)

	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestAddItemQuantityBounds(t *testing.T) {
	svc, cartRepo, productRepo, _ := newCartServiceForTest()

	userID := uuid.New()
	product := activeProduct(10)

	// Above the cap is rejected outright.
	_, err := svc.AddItem(context.Background(), userID, product.ID, 1000)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)

	// Zero is clamped up to one.
	productRepo.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(nil, nil)
	cartRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	cart, err := svc.AddItem(context.Background(), userID, product.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	svc, cartRepo, _, _ := newCartServiceForTest()

	userID := uuid.New()
	cart := model.NewCart(userID)
	cart.AddItem(model.CartItem{ProductID: uuid.New(), Price: 20}, 1)
	productID := cart.Items[0].ProductID

	cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
	cartRepo.On("Save", mock.Anything, cart).Return(nil)

	updated, err := svc.UpdateItemQuantity(context.Background(), userID, productID, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.InDelta(t, 60.0, updated.Subtotal, 0.001)
}

func TestUpdateItemQuantityMissingLine(t *testing.T) {
	svc, cartRepo, _, _ := newCartServiceForTest()

	userID := uuid.New()
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(model.NewCart(userID), nil)

	updated, err := svc.UpdateItemQuantity(context.Background(), userID, uuid.New(), 2)

	assert.Nil(t, updated)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeNotFound, domainErr.Code)
}

func TestRemoveItemAbsentLineIsNoOp(t *testing.T) {
	svc, cartRepo, _, _ := newCartServiceForTest()

	userID := uuid.New()
	cart := model.NewCart(userID)
	cart.AddItem(model.CartItem{ProductID: uuid.New(), Price: 5}, 1)

	cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
	cartRepo.On("Save", mock.Anything, cart).Return(nil)

	updated, err := svc.RemoveItem(context.Background(), userID, uuid.New())

	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
}

func TestClearCart(t *testing.T) {
	svc, cartRepo, _, _ := newCartServiceForTest()

	userID := uuid.New()
	code := "SAVE10NOW"
	cart := model.NewCart(userID)
	cart.AddItem(model.CartItem{ProductID: uuid.New(), Price: 100}, 2)
	cart.CouponCode = &code

	cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
	cartRepo.On("Save", mock.Anything, cart).Return(nil)

	cleared, err := svc.Clear(context.Background(), userID)

	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
	assert.Zero(t, cleared.TotalPrice)
	assert.Nil(t, cleared.CouponCode)
}

func TestApplyCoupon(t *testing.T) {
	svc, cartRepo, _, coupons := newCartServiceForTest()

	userID := uuid.New()
	cart := model.NewCart(userID)
	cart.AddItem(model.CartItem{ProductID: uuid.New(), Price: 100}, 3)

	coupons.On("Validate", mock.Anything, "SAVE10NOW").Return(nil)
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(cart, nil)
	cartRepo.On("Save", mock.Anything, cart).Return(nil)

	updated, err := svc.ApplyCoupon(context.Background(), userID, "SAVE10NOW")

	require.NoError(t, err)
	require.NotNil(t, updated.CouponCode)
	assert.Equal(t, "SAVE10NOW", *updated.CouponCode)
	assert.InDelta(t, 30.0, updated.DiscountAmount, 0.001)
	// subtotal 300 + tax 54 + shipping 50 - discount 30
	assert.InDelta(t, 374.0, updated.TotalPrice, 0.001)
}

func TestApplyCouponInvalidCode(t *testing.T) {
	svc, cartRepo, _, coupons := newCartServiceForTest()

	coupons.On("Validate", mock.Anything, "BADCODE99").Return(model.ErrInvalidCoupon)

	cart, err := svc.ApplyCoupon(context.Background(), uuid.New(), "BADCODE99")

	assert.Nil(t, cart)
	assert.ErrorIs(t, err, model.ErrInvalidCoupon)
	cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyCouponEmptyCart(t *testing.T) {
	svc, cartRepo, _, coupons := newCartServiceForTest()

	userID := uuid.New()
	coupons.On("Validate", mock.Anything, "SAVE10NOW").Return(nil)
	cartRepo.On("GetByUserID", mock.Anything, userID).Return(model.NewCart(userID), nil)

	cart, err := svc.ApplyCoupon(context.Background(), userID, "SAVE10NOW")

	assert.Nil(t, cart)
	assert.ErrorIs(t, err, model.ErrCartEmpty)
}

func TestApplyCouponMissingCode(t *testing.T) {
	svc, _, _, coupons := newCartServiceForTest()

	cart, err := svc.ApplyCoupon(context.Background(), uuid.New(), "")

	assert.Nil(t, cart)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
	coupons.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}
