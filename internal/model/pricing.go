package model

// Pricing constants applied by the checkout flow.
const (
	// TaxRate is the flat tax applied to the order subtotal.
	TaxRate = 0.18

	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold = 500.0

	// FlatShippingCost is charged when the subtotal is at or below the
	// free-shipping threshold.
	FlatShippingCost = 50.0

	// CouponDiscountRate is the share of the subtotal discounted by a
	// valid coupon code.
	CouponDiscountRate = 0.10
)

// TaxOn returns the tax amount for a subtotal.
func TaxOn(subtotal float64) float64 {
	return subtotal * TaxRate
}

// ShippingOn returns the shipping cost for a subtotal.
func ShippingOn(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShippingCost
}

// CouponDiscountOn returns the discount a valid coupon grants on a subtotal.
func CouponDiscountOn(subtotal float64) float64 {
	return subtotal * CouponDiscountRate
}
