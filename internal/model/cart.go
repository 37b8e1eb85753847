package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a cart. The product fields are a snapshot taken
// at add-time; they deliberately freeze the price the customer saw and are
// never re-resolved against the live catalogue.
type CartItem struct {
	ID            uuid.UUID `json:"-" db:"id"`
	CartID        uuid.UUID `json:"-" db:"cart_id"`
	ProductID     uuid.UUID `json:"productId" db:"product_id"`
	ProductName   string    `json:"productName" db:"product_name"`
	Price         float64   `json:"price" db:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty" db:"discount_price"`
	Image         string    `json:"image" db:"image"`
	Category      string    `json:"category" db:"category"`
	Stock         int       `json:"stock" db:"stock"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Subtotal      float64   `json:"subtotal" db:"subtotal"`
	AddedAt       time.Time `json:"addedAt" db:"added_at"`
}

// EffectivePrice returns the snapshot discount price when present,
// otherwise the snapshot regular price.
func (i *CartItem) EffectivePrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

// Cart is the per-user mutable line-item list with derived totals. Exactly
// one cart exists per user.
type Cart struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"userId" db:"user_id"`
	Items          []CartItem `json:"items" db:"-"`
	TotalItems     int        `json:"totalItems" db:"total_items"`
	Subtotal       float64    `json:"subtotal" db:"subtotal"`
	TaxAmount      float64    `json:"taxAmount" db:"tax_amount"`
	ShippingCost   float64    `json:"shippingCost" db:"shipping_cost"`
	DiscountAmount float64    `json:"discountAmount" db:"discount_amount"`
	TotalPrice     float64    `json:"totalPrice" db:"total_price"`
	CouponCode     *string    `json:"couponCode,omitempty" db:"coupon_code"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewCart creates an empty cart for the given user.
func NewCart(userID uuid.UUID) *Cart {
	now := time.Now()
	return &Cart{
		ID:        uuid.New(),
		UserID:    userID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CalculateTotals recomputes every derived total from the current line
// items. It is idempotent and must be re-run after every structural change.
// Tax, shipping and discount are inputs here, set by the checkout flow;
// TotalPrice is only meaningful once they have been applied.
func (c *Cart) CalculateTotals() {
	c.TotalItems = 0
	c.Subtotal = 0
	for idx := range c.Items {
		item := &c.Items[idx]
		c.TotalItems += item.Quantity
		item.Subtotal = item.EffectivePrice() * float64(item.Quantity)
		c.Subtotal += item.Subtotal
	}
	c.TotalPrice = c.Subtotal + c.TaxAmount + c.ShippingCost - c.DiscountAmount
}

// AddItem merges a product snapshot into the cart. An existing line for the
// same product has its quantity incremented and its added-at refreshed;
// otherwise a new line is appended. Totals are recomputed.
func (c *Cart) AddItem(snapshot CartItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == snapshot.ProductID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].AddedAt = time.Now()
			c.CalculateTotals()
			return
		}
	}

	snapshot.ID = uuid.New()
	snapshot.CartID = c.ID
	snapshot.Quantity = quantity
	snapshot.AddedAt = time.Now()
	c.Items = append(c.Items, snapshot)
	c.CalculateTotals()
}

// RemoveItem drops the line for the given product. A missing line is a
// no-op, not an error. Totals are recomputed.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	filtered := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	c.Items = filtered
	c.CalculateTotals()
}

// UpdateItemQuantity sets the quantity of an existing line. A quantity of
// zero or less behaves as removal. Returns whether a matching line existed.
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, quantity int) bool {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			if quantity <= 0 {
				c.RemoveItem(productID)
			} else {
				c.Items[idx].Quantity = quantity
				c.CalculateTotals()
			}
			return true
		}
	}
	return false
}

// Clear empties the cart and zeroes every derived total and any applied
// coupon.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.TotalItems = 0
	c.Subtotal = 0
	c.TaxAmount = 0
	c.ShippingCost = 0
	c.DiscountAmount = 0
	c.TotalPrice = 0
	c.CouponCode = nil
}

// HasItem reports whether the cart holds a line for the given product.
func (c *Cart) HasItem(productID uuid.UUID) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
