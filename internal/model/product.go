package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Categories a product may belong to.
var Categories = []string{"Electronics", "Fashion", "Home", "Sports", "Books", "Food", "Other"}

// ValidCategory reports whether c is one of the known product categories.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// Product represents a catalogue entry. Rating and NumReviews are derived
// from the review list and recomputed whenever a review is appended.
type Product struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	Price         float64   `json:"price" db:"price"`
	DiscountPrice *float64  `json:"discountPrice,omitempty" db:"discount_price"`
	Image         string    `json:"image" db:"image"`
	Category      string    `json:"category" db:"category"`
	Stock         int       `json:"stock" db:"stock"`
	Rating        float64   `json:"rating" db:"rating"`
	NumReviews    int       `json:"numReviews" db:"num_reviews"`
	SellerID      uuid.UUID `json:"sellerId" db:"seller_id"`
	SKU           *string   `json:"sku,omitempty" db:"sku"`
	Weight        *float64  `json:"weight,omitempty" db:"weight"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	Reviews       []Review  `json:"reviews,omitempty" db:"-"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// Review is a single customer review of a product. At most one review per
// user per product.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	UserName  string    `json:"userName" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// EffectivePrice returns the discount price when one is set, otherwise the
// regular price. This is the unit price a customer pays.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// RecalculateRating recomputes the derived rating (mean of review ratings,
// rounded to one decimal) and review count from the embedded review list.
func (p *Product) RecalculateRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0
		p.NumReviews = 0
		return
	}

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(p.Reviews))
	p.Rating = math.Round(avg*10) / 10
	p.NumReviews = len(p.Reviews)
}

// Validate checks the invariants a product must satisfy before it can be
// persisted.
func (p *Product) Validate() error {
	if p.Name == "" {
		return NewValidationError("Please provide product name")
	}
	if len(p.Name) > 100 {
		return NewValidationError("Product name cannot exceed 100 characters")
	}
	if p.Description == "" {
		return NewValidationError("Please provide product description")
	}
	if len(p.Description) > 1000 {
		return NewValidationError("Description cannot exceed 1000 characters")
	}
	if p.Price < 0 {
		return NewValidationError("Price cannot be negative")
	}
	if p.DiscountPrice != nil {
		if *p.DiscountPrice < 0 {
			return NewValidationError("Discount price cannot be negative")
		}
		if *p.DiscountPrice >= p.Price {
			return NewValidationError("Discount price must be less than regular price")
		}
	}
	if !ValidCategory(p.Category) {
		return NewValidationError("Invalid product category: %s", p.Category)
	}
	if p.Stock < 0 {
		return NewValidationError("Stock cannot be negative")
	}
	return nil
}

// ProductFilter describes the list query for the catalogue.
type ProductFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string // price_asc, price_desc, rating, newest
	Page     int
	Limit    int
}

// Offset returns the row offset implied by the page and limit.
func (f *ProductFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// UpdateProductRequest carries a partial product update; nil fields are
// left unchanged.
type UpdateProductRequest struct {
	Name          *string  `json:"name,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	DiscountPrice *float64 `json:"discountPrice,omitempty"`
	Image         *string  `json:"image,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Stock         *int     `json:"stock,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	IsActive      *bool    `json:"isActive,omitempty"`
}

// ReviewSummary is the review listing for a product together with the
// derived aggregates.
type ReviewSummary struct {
	Reviews    []Review `json:"reviews"`
	Rating     float64  `json:"rating"`
	NumReviews int      `json:"numReviews"`
}
