package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is an order's lifecycle state.
type OrderStatus string

// Order lifecycle states.
const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
	StatusReturned   OrderStatus = "returned"
)

// PaymentStatus tracks whether an order has been paid for.
type PaymentStatus string

// Payment states.
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethods accepted at checkout.
var PaymentMethods = []string{"credit_card", "debit_card", "paypal", "upi", "net_banking"}

// ValidPaymentMethod reports whether m is an accepted payment method.
func ValidPaymentMethod(m string) bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// statusTransitions is the adjacency map of the order lifecycle. Cancelled
// and returned are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusReturned},
	StatusDelivered:  {StatusReturned},
	StatusCancelled:  {},
	StatusReturned:   {},
}

// ValidOrderStatus reports whether s is a known lifecycle state.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// AllowedTransitions returns the set of states an order in the given state
// may legally move to next.
func AllowedTransitions(from OrderStatus) []OrderStatus {
	return statusTransitions[from]
}

// CanTransition reports whether from -> to is a legal status transition.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in the given state may still be
// cancelled by its owner or an administrator.
func Cancellable(s OrderStatus) bool {
	return s == StatusPending || s == StatusProcessing
}

// Address is a shipping or billing address, stored as a JSON document on
// the order.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// OrderItem is an immutable purchased line: a snapshot of the product at
// the moment the order was placed.
type OrderItem struct {
	ID          uuid.UUID `json:"-" db:"id"`
	OrderID     uuid.UUID `json:"-" db:"order_id"`
	ProductID   uuid.UUID `json:"productId" db:"product_id"`
	ProductName string    `json:"productName" db:"product_name"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Price       float64   `json:"price" db:"price"`
	Image       string    `json:"image" db:"image"`
	Subtotal    float64   `json:"subtotal" db:"subtotal"`
}

// Order is the immutable record of a purchase.
type Order struct {
	ID                 uuid.UUID     `json:"id" db:"id"`
	UserID             uuid.UUID     `json:"userId" db:"user_id"`
	OrderNumber        string        `json:"orderNumber" db:"order_number"`
	Items              []OrderItem   `json:"items" db:"-"`
	Subtotal           float64       `json:"subtotal" db:"subtotal"`
	TaxAmount          float64       `json:"taxAmount" db:"tax_amount"`
	ShippingCost       float64       `json:"shippingCost" db:"shipping_cost"`
	DiscountAmount     float64       `json:"discountAmount" db:"discount_amount"`
	TotalAmount        float64       `json:"totalAmount" db:"total_amount"`
	CouponCode         *string       `json:"couponCode,omitempty" db:"coupon_code"`
	Status             OrderStatus   `json:"status" db:"status"`
	PaymentStatus      PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentMethod      string        `json:"paymentMethod" db:"payment_method"`
	TransactionID      *string       `json:"transactionId,omitempty" db:"transaction_id"`
	ShippingAddress    Address       `json:"shippingAddress" db:"shipping_address"`
	BillingAddress     Address       `json:"billingAddress" db:"billing_address"`
	TrackingNumber     *string       `json:"trackingNumber,omitempty" db:"tracking_number"`
	ShippingProvider   *string       `json:"shippingProvider,omitempty" db:"shipping_provider"`
	EstimatedDelivery  *time.Time    `json:"estimatedDelivery,omitempty" db:"estimated_delivery"`
	ActualDelivery     *time.Time    `json:"actualDelivery,omitempty" db:"actual_delivery"`
	Notes              *string       `json:"notes,omitempty" db:"notes"`
	CancellationReason *string       `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	ReturnReason       *string       `json:"returnReason,omitempty" db:"return_reason"`
	ReturnDate         *time.Time    `json:"returnDate,omitempty" db:"return_date"`
	CreatedAt          time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time     `json:"updatedAt" db:"updated_at"`
}

// UpdateStatus moves the order to newStatus when the transition is allowed
// by the lifecycle table. It reports whether the transition was applied;
// a disallowed transition leaves the order untouched. Stamping delivery
// timestamps is the caller's responsibility.
func (o *Order) UpdateStatus(newStatus OrderStatus) bool {
	if !CanTransition(o.Status, newStatus) {
		return false
	}
	o.Status = newStatus
	return true
}

// CalculateTotal recomputes the order totals from its line items. Line
// subtotals are snapshot values fixed at cart time; they are summed, never
// re-derived from current product prices.
func (o *Order) CalculateTotal() {
	o.Subtotal = 0
	for _, item := range o.Items {
		o.Subtotal += item.Subtotal
	}
	o.TotalAmount = o.Subtotal + o.TaxAmount + o.ShippingCost - o.DiscountAmount
}

// OrderItemRequest is a single requested line when creating an order with
// an explicit item list.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// CreateOrderRequest is the payload for creating an order. When Items is
// empty the caller's current cart is used instead.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items,omitempty"`
	ShippingAddress *Address           `json:"shippingAddress"`
	BillingAddress  *Address           `json:"billingAddress,omitempty"`
	PaymentMethod   string             `json:"paymentMethod"`
	TransactionID   *string            `json:"transactionId,omitempty"`
	Notes           *string            `json:"notes,omitempty"`
}

// OrderFilter describes a paginated order listing, optionally restricted
// to a status.
type OrderFilter struct {
	Status string
	Page   int
	Limit  int
}

// Offset returns the row offset implied by the page and limit.
func (f *OrderFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
