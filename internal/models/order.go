package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// statusTransitions is the set of legal order status transitions.
// Delivered and Cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition s -> target is legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, t := range statusTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in state s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentPayPal PaymentMethod = "PayPal"
	PaymentStripe PaymentMethod = "Stripe"
)

// PaymentStatus tracks the state of the payment attached to an order.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// ShippingAddress is embedded in the order as a JSON column.
type ShippingAddress struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country" validate:"required"`
	Phone   string `json:"phone"`
}

// OrderItem is a single line of an order. Price is a snapshot of the product
// price at order time and is never re-derived from the current product price.
type OrderItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);index"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

// Order represents a customer order. Subtotal, Tax, ShippingCost and Total are
// computed server-side from authoritative product prices at order time.
type Order struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string          `json:"user_id" gorm:"type:varchar(36);index"`
	Items             []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(20);default:'Pending'"`
	PaymentMethod     PaymentMethod   `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus     PaymentStatus   `json:"payment_status" gorm:"type:varchar(20);default:'Pending'"`
	ShippingAddress   ShippingAddress `json:"shipping_address" gorm:"serializer:json"`
	Subtotal          float64         `json:"subtotal"`
	Tax               float64         `json:"tax"`
	ShippingCost      float64         `json:"shipping_cost"`
	Total             float64         `json:"total"`
	Notes             string          `json:"notes"`
	TrackingNumber    string          `json:"tracking_number"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
	gorm.Model
}
