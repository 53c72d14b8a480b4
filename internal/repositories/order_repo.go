package repositories

import (
	"storefront/internal/models"
)

// OrderAggregates holds the raw order aggregates the admin dashboard is
// derived from.
type OrderAggregates struct {
	TotalOrders           int64
	TotalRevenue          float64
	DeliveredRevenue      float64
	OrdersByStatus        map[models.OrderStatus]int64
	OrdersByPaymentStatus map[models.PaymentStatus]int64
}

// OrderRepository defines the interface for order data access.
//
// Create and Cancel are transactional: the order rows, order item rows and the
// product stock adjustments succeed or fail as a unit.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	// GetRecent returns the most recently placed orders, newest first.
	GetRecent(limit int) ([]models.Order, error)
	// Create inserts the order and its items and decrements stock for every
	// line with an atomic conditional update. If any line would overdraw
	// stock the whole transaction rolls back with ErrInsufficientStock.
	Create(order *models.Order) error
	// UpdateStatus moves an order from the expected current status to a new
	// one as a single conditional write. A stale expectation, for example
	// when a concurrent update already moved the order on, returns
	// ErrInvalidTransition and changes nothing.
	UpdateStatus(id string, from, to models.OrderStatus) error
	// Cancel moves the order to Cancelled and restores stock for every item.
	// Only orders still in a cancellable state are affected; otherwise
	// ErrInvalidTransition is returned and nothing changes.
	Cancel(id string) (*models.Order, error)
	// Stats computes the order aggregates feeding the admin dashboard.
	Stats() (*OrderAggregates, error)
}
