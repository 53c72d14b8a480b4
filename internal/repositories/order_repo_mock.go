package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository. It
// shares a MockProductRepository so order placement and cancellation mutate
// stock the same way the transactional GORM implementation does.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository backed
// by the given product repository.
func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

// GetAll returns all orders.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByUserID returns all orders placed by a user.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orderList []models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// Create adds a new order, decrementing stock per line. A failed decrement
// undoes the earlier ones so no partial order is ever stored.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	var applied []models.OrderItem
	for _, item := range order.Items {
		if err := r.products.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			for _, done := range applied {
				_ = r.products.AdjustStock(done.ProductID, done.Quantity)
			}
			return err
		}
		applied = append(applied, item)
	}

	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus moves an order from the expected current status to a new one,
// failing when the order has already moved on.
func (r *MockOrderRepository) UpdateStatus(id string, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if order.Status != from {
		return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrInvalidTransition)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// GetRecent returns the most recently placed orders, newest first.
func (r *MockOrderRepository) GetRecent(limit int) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		orderList = append(orderList, order)
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	if len(orderList) > limit {
		orderList = orderList[:limit]
	}
	return orderList, nil
}

// Stats computes the order aggregates.
func (r *MockOrderRepository) Stats() (*OrderAggregates, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &OrderAggregates{
		OrdersByStatus:        make(map[models.OrderStatus]int64),
		OrdersByPaymentStatus: make(map[models.PaymentStatus]int64),
	}
	for _, order := range r.orders {
		stats.TotalOrders++
		stats.TotalRevenue += order.Total
		if order.Status == models.StatusDelivered {
			stats.DeliveredRevenue += order.Total
		}
		stats.OrdersByStatus[order.Status]++
		stats.OrdersByPaymentStatus[order.PaymentStatus]++
	}
	return stats, nil
}

// Cancel moves the order to Cancelled and restores stock for every item.
func (r *MockOrderRepository) Cancel(id string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if !order.Status.Cancellable() {
		return nil, fmt.Errorf("order %s is %s: %w", id, order.Status, ErrInvalidTransition)
	}

	for _, item := range order.Items {
		_ = r.products.AdjustStock(item.ProductID, item.Quantity)
	}

	order.Status = models.StatusCancelled
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}
