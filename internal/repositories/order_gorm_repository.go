package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// GetAll retrieves all orders with their items, newest first.
func (r *GORMOrderRepository) GetAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get all orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// GetByUserID retrieves all orders placed by a user, newest first.
func (r *GORMOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// Create inserts the order and its items and decrements stock for every line
// inside a single transaction. Each decrement is a conditional update
// (stock >= quantity); zero affected rows rolls the whole order back, so a
// concurrent order for the same product can never overdraw stock.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock for product %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrInsufficientStock)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return nil
}

// UpdateStatus moves an order from the expected current status to a new one.
// The write is conditional on the order still holding the expected status, so
// two concurrent updates that both passed the transition check cannot both
// apply; the loser sees ErrInvalidTransition.
func (r *GORMOrderRepository) UpdateStatus(id string, from, to models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to update status for order %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to update status for order %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("order %s is no longer %s: %w", id, from, ErrInvalidTransition)
	}
	return nil
}

// GetRecent retrieves the most recently placed orders, newest first.
func (r *GORMOrderRepository) GetRecent(limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").
		Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent orders: %w", err)
	}
	return orders, nil
}

// Stats computes the order aggregates feeding the admin dashboard.
func (r *GORMOrderRepository) Stats() (*OrderAggregates, error) {
	stats := &OrderAggregates{
		OrdersByStatus:        make(map[models.OrderStatus]int64),
		OrdersByPaymentStatus: make(map[models.PaymentStatus]int64),
	}

	var totals struct {
		Count   int64
		Revenue float64
	}
	err := r.db.Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute order totals: %w", err)
	}
	stats.TotalOrders = totals.Count
	stats.TotalRevenue = totals.Revenue

	var delivered struct {
		Revenue float64
	}
	err = r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS revenue").
		Where("status = ?", models.StatusDelivered).
		Scan(&delivered).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute delivered revenue: %w", err)
	}
	stats.DeliveredRevenue = delivered.Revenue

	var statusRows []struct {
		Status models.OrderStatus
		Count  int64
	}
	err = r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").Scan(&statusRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	for _, row := range statusRows {
		stats.OrdersByStatus[row.Status] = row.Count
	}

	var paymentRows []struct {
		PaymentStatus models.PaymentStatus
		Count         int64
	}
	err = r.db.Model(&models.Order{}).
		Select("payment_status, COUNT(*) AS count").
		Group("payment_status").Scan(&paymentRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by payment status: %w", err)
	}
	for _, row := range paymentRows {
		stats.OrdersByPaymentStatus[row.PaymentStatus] = row.Count
	}

	return stats, nil
}

// Cancel moves the order to Cancelled and restores stock for every item in a
// single transaction. The status write is conditional on the order still being
// cancellable, which also guards against two concurrent cancellations both
// restoring stock.
func (r *GORMOrderRepository) Cancel(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to get order %s: %w", id, err)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", id, []models.OrderStatus{models.StatusPending, models.StatusProcessing}).
			Update("status", models.StatusCancelled)
		if res.Error != nil {
			return fmt.Errorf("failed to cancel order %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s is %s: %w", id, order.Status, ErrInvalidTransition)
		}

		for _, item := range order.Items {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore stock for product %s: %w", item.ProductID, err)
			}
		}

		order.Status = models.StatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
