package services

import (
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// recentOrderLimit is how many orders the dashboard's recent list shows.
const recentOrderLimit = 5

// DashboardStats is the headline summary for the admin dashboard. Total sales
// only counts delivered orders; the average is taken over all orders.
type DashboardStats struct {
	TotalSales        float64 `json:"total_sales"`
	TotalOrders       int64   `json:"total_orders"`
	TotalCustomers    int64   `json:"total_customers"`
	AverageOrderValue float64 `json:"average_order_value"`
}

// OrderStatsReport is the detailed order breakdown for the admin dashboard.
type OrderStatsReport struct {
	TotalOrders           int64                          `json:"total_orders"`
	TotalRevenue          float64                        `json:"total_revenue"`
	AverageOrderValue     float64                        `json:"average_order_value"`
	PendingOrders         int64                          `json:"pending_orders"`
	OrdersByStatus        map[models.OrderStatus]int64   `json:"orders_by_status"`
	OrdersByPaymentStatus map[models.PaymentStatus]int64 `json:"orders_by_payment_status"`
}

// AdminService computes the aggregate views behind the admin dashboard.
type AdminService struct {
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(orderRepo repositories.OrderRepository, userRepo repositories.UserRepository) *AdminService {
	return &AdminService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// GetDashboardStats returns the headline dashboard summary.
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	aggregates, err := s.orderRepo.Stats()
	if err != nil {
		return nil, err
	}
	customers, err := s.userRepo.CountByRole(models.RoleUser)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalSales:        aggregates.DeliveredRevenue,
		TotalOrders:       aggregates.TotalOrders,
		TotalCustomers:    customers,
		AverageOrderValue: averageOrderValue(aggregates),
	}, nil
}

// GetRecentOrders returns the most recently placed orders for the dashboard.
func (s *AdminService) GetRecentOrders() ([]models.Order, error) {
	return s.orderRepo.GetRecent(recentOrderLimit)
}

// GetOrderStats returns the detailed order breakdown.
func (s *AdminService) GetOrderStats() (*OrderStatsReport, error) {
	aggregates, err := s.orderRepo.Stats()
	if err != nil {
		return nil, err
	}

	return &OrderStatsReport{
		TotalOrders:           aggregates.TotalOrders,
		TotalRevenue:          aggregates.TotalRevenue,
		AverageOrderValue:     averageOrderValue(aggregates),
		PendingOrders:         aggregates.OrdersByStatus[models.StatusPending],
		OrdersByStatus:        aggregates.OrdersByStatus,
		OrdersByPaymentStatus: aggregates.OrdersByPaymentStatus,
	}, nil
}

func averageOrderValue(aggregates *repositories.OrderAggregates) float64 {
	if aggregates.TotalOrders == 0 {
		return 0
	}
	return aggregates.TotalRevenue / float64(aggregates.TotalOrders)
}
