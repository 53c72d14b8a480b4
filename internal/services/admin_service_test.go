package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminServiceForTest(t *testing.T) (*services.AdminService, repositories.OrderRepository, *repositories.MockProductRepository, *fakeUserRepository) {
	t.Helper()
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	userRepo := newFakeUserRepository()
	return services.NewAdminService(orderRepo, userRepo), orderRepo, productRepo, userRepo
}

func placeTestOrder(t *testing.T, orderRepo repositories.OrderRepository, total float64, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{
		UserID:        "u1",
		Items:         []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: total}},
		Status:        status,
		PaymentStatus: models.PaymentStatusPending,
		Total:         total,
	}
	require.NoError(t, orderRepo.Create(order))
	return order
}

func TestAdminService_GetDashboardStats(t *testing.T) {
	service, orderRepo, productRepo, userRepo := newAdminServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 100)

	require.NoError(t, userRepo.Create(&models.User{Email: "admin@example.com", Role: models.RoleAdmin}))
	require.NoError(t, userRepo.Create(&models.User{Email: "a@example.com", Role: models.RoleUser}))
	require.NoError(t, userRepo.Create(&models.User{Email: "b@example.com", Role: models.RoleUser}))

	placeTestOrder(t, orderRepo, 100.0, models.StatusDelivered)
	placeTestOrder(t, orderRepo, 60.0, models.StatusDelivered)
	placeTestOrder(t, orderRepo, 40.0, models.StatusPending)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)

	// Sales count delivered orders only; the average spans every order.
	assert.InDelta(t, 160.0, stats.TotalSales, 0.001)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalCustomers, "admins are not customers")
	assert.InDelta(t, 200.0/3, stats.AverageOrderValue, 0.001)
}

func TestAdminService_GetDashboardStats_Empty(t *testing.T) {
	service, _, _, _ := newAdminServiceForTest(t)

	stats, err := service.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.InDelta(t, 0.0, stats.TotalSales, 0.001)
	assert.InDelta(t, 0.0, stats.AverageOrderValue, 0.001, "no orders must not divide by zero")
}

func TestAdminService_GetOrderStats(t *testing.T) {
	service, orderRepo, productRepo, _ := newAdminServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 100)

	placeTestOrder(t, orderRepo, 50.0, models.StatusPending)
	placeTestOrder(t, orderRepo, 30.0, models.StatusPending)
	placeTestOrder(t, orderRepo, 20.0, models.StatusShipped)

	stats, err := service.GetOrderStats()
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.InDelta(t, 100.0, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 100.0/3, stats.AverageOrderValue, 0.001)
	assert.Equal(t, int64(2), stats.PendingOrders)
	assert.Equal(t, int64(2), stats.OrdersByStatus[models.StatusPending])
	assert.Equal(t, int64(1), stats.OrdersByStatus[models.StatusShipped])
	assert.Equal(t, int64(3), stats.OrdersByPaymentStatus[models.PaymentStatusPending])
}

func TestAdminService_GetRecentOrders(t *testing.T) {
	service, orderRepo, productRepo, _ := newAdminServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 100)

	var last *models.Order
	for i := 0; i < 7; i++ {
		last = placeTestOrder(t, orderRepo, 10.0, models.StatusPending)
	}

	recent, err := service.GetRecentOrders()
	require.NoError(t, err)
	require.Len(t, recent, 5)
	assert.Equal(t, last.ID, recent[0].ID, "newest order comes first")
}
