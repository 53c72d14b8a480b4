package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderServiceForTest(t *testing.T) (*services.OrderService, *repositories.MockProductRepository, *services.SettingsService) {
	t.Helper()

	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)

	settings, err := services.NewSettingsService(repositories.NewMockSettingsRepository())
	require.NoError(t, err)

	service := services.NewOrderService(orderRepo, productRepo, nil, settings, nil, nil)
	return service, productRepo, settings
}

func seedProduct(t *testing.T, repo *repositories.MockProductRepository, id string, price float64, stock int) {
	t.Helper()
	err := repo.Create(&models.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Stock:    stock,
		IsActive: true,
	})
	require.NoError(t, err)
}

func testShippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		Name:    "Jane Doe",
		Street:  "1 Test Street",
		City:    "Testville",
		ZipCode: "12345",
		Country: "US",
	}
}

func TestOrderService_PlaceOrder(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 100.0, 5)

	user := &models.User{ID: "u1", Email: "jane@example.com"}
	order, err := service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "u1", order.UserID)

	// Totals come from the stored product price, not the request.
	assert.InDelta(t, 300.0, order.Subtotal, 0.001)
	assert.InDelta(t, 30.0, order.Tax, 0.001)
	assert.InDelta(t, 0.0, order.ShippingCost, 0.001)
	assert.InDelta(t, 330.0, order.Total, 0.001)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.InDelta(t, 100.0, order.Items[0].Price, 0.001)

	product, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stock)
}

func TestOrderService_PlaceOrder_PriceSnapshot(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 50.0, 10)

	user := &models.User{ID: "u1"}
	order, err := service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentPayPal,
	})
	require.NoError(t, err)

	// A later price change must not affect the placed order.
	product, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	product.Price = 75.0
	require.NoError(t, productRepo.Update(product))

	stored, err := service.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, stored.Items[0].Price, 0.001)
	assert.InDelta(t, 55.0, stored.Total, 0.001)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 100.0, 2)

	user := &models.User{ID: "u1"}
	order, err := service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})

	assert.Nil(t, order)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	product, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 2, product.Stock, "stock must be untouched by a rejected order")
}

func TestOrderService_PlaceOrder_PartialFailureRollsBack(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	seedProduct(t, productRepo, "p1", 10.0, 5)
	seedProduct(t, productRepo, "p2", 20.0, 5)

	// The second line overdraws after the first decrement has been applied.
	// The repository must undo the first decrement and store no order.
	err := orderRepo.Create(&models.Order{
		UserID: "u1",
		Items: []models.OrderItem{
			{ProductID: "p1", Quantity: 2, Price: 10.0},
			{ProductID: "p2", Quantity: 6, Price: 20.0},
		},
		Status: models.StatusPending,
	})
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	p1, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p1.Stock)
	p2, err := productRepo.GetByID("p2")
	require.NoError(t, err)
	assert.Equal(t, 5, p2.Stock)

	orders, err := orderRepo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 100.0, 5)
	user := &models.User{ID: "u1"}

	// No items.
	_, err := service.PlaceOrder(user, services.PlaceOrderRequest{
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	assert.Error(t, err)

	// Zero quantity.
	_, err = service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 0}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	assert.Error(t, err)

	// Unknown product.
	_, err = service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "missing", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_PlaceOrder_InactiveProduct(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	err := productRepo.Create(&models.Product{ID: "p1", Name: "Retired", Price: 10.0, Stock: 5, IsActive: false})
	require.NoError(t, err)

	_, err = service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestOrderService_PlaceOrder_ShippingCost(t *testing.T) {
	service, productRepo, settings := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 40.0, 20)

	err := settings.UpdateSection(models.SectionShipping, map[string]any{
		"defaultShippingCost":   9.5,
		"freeShippingThreshold": 100.0,
		"enableFreeShipping":    true,
	})
	require.NoError(t, err)

	user := &models.User{ID: "u1"}

	// Below the free shipping threshold.
	order, err := service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)
	assert.InDelta(t, 9.5, order.ShippingCost, 0.001)
	assert.InDelta(t, 40.0+4.0+9.5, order.Total, 0.001)

	// At or above the threshold shipping is free.
	order, err = service.PlaceOrder(user, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, order.ShippingCost, 0.001)
	assert.InDelta(t, 120.0+12.0, order.Total, 0.001)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order, err := service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)

	// Pending -> Processing -> Shipped -> Delivered walks the whole chain.
	for _, status := range []models.OrderStatus{
		models.StatusProcessing, models.StatusShipped, models.StatusDelivered,
	} {
		order, err = service.UpdateOrderStatus(order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, order.Status)
	}

	// Delivered is terminal.
	_, err = service.UpdateOrderStatus(order.ID, models.StatusProcessing)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)
	_, err = service.UpdateOrderStatus(order.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)
}

func TestOrderService_UpdateOrderStatus_StaleRead(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	orderRepo := repositories.NewMockOrderRepository(productRepo)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order := &models.Order{
		UserID: "u1",
		Items:  []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 10.0}},
		Status: models.StatusPending,
	}
	require.NoError(t, orderRepo.Create(order))

	// The status write is conditional on the status the caller read. A second
	// writer working from the same Pending snapshot must fail instead of
	// overwriting the first transition.
	require.NoError(t, orderRepo.UpdateStatus(order.ID, models.StatusPending, models.StatusProcessing))
	err := orderRepo.UpdateStatus(order.ID, models.StatusPending, models.StatusProcessing)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)

	stored, err := orderRepo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, stored.Status)
}

func TestOrderService_UpdateOrderStatus_SkippingStates(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order, err := service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)

	_, err = service.UpdateOrderStatus(order.ID, models.StatusDelivered)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)

	stored, err := service.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestOrderService_UpdateOrderStatus_UnknownStatus(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order, err := service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)

	_, err = service.UpdateOrderStatus(order.ID, "Teleported")
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestOrderService_CancelOrder_RestoresStock(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order, err := service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 3}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)

	product, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	require.Equal(t, 2, product.Stock)

	cancelled, err := service.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	product, err = productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)

	// A cancelled order cannot be cancelled again, so stock is restored once.
	_, err = service.CancelOrder(order.ID)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)
	product, err = productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 5, product.Stock)
}

func TestOrderService_CancelOrder_ShippedRejected(t *testing.T) {
	service, productRepo, _ := newOrderServiceForTest(t)
	seedProduct(t, productRepo, "p1", 10.0, 5)

	order, err := service.PlaceOrder(&models.User{ID: "u1"}, services.PlaceOrderRequest{
		Items:           []services.OrderItemRequest{{ProductID: "p1", Quantity: 2}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentStripe,
	})
	require.NoError(t, err)

	_, err = service.UpdateOrderStatus(order.ID, models.StatusProcessing)
	require.NoError(t, err)
	_, err = service.UpdateOrderStatus(order.ID, models.StatusShipped)
	require.NoError(t, err)

	_, err = service.CancelOrder(order.ID)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)

	product, err := productRepo.GetByID("p1")
	require.NoError(t, err)
	assert.Equal(t, 3, product.Stock, "stock must not be restored for a shipped order")
}
