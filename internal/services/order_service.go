package services

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"
)

// taxRate is the flat tax applied to every order subtotal.
const taxRate = 0.10

// ErrInvalidStatus is returned when a status update names an unknown status.
var ErrInvalidStatus = errors.New("invalid order status")

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// PlaceOrderRequest is the checkout payload. Totals are not part of it: they
// are recomputed server-side from authoritative product prices.
type PlaceOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address" validate:"required"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method" validate:"required,oneof=PayPal Stripe"`
	Notes           string                 `json:"notes"`
}

// OrderService handles the order lifecycle: placement, status transitions and
// cancellation, together with their stock side effects and notifications.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	settings    *SettingsService
	mqClient    *rabbitmq.Client
	mailer      mailer.Mailer
}

// NewOrderService creates a new OrderService. mqClient and m may be nil, in
// which case events and emails are skipped.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	settings *SettingsService,
	mqClient *rabbitmq.Client,
	m mailer.Mailer,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		settings:    settings,
		mqClient:    mqClient,
		mailer:      m,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// PlaceOrder creates an order for the user. Every referenced product must
// exist, be active and have sufficient stock; prices are snapshotted and the
// totals (subtotal + 10% tax + shipping) computed from them. The repository
// write is transactional: order, items and stock decrements succeed or fail
// as a unit. The confirmation email and the order.created event are
// best-effort side effects.
func (s *OrderService) PlaceOrder(user *models.User, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("order must contain at least one item")
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("quantity for product %s must be positive", line.ProductID)
		}

		product, err := s.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", line.ProductID, err)
		}
		if !product.IsActive {
			return nil, fmt.Errorf("product %s is not available: %w", product.Name, repositories.ErrNotFound)
		}
		// Early, friendly stock check. The authoritative check is the
		// conditional decrement inside the placement transaction.
		if product.Stock < line.Quantity {
			return nil, fmt.Errorf("product %s (requested %d, available %d): %w",
				product.Name, line.Quantity, product.Stock, repositories.ErrInsufficientStock)
		}

		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     product.Price, // snapshot at order time
		})
		subtotal += product.Price * float64(line.Quantity)
	}

	shipping := s.shippingCost(subtotal)
	tax := subtotal * taxRate

	order := &models.Order{
		UserID:          user.ID,
		Items:           items,
		Status:          models.StatusPending,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		ShippingAddress: req.ShippingAddress,
		Subtotal:        subtotal,
		Tax:             tax,
		ShippingCost:    shipping,
		Total:           subtotal + tax + shipping,
		Notes:           req.Notes,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)
	s.notify(order, func(to string) error {
		return s.mailer.SendOrderConfirmation(to, order)
	})

	return order, nil
}

// shippingCost derives the shipping cost for a subtotal from the shipping
// settings.
func (s *OrderService) shippingCost(subtotal float64) float64 {
	if s.settings == nil {
		return 0
	}
	cfg := s.settings.Shipping()
	if cfg.EnableFreeShipping && subtotal >= cfg.FreeShippingThreshold {
		return 0
	}
	return cfg.DefaultShippingCost
}

// UpdateOrderStatus moves an order to a new status. The target must be a
// known status and the transition must be legal; Cancelled additionally
// restores stock, so it is routed through CancelOrder.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("cannot move order %s from %s to %s: %w",
			id, order.Status, status, repositories.ErrInvalidTransition)
	}

	if status == models.StatusCancelled {
		return s.CancelOrder(id)
	}

	// Conditional on the status just read, so a concurrent update that has
	// already moved the order on fails here instead of being overwritten.
	if err := s.orderRepo.UpdateStatus(id, order.Status, status); err != nil {
		return nil, err
	}
	order.Status = status

	s.publishEvent("order.status_updated", order)
	s.notify(order, func(to string) error {
		return s.mailer.SendOrderStatusUpdate(to, order)
	})

	return order, nil
}

// CancelOrder cancels an order still in a cancellable state, restoring stock
// for every item in the same transaction as the status write.
func (s *OrderService) CancelOrder(id string) (*models.Order, error) {
	order, err := s.orderRepo.Cancel(id)
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.cancelled", order)
	s.notify(order, func(to string) error {
		return s.mailer.SendOrderStatusUpdate(to, order)
	})

	return order, nil
}

// publishEvent publishes an order lifecycle event, logging failures instead
// of surfacing them.
func (s *OrderService) publishEvent(event string, order *models.Order) {
	if s.mqClient == nil {
		return
	}
	err := s.mqClient.PublishOrderEvent(rabbitmq.OrderEvent{
		Event:   event,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	if err != nil {
		log.Printf("Warning: failed to publish %s event for order %s: %v", event, order.ID, err)
	}
}

// notify emails the order's owner, logging failures instead of surfacing them.
func (s *OrderService) notify(order *models.Order, send func(to string) error) {
	if s.mailer == nil {
		return
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		log.Printf("Failed to look up user %s for order email: %v", order.UserID, err)
		return
	}
	if err := send(user.Email); err != nil {
		log.Printf("Failed to send order email for order %s: %v", order.ID, err)
	}
}
