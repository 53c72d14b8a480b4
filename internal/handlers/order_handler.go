package handlers

import (
	"errors"
	"log"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. All of them require
// authentication; the status transition additionally requires the admin role.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Get("/:id/items", h.HandleGetOrderItems)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/status", middleware.AdminRequired(), h.HandleUpdateOrderStatus)
}

// HandleGetOrders returns the caller's orders, or every order for admins.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var (
		orders []models.Order
		err    error
	)
	if user.IsAdmin() {
		orders, err = h.service.GetAllOrders()
	} else {
		orders, err = h.service.GetOrdersByUser(user.ID)
	}
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// loadOwnedOrder fetches the order and enforces that the caller owns it or
// is an admin.
func (h *OrderHandler) loadOwnedOrder(c *fiber.Ctx) (*models.Order, error) {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return nil, err
	}
	user := middleware.CurrentUser(c)
	if order.UserID != user.ID && !user.IsAdmin() {
		return nil, fiber.ErrForbidden
	}
	return order, nil
}

// HandleGetOrderByID retrieves a single order for its owner or an admin.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		if errors.Is(err, fiber.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not authorized to view this order",
			})
		}
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

// HandleGetOrderItems retrieves the line items of an order.
func (h *OrderHandler) HandleGetOrderItems(c *fiber.Ctx) error {
	order, err := h.loadOwnedOrder(c)
	if err != nil {
		if errors.Is(err, fiber.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not authorized to view this order",
			})
		}
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(order.Items)
}

// HandleCreateOrder places a new order for the authenticated user.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	order, err := h.service.PlaceOrder(middleware.CurrentUser(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleUpdateOrderStatus moves an order along the status state machine.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status models.OrderStatus `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	order, err := h.service.UpdateOrderStatus(c.Params("id"), req.Status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", c.Params("id"), err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels an order for its owner or an admin, restoring
// stock for every item.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	if _, err := h.loadOwnedOrder(c); err != nil {
		if errors.Is(err, fiber.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Not authorized to cancel this order",
			})
		}
		return respondError(c, "Could not retrieve order", err)
	}

	order, err := h.service.CancelOrder(c.Params("id"))
	if err != nil {
		log.Printf("Error cancelling order %s: %v", c.Params("id"), err)
		return respondError(c, "Order cannot be cancelled", err)
	}
	return c.JSON(order)
}
