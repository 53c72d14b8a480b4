package handlers

import (
	"log"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles the admin dashboard requests.
type AdminHandler struct {
	service *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// RegisterAdminRoutes registers the dashboard routes.
func (h *AdminHandler) RegisterAdminRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/dashboard/stats", h.HandleDashboardStats)
	adminRoutes.Get("/dashboard/recent-orders", h.HandleRecentOrders)
	adminRoutes.Get("/orders/stats", h.HandleOrderStats)
}

// HandleDashboardStats returns the headline dashboard summary.
func (h *AdminHandler) HandleDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		log.Printf("Error computing dashboard stats: %v", err)
		return respondError(c, "Could not compute dashboard statistics", err)
	}
	return c.JSON(stats)
}

// HandleRecentOrders returns the most recently placed orders.
func (h *AdminHandler) HandleRecentOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetRecentOrders()
	if err != nil {
		log.Printf("Error getting recent orders: %v", err)
		return respondError(c, "Could not retrieve recent orders", err)
	}
	return c.JSON(orders)
}

// HandleOrderStats returns the detailed order breakdown.
func (h *AdminHandler) HandleOrderStats(c *fiber.Ctx) error {
	stats, err := h.service.GetOrderStats()
	if err != nil {
		log.Printf("Error computing order stats: %v", err)
		return respondError(c, "Could not compute order statistics", err)
	}
	return c.JSON(stats)
}
