package handlers

import (
	"log"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles HTTP requests for the store settings.
type SettingsHandler struct {
	service *services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(service *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service: service,
	}
}

// RegisterAdminRoutes registers the settings routes.
func (h *SettingsHandler) RegisterAdminRoutes(router fiber.Router) {
	settingsRoutes := router.Group("/settings")
	settingsRoutes.Get("/", h.HandleGetSettings)
	settingsRoutes.Put("/:section", h.HandleUpdateSection)
}

// HandleGetSettings returns every settings section.
func (h *SettingsHandler) HandleGetSettings(c *fiber.Ctx) error {
	return c.JSON(h.service.GetAll())
}

// HandleUpdateSection validates and persists one settings section.
func (h *SettingsHandler) HandleUpdateSection(c *fiber.Ctx) error {
	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	section := c.Params("section")
	if err := h.service.UpdateSection(section, raw); err != nil {
		log.Printf("Error updating %s settings: %v", section, err)
		return respondError(c, "Could not update settings", err)
	}
	return c.JSON(h.service.GetAll()[section])
}
