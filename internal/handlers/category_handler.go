package handlers

import (
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service        *services.CategoryService
	productService *services.ProductService
	validate       *validator.Validate
	uploadDir      string
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService, productService *services.ProductService, uploadDir string) *CategoryHandler {
	return &CategoryHandler{
		service:        service,
		productService: productService,
		validate:       validator.New(),
		uploadDir:      uploadDir,
	}
}

// RegisterRoutes registers the public category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Get("/:id/products", h.HandleGetCategoryProducts)
	categoryRoutes.Get("/:id/subcategories", h.HandleGetSubcategories)
}

// RegisterAdminRoutes registers the category routes that mutate the tree.
func (h *CategoryHandler) RegisterAdminRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Put("/:id", h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// HandleGetCategories retrieves all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return respondError(c, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryByID retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

// HandleGetCategoryProducts retrieves all products in a category.
func (h *CategoryHandler) HandleGetCategoryProducts(c *fiber.Ctx) error {
	if _, err := h.service.GetCategoryByID(c.Params("id")); err != nil {
		return respondError(c, "Could not retrieve category", err)
	}
	products, err := h.productService.GetProductsByCategory(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve category products", err)
	}
	return c.JSON(products)
}

// HandleGetSubcategories retrieves the direct children of a category.
func (h *CategoryHandler) HandleGetSubcategories(c *fiber.Ctx) error {
	subcategories, err := h.service.GetSubcategories(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve subcategories", err)
	}
	return c.JSON(subcategories)
}

// HandleCreateCategory creates a new category. Accepts JSON or multipart form
// data with an optional "image" file.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	category, err := h.parseCategory(c, &models.Category{IsActive: true})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(category); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateCategory(category); err != nil {
		log.Printf("Error creating category: %v", err)
		return respondError(c, "Could not create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory updates an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	existing, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve category", err)
	}

	category, err := h.parseCategory(c, existing)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	category.ID = existing.ID

	if err := h.validate.Struct(category); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateCategory(category); err != nil {
		log.Printf("Error updating category %s: %v", category.ID, err)
		return respondError(c, "Could not update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category that has no products or children.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		return respondError(c, "Could not delete category", err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}

// parseCategory fills base from either a JSON body or a multipart form with
// an optional image upload.
func (h *CategoryHandler) parseCategory(c *fiber.Ctx, base *models.Category) (*models.Category, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := c.BodyParser(base); err != nil {
			return nil, err
		}
		return base, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	get := func(key string) (string, bool) {
		if vals := form.Value[key]; len(vals) > 0 {
			return vals[0], true
		}
		return "", false
	}

	if v, ok := get("name"); ok {
		base.Name = v
	}
	if v, ok := get("description"); ok {
		base.Description = v
	}
	if v, ok := get("parent_id"); ok {
		if v == "" {
			base.ParentID = nil
		} else {
			base.ParentID = &v
		}
	}
	if v, ok := get("is_active"); ok {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		base.IsActive = active
	}

	if files := form.File["image"]; len(files) > 0 {
		name, err := saveUploadedImage(c, files[0], filepath.Join(h.uploadDir, "categories"))
		if err != nil {
			return nil, err
		}
		base.Image = name
	}

	return base, nil
}
