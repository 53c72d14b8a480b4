package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// maxProductImages caps how many images one product upload may carry.
const maxProductImages = 5

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service   *services.ProductService
	validate  *validator.Validate
	uploadDir string
}

// NewProductHandler creates a new ProductHandler. uploadDir is the root of
// the static uploads tree; product images land in uploadDir/products.
func NewProductHandler(service *services.ProductService, uploadDir string) *ProductHandler {
	return &ProductHandler{
		service:   service,
		validate:  validator.New(),
		uploadDir: uploadDir,
	}
}

// RegisterRoutes registers the public product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
}

// RegisterAdminRoutes registers the product routes that mutate the catalog.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
	productRoutes.Patch("/:id/stock", h.HandleAdjustStock)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product. Accepts JSON or multipart form
// data with up to five image files in the "images" field.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, err := h.parseProduct(c, &models.Product{})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.CreateProduct(product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	existing, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, "Could not retrieve product", err)
	}

	product, err := h.parseProduct(c, existing)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	product.ID = existing.ID

	if err := h.validate.Struct(product); err != nil {
		return respondValidationError(c, err)
	}

	if err := h.service.UpdateProduct(product); err != nil {
		log.Printf("Error updating product %s: %v", product.ID, err)
		return respondError(c, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// HandleAdjustStock applies a signed stock delta to a product.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	var req struct {
		Delta int `json:"delta" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	product, err := h.service.AdjustStock(c.Params("id"), req.Delta)
	if err != nil {
		log.Printf("Error adjusting stock for product %s: %v", c.Params("id"), err)
		return respondError(c, "Could not adjust stock", err)
	}
	return c.JSON(product)
}

// parseProduct fills base from either a JSON body or a multipart form with
// optional image uploads.
func (h *ProductHandler) parseProduct(c *fiber.Ctx, base *models.Product) (*models.Product, error) {
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
	if v, ok := get("category_id"); ok {
		base.CategoryID = v
	}
	if v, ok := get("price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, err
		}
		base.Price = price
	}
	if v, ok := get("stock"); ok {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		base.Stock = stock
	}
	if v, ok := get("is_active"); ok {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return nil, err
		}
		base.IsActive = active
	}
	if v, ok := get("specifications"); ok && v != "" {
		specs := make(map[string]string)
		if err := json.Unmarshal([]byte(v), &specs); err != nil {
			return nil, err
		}
		base.Specifications = specs
	}

	files := form.File["images"]
	if len(files) > maxProductImages {
		return nil, fmt.Errorf("at most %d images per product, got %d", maxProductImages, len(files))
	}
	for _, file := range files {
		name, err := saveUploadedImage(c, file, filepath.Join(h.uploadDir, "products"))
		if err != nil {
			return nil, err
		}
		base.Images = append(base.Images, name)
	}

	return base, nil
}
