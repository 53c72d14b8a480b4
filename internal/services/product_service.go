package services

import (
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a name: lowercase, runs of anything outside
// [a-z0-9] collapsed to a single '-'.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// assignSlug derives a slug from the name, falling back to the record's ID
// when the name has no usable characters (e.g. "###"). The ID is assigned
// here if the record does not have one yet, so the fallback slug stays
// stable across updates.
func assignSlug(name string, id *string) string {
	if slug := Slugify(name); slug != "" {
		return slug
	}
	if *id == "" {
		*id = uuid.New().String()
	}
	return *id
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByCategory retrieves all products in a category.
func (s *ProductService) GetProductsByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(categoryID)
}

// CreateProduct creates a new product after checking that the category exists.
// The slug is always derived from the name.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("invalid category %s: %w", product.CategoryID, err)
	}
	product.Slug = assignSlug(product.Name, &product.ID)
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product, re-deriving the slug.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if _, err := s.categoryRepo.GetByID(product.CategoryID); err != nil {
		return fmt.Errorf("invalid category %s: %w", product.CategoryID, err)
	}
	product.Slug = assignSlug(product.Name, &product.ID)
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

// AdjustStock applies a signed stock delta; the repository guarantees the
// stock never goes negative.
func (s *ProductService) AdjustStock(id string, delta int) (*models.Product, error) {
	if err := s.repo.AdjustStock(id, delta); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}
