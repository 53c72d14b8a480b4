package services

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ErrCategoryInUse is returned when deleting a category that still has
// products or subcategories.
var ErrCategoryInUse = errors.New("category is in use")

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo        repositories.CategoryRepository
	productRepo repositories.ProductRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository, productRepo repositories.ProductRepository) *CategoryService {
	return &CategoryService{
		repo:        repo,
		productRepo: productRepo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// CreateCategory creates a new category. A parent, when given, must exist.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if category.ParentID != nil {
		if _, err := s.repo.GetByID(*category.ParentID); err != nil {
			return fmt.Errorf("parent category %s: %w", *category.ParentID, err)
		}
	}
	category.Slug = assignSlug(category.Name, &category.ID)
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category. A category cannot be its own
// parent.
func (s *CategoryService) UpdateCategory(category *models.Category) error {
	if category.ParentID != nil {
		if *category.ParentID == category.ID {
			return fmt.Errorf("category %s cannot be its own parent", category.ID)
		}
		if _, err := s.repo.GetByID(*category.ParentID); err != nil {
			return fmt.Errorf("parent category %s: %w", *category.ParentID, err)
		}
	}
	category.Slug = assignSlug(category.Name, &category.ID)
	return s.repo.Update(category)
}

// GetSubcategories retrieves the direct children of a category. The parent
// must exist.
func (s *CategoryService) GetSubcategories(id string) ([]models.Category, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		return nil, err
	}
	return s.repo.GetByParentID(id)
}

// DeleteCategory deletes a category unless products or subcategories still
// reference it.
func (s *CategoryService) DeleteCategory(id string) error {
	products, err := s.productRepo.GetByCategory(id)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return fmt.Errorf("category %s still has %d products: %w", id, len(products), ErrCategoryInUse)
	}

	children, err := s.repo.GetByParentID(id)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return fmt.Errorf("category %s still has %d subcategories: %w", id, len(children), ErrCategoryInUse)
	}

	return s.repo.Delete(id)
}
