package repositories

import (
	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByCategory(categoryID string) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// AdjustStock applies a signed delta to the product's stock as a single
	// conditional update; the stock never goes negative. Zero affected rows
	// means the product is missing or the decrement would overdraw stock.
	AdjustStock(id string, delta int) error
}
