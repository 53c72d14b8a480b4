package models

import "gorm.io/gorm"

// Product represents a product in the store. Images and Specifications are
// stored as JSON columns. Stock is mutated only through order placement,
// cancellation and the admin stock-adjust endpoint.
type Product struct {
	ID             string            `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name           string            `json:"name" validate:"required,min=3,max=255"`
	Slug           string            `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Description    string            `json:"description" validate:"omitempty,max=2000"`
	Price          float64           `json:"price" validate:"required,gt=0"`
	CategoryID     string            `json:"category_id" gorm:"type:varchar(36);index" validate:"required,uuid"`
	Stock          int               `json:"stock" validate:"gte=0"`
	Images         []string          `json:"images" gorm:"serializer:json"`
	Specifications map[string]string `json:"specifications" gorm:"serializer:json"`
	IsActive       bool              `json:"is_active" gorm:"default:true"`
	gorm.Model     // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
