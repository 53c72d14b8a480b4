package models

import "gorm.io/gorm"

// Category represents a product category. Categories form a tree through
// ParentID; deleting a parent leaves children at the top level.
type Category struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	ParentID    *string `json:"parent_id" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	Image       string  `json:"image"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
	gorm.Model
}
