package models

import (
	"time"

	"gorm.io/gorm"
)

// Role determines what a user is allowed to do. Roles are read from the
// persisted user row on every token validation, never from the token itself.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// User represents a user of the store.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role     Role   `json:"role" gorm:"type:varchar(20);default:'User'"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`

	// Password reset: only the SHA-256 of the issued token is stored.
	ResetPasswordToken   string     `json:"-" gorm:"type:varchar(64)"`
	ResetPasswordExpires *time.Time `json:"-"`

	LastLogin  *time.Time `json:"last_login"`
	gorm.Model
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
