package repositories

import (
	"time"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	GetAll() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(id string) error
	// UpdatePassword stores a new password hash and clears any pending
	// reset token, so an issued token cannot be replayed.
	UpdatePassword(id string, passwordHash string) error
	// SetResetToken stores the hash of an issued password-reset token
	// together with its expiry.
	SetResetToken(email string, tokenHash string, expires time.Time) error
	// GetByResetToken looks a user up by reset token hash; expired tokens
	// do not match.
	GetByResetToken(tokenHash string) (*models.User, error)
	UpdateLastLogin(id string) error
	// CountByRole counts the users holding a role.
	CountByRole(role models.Role) (int64, error)
}
