package repositories

import "weblog/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create persists a new user. A duplicate user name fails with
	// models.ErrConflict.
	Create(user *models.User) error
	// GetByUserName returns the user, or models.ErrNotFound.
	GetByUserName(userName string) (*models.User, error)
	// UpdateLoginHistory replaces the stored login history in one call.
	UpdateLoginHistory(userName string, history []models.LoginEntry) error
}
