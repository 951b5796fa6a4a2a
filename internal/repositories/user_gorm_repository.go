package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"weblog/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create persists a new user.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user name %s taken: %w", user.UserName, models.ErrConflict)
		}
		return fmt.Errorf("create user: %v: %w", err, models.ErrPersistence)
	}
	return nil
}

// GetByUserName retrieves a user by their user name.
func (r *GORMUserRepository) GetByUserName(userName string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "user_name = ?", userName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userName, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", userName, err)
	}
	return &user, nil
}

// UpdateLoginHistory replaces the stored login history for the named user in
// a single statement. The history is marshalled here: a column-name Update
// bypasses the field's JSON serializer, and a raw struct slice would be
// rejected by the driver.
func (r *GORMUserRepository) UpdateLoginHistory(userName string, history []models.LoginEntry) error {
	payload, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode login history for %s: %v: %w", userName, err, models.ErrPersistence)
	}
	res := r.db.Model(&models.User{}).
		Where("user_name = ?", userName).
		Update("login_history", string(payload))
	if res.Error != nil {
		return fmt.Errorf("update login history for %s: %v: %w", userName, res.Error, models.ErrPersistence)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s: %w", userName, models.ErrNotFound)
	}
	return nil
}
