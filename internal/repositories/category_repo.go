package repositories

import "weblog/internal/models"

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
	DeleteCategory(id uint) error
}
