package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"weblog/internal/models"
)

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{
		db: db,
	}
}

// GetCategories retrieves every category.
func (r *GORMCategoryRepository) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// CreateCategory persists a new category. The store assigns the id.
func (r *GORMCategoryRepository) CreateCategory(category *models.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return fmt.Errorf("create category: %v: %w", err, models.ErrPersistence)
	}
	return nil
}

// DeleteCategory removes a category by its id.
func (r *GORMCategoryRepository) DeleteCategory(id uint) error {
	res := r.db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete category %d: %v: %w", id, res.Error, models.ErrPersistence)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	return nil
}
