package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"weblog/internal/models"
)

// GORMPostRepository is a GORM implementation of PostRepository.
//
// The *gorm.DB must be opened with TranslateError so duplicate keys surface
// as gorm.ErrDuplicatedKey regardless of driver.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// GetAll retrieves every post, unordered.
func (r *GORMPostRepository) GetAll() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get all posts: %w", err)
	}
	return posts, nil
}

// GetPublished retrieves posts with published set.
func (r *GORMPostRepository) GetPublished() ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("published = ?", true).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get published posts: %w", err)
	}
	return posts, nil
}

// GetByCategory retrieves posts referencing the given category id.
func (r *GORMPostRepository) GetByCategory(categoryID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("category = ?", categoryID).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts for category %d: %w", categoryID, err)
	}
	return posts, nil
}

// GetByMinDate retrieves posts whose post date is on or after minDate.
func (r *GORMPostRepository) GetByMinDate(minDate time.Time) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("post_date >= ?", minDate).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts since %s: %w", minDate.Format(time.RFC3339), err)
	}
	return posts, nil
}

// GetPublishedByCategory retrieves published posts in the given category.
func (r *GORMPostRepository) GetPublishedByCategory(categoryID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.Where("published = ? AND category = ?", true, categoryID).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get published posts for category %d: %w", categoryID, err)
	}
	return posts, nil
}

// GetByID retrieves a single post by its id.
func (r *GORMPostRepository) GetByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return &post, nil
}

// Create persists a new post. The store assigns the id.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if err := r.db.Create(post).Error; err != nil {
		return fmt.Errorf("create post: %v: %w", err, models.ErrPersistence)
	}
	return nil
}

// Delete removes a post by its id.
func (r *GORMPostRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Post{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete post %d: %v: %w", id, res.Error, models.ErrPersistence)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %d: %w", id, models.ErrNotFound)
	}
	return nil
}
