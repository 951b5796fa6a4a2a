package repositories

import (
	"time"

	"weblog/internal/models"
)

// PostRepository defines the interface for post data access.
//
// List queries return a possibly-empty slice with a nil error; an error means
// the store itself failed. GetByID and Delete report a miss with
// models.ErrNotFound.
type PostRepository interface {
	GetAll() ([]models.Post, error)
	GetPublished() ([]models.Post, error)
	GetByCategory(categoryID uint) ([]models.Post, error)
	GetByMinDate(minDate time.Time) ([]models.Post, error)
	GetPublishedByCategory(categoryID uint) ([]models.Post, error)
	GetByID(id uint) (*models.Post, error)
	Create(post *models.Post) error
	Delete(id uint) error
}
