package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"weblog/internal/models"
	"weblog/internal/repositories"
)

// EventPublisher is the slice of the message broker client the services use.
// A nil publisher disables event publication.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// Accepted postDate layouts. The non-padded layout also accepts padded
// values, so "2024-2-1" and "2024-02-01" both parse as February 1st.
var postDateLayouts = []string{time.RFC3339, "2006-1-2"}

func parsePostDate(value string) (time.Time, error) {
	for _, layout := range postDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", value, models.ErrValidation)
}

// PostRequest is the payload for creating a post. PostDate is a date string
// (RFC 3339 or year-month-day); empty means "now". An empty FeatureImage is
// normalized to the null sentinel, and an absent Published decodes as false.
type PostRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Body         string `json:"body" validate:"required"`
	Category     uint   `json:"category"`
	PostDate     string `json:"postDate"`
	FeatureImage string `json:"featureImage" validate:"omitempty,url"`
	Published    bool   `json:"published"`
}

// CategoryRequest is the payload for creating a category.
type CategoryRequest struct {
	Category string `json:"category" validate:"required,max=100"`
}

// BlogService handles business logic for posts and categories.
type BlogService struct {
	postRepo     repositories.PostRepository
	categoryRepo repositories.CategoryRepository
	publisher    EventPublisher
}

// NewBlogService creates a new BlogService. publisher may be nil.
func NewBlogService(postRepo repositories.PostRepository, categoryRepo repositories.CategoryRepository, publisher EventPublisher) *BlogService {
	return &BlogService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// GetAllPosts retrieves every post. An empty store yields an empty slice,
// not an error.
func (s *BlogService) GetAllPosts() ([]models.Post, error) {
	return s.postRepo.GetAll()
}

// GetPublishedPosts retrieves posts with published set.
func (s *BlogService) GetPublishedPosts() ([]models.Post, error) {
	return s.postRepo.GetPublished()
}

// GetPostsByCategory retrieves posts referencing the given category id.
func (s *BlogService) GetPostsByCategory(categoryID uint) ([]models.Post, error) {
	return s.postRepo.GetByCategory(categoryID)
}

// GetPostsByMinDate retrieves posts dated on or after minDate. The string is
// parsed first so the comparison is chronological, never lexicographic.
func (s *BlogService) GetPostsByMinDate(minDate string) ([]models.Post, error) {
	min, err := parsePostDate(minDate)
	if err != nil {
		return nil, err
	}
	return s.postRepo.GetByMinDate(min)
}

// GetPublishedPostsByCategory retrieves published posts in the given
// category.
func (s *BlogService) GetPublishedPostsByCategory(categoryID uint) ([]models.Post, error) {
	return s.postRepo.GetPublishedByCategory(categoryID)
}

// GetPostByID retrieves a single post, or models.ErrNotFound.
func (s *BlogService) GetPostByID(id uint) (*models.Post, error) {
	return s.postRepo.GetByID(id)
}

// AddPost normalizes and persists a new post, returning the stored record
// with its assigned id.
func (s *BlogService) AddPost(req PostRequest) (*models.Post, error) {
	post := &models.Post{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Published: req.Published,
	}
	if req.FeatureImage != "" {
		img := req.FeatureImage
		post.FeatureImage = &img
	}
	if req.PostDate == "" {
		post.PostDate = time.Now()
	} else {
		date, err := parsePostDate(req.PostDate)
		if err != nil {
			return nil, err
		}
		post.PostDate = date
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}

	s.publishEvent("post.created", map[string]interface{}{
		"postID":    post.ID,
		"title":     post.Title,
		"category":  post.Category,
		"published": post.Published,
	})
	return post, nil
}

// DeletePostByID removes a post. A missing id fails with models.ErrNotFound
// rather than silently succeeding.
func (s *BlogService) DeletePostByID(id uint) error {
	if err := s.postRepo.Delete(id); err != nil {
		return err
	}
	s.publishEvent("post.deleted", map[string]interface{}{
		"postID": id,
	})
	return nil
}

// GetCategories retrieves every category.
func (s *BlogService) GetCategories() ([]models.Category, error) {
	return s.categoryRepo.GetCategories()
}

// AddCategory persists a new category, returning the stored record.
func (s *BlogService) AddCategory(req CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		Category: req.Category,
	}
	if err := s.categoryRepo.CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategoryByID removes a category. A missing id fails with
// models.ErrNotFound.
func (s *BlogService) DeleteCategoryByID(id uint) error {
	return s.categoryRepo.DeleteCategory(id)
}

// publishEvent sends a domain event to the blog events queue. Publish
// failures are logged, never surfaced; the write already succeeded.
func (s *BlogService) publishEvent(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	payload["event"] = event
	payload["eventID"] = uuid.New().String()
	payload["occurredAt"] = time.Now().Format(time.RFC3339)

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.publisher.Publish("", "blog_events", body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
