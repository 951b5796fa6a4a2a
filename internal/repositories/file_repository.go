package repositories

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"weblog/internal/models"
)

// FileStore implements PostRepository and CategoryRepository over two flat
// JSON documents (posts.json and categories.json) in a data directory.
//
// Initialize loads both documents fully into an owned in-memory snapshot;
// every mutation rewrites the affected document before returning, so writes
// are immediately durable. Ids are assigned from counters that only ever
// move forward, so an id is never reused after deletion.
type FileStore struct {
	mu      sync.RWMutex
	dataDir string

	posts      []models.Post
	categories []models.Category

	nextPostID     uint
	nextCategoryID uint
}

// NewFileStore creates a FileStore rooted at dataDir. Initialize must be
// called (and succeed) before any other method.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{
		dataDir: dataDir,
	}
}

func (s *FileStore) postsPath() string {
	return filepath.Join(s.dataDir, "posts.json")
}

func (s *FileStore) categoriesPath() string {
	return filepath.Join(s.dataDir, "categories.json")
}

// Initialize loads both JSON documents into memory. A missing or malformed
// file fails with models.ErrInitialize.
func (s *FileStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := loadJSON(s.postsPath(), &s.posts); err != nil {
		return fmt.Errorf("load %s: %v: %w", s.postsPath(), err, models.ErrInitialize)
	}
	if err := loadJSON(s.categoriesPath(), &s.categories); err != nil {
		return fmt.Errorf("load %s: %v: %w", s.categoriesPath(), err, models.ErrInitialize)
	}

	for _, p := range s.posts {
		if p.ID >= s.nextPostID {
			s.nextPostID = p.ID + 1
		}
	}
	for _, c := range s.categories {
		if c.ID >= s.nextCategoryID {
			s.nextCategoryID = c.ID + 1
		}
	}
	if s.nextPostID == 0 {
		s.nextPostID = 1
	}
	if s.nextCategoryID == 0 {
		s.nextCategoryID = 1
	}
	return nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetAll returns every post, unordered.
func (s *FileStore) GetAll() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out, nil
}

func (s *FileStore) filterPosts(keep func(models.Post) bool) []models.Post {
	out := make([]models.Post, 0)
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// GetPublished returns posts with published set.
func (s *FileStore) GetPublished() ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool { return p.Published }), nil
}

// GetByCategory returns posts referencing the given category id.
func (s *FileStore) GetByCategory(categoryID uint) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool { return p.Category == categoryID }), nil
}

// GetByMinDate returns posts dated on or after minDate. The comparison is
// chronological, never a string comparison.
func (s *FileStore) GetByMinDate(minDate time.Time) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool { return !p.PostDate.Before(minDate) }), nil
}

// GetPublishedByCategory returns published posts in the given category.
func (s *FileStore) GetPublishedByCategory(categoryID uint) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterPosts(func(p models.Post) bool { return p.Published && p.Category == categoryID }), nil
}

// GetByID returns the single post with the given id, or models.ErrNotFound.
func (s *FileStore) GetByID(id uint) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, fmt.Errorf("post %d: %w", id, models.ErrNotFound)
}

// Create assigns the next post id, appends the record, and rewrites
// posts.json.
func (s *FileStore) Create(post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post.ID = s.nextPostID
	s.nextPostID++
	s.posts = append(s.posts, *post)

	if err := saveJSON(s.postsPath(), s.posts); err != nil {
		s.posts = s.posts[:len(s.posts)-1]
		return fmt.Errorf("persist posts: %v: %w", err, models.ErrPersistence)
	}
	return nil
}

// Delete removes the post with the given id and rewrites posts.json. The id
// counter is not rolled back, so the id is never reused.
func (s *FileStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.posts {
		if p.ID == id {
			remaining := make([]models.Post, 0, len(s.posts)-1)
			remaining = append(remaining, s.posts[:i]...)
			remaining = append(remaining, s.posts[i+1:]...)
			if err := saveJSON(s.postsPath(), remaining); err != nil {
				// Snapshot unchanged; memory and disk stay in step.
				return fmt.Errorf("persist posts: %v: %w", err, models.ErrPersistence)
			}
			s.posts = remaining
			return nil
		}
	}
	return fmt.Errorf("post %d: %w", id, models.ErrNotFound)
}

// GetCategories returns every category.
func (s *FileStore) GetCategories() ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// CreateCategory assigns the next category id, appends the record, and
// rewrites categories.json.
func (s *FileStore) CreateCategory(category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.nextCategoryID
	s.nextCategoryID++
	s.categories = append(s.categories, *category)

	if err := saveJSON(s.categoriesPath(), s.categories); err != nil {
		s.categories = s.categories[:len(s.categories)-1]
		return fmt.Errorf("persist categories: %v: %w", err, models.ErrPersistence)
	}
	return nil
}

// DeleteCategory removes the category with the given id and rewrites
// categories.json.
func (s *FileStore) DeleteCategory(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.categories {
		if c.ID == id {
			remaining := make([]models.Category, 0, len(s.categories)-1)
			remaining = append(remaining, s.categories[:i]...)
			remaining = append(remaining, s.categories[i+1:]...)
			if err := saveJSON(s.categoriesPath(), remaining); err != nil {
				return fmt.Errorf("persist categories: %v: %w", err, models.ErrPersistence)
			}
			s.categories = remaining
			return nil
		}
	}
	return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
}
