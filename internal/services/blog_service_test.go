package services_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"weblog/internal/models"
	"weblog/internal/repositories"
	"weblog/internal/services"
)

// MockPostRepository is a mock implementation of repositories.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) GetAll() ([]models.Post, error) {
	args := m.Called()
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetPublished() ([]models.Post, error) {
	args := m.Called()
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByCategory(categoryID uint) ([]models.Post, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByMinDate(minDate time.Time) ([]models.Post, error) {
	args := m.Called(minDate)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetPublishedByCategory(categoryID uint) ([]models.Post, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(id uint) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of
// repositories.CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetCategories() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) CreateCategory(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func newBlogService(postRepo *MockPostRepository, categoryRepo *MockCategoryRepository) *services.BlogService {
	return services.NewBlogService(postRepo, categoryRepo, nil)
}

func TestBlogService_GetPublishedPosts(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	expected := []models.Post{
		{ID: 1, Title: "Hello", Published: true},
	}
	mockPosts.On("GetPublished").Return(expected, nil).Once()

	posts, err := service.GetPublishedPosts()
	assert.NoError(t, err)
	assert.Equal(t, expected, posts)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_GetAllPosts_EmptyIsNotAnError(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	mockPosts.On("GetAll").Return([]models.Post{}, nil).Once()

	posts, err := service.GetAllPosts()
	assert.NoError(t, err)
	assert.Empty(t, posts)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_GetPostsByMinDate_ParsesChronologically(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	// "2024-2-1" must be February 1st, not whatever a string comparison
	// would make of it.
	expectedMin := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mockPosts.On("GetByMinDate", expectedMin).Return([]models.Post{}, nil).Once()

	_, err := service.GetPostsByMinDate("2024-2-1")
	assert.NoError(t, err)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_GetPostsByMinDate_InvalidDate(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	_, err := service.GetPostsByMinDate("not-a-date")
	assert.ErrorIs(t, err, models.ErrValidation)
	mockPosts.AssertNotCalled(t, "GetByMinDate", mock.Anything)
}

// The min-date filter must compare dates, not strings: lexicographically
// "2024-2-1" >= "2024-10-1", but chronologically February comes first.
func TestBlogService_MinDateFilterIsNotLexicographic(t *testing.T) {
	store := repositories.NewFileStore(seedDataDir(t))
	assert.NoError(t, store.Initialize())
	service := services.NewBlogService(store, store, nil)

	_, err := service.AddPost(services.PostRequest{
		Title:    "February entry",
		Body:     "written early in the year",
		PostDate: "2024-2-1",
	})
	assert.NoError(t, err)
	_, err = service.AddPost(services.PostRequest{
		Title:    "November entry",
		Body:     "written late in the year",
		PostDate: "2024-11-5",
	})
	assert.NoError(t, err)

	posts, err := service.GetPostsByMinDate("2024-10-1")
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, "November entry", posts[0].Title)
}

func TestBlogService_AddPost_Normalization(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	var created *models.Post
	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*models.Post)
		}).
		Return(nil).Once()

	before := time.Now()
	post, err := service.AddPost(services.PostRequest{
		Title:    "Untitled",
		Body:     "body text",
		Category: 2,
		// no postDate, no featureImage, no published flag
	})
	assert.NoError(t, err)
	assert.Equal(t, created, post)

	assert.False(t, post.Published, "absent published must default to false")
	assert.Nil(t, post.FeatureImage, "empty feature image must be stored as null")
	assert.False(t, post.PostDate.Before(before), "missing post date must be stamped with now")
	mockPosts.AssertExpectations(t)
}

func TestBlogService_AddPost_KeepsSuppliedFields(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).Return(nil).Once()

	post, err := service.AddPost(services.PostRequest{
		Title:        "Trip",
		Body:         "travel notes",
		Category:     2,
		PostDate:     "2023-07-15",
		FeatureImage: "https://images.example.com/trip.jpg",
		Published:    true,
	})
	assert.NoError(t, err)
	assert.True(t, post.Published)
	if assert.NotNil(t, post.FeatureImage) {
		assert.Equal(t, "https://images.example.com/trip.jpg", *post.FeatureImage)
	}
	assert.Equal(t, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), post.PostDate)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_GetPostByID_NotFound(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	mockPosts.On("GetByID", uint(99)).Return(nil, models.ErrNotFound).Once()

	post, err := service.GetPostByID(99)
	assert.Nil(t, post)
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_DeletePostByID_NotFound(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	mockPosts.On("Delete", uint(42)).Return(models.ErrNotFound).Once()

	err := service.DeletePostByID(42)
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockPosts.AssertExpectations(t)
}

func TestBlogService_CategoryCRUD(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	service := newBlogService(mockPosts, mockCategories)

	mockCategories.On("CreateCategory", mock.AnythingOfType("*models.Category")).Return(nil).Once()
	category, err := service.AddCategory(services.CategoryRequest{Category: "Travel"})
	assert.NoError(t, err)
	assert.Equal(t, "Travel", category.Category)

	mockCategories.On("GetCategories").Return([]models.Category{*category}, nil).Once()
	categories, err := service.GetCategories()
	assert.NoError(t, err)
	assert.Len(t, categories, 1)

	mockCategories.On("DeleteCategory", uint(7)).Return(models.ErrNotFound).Once()
	err = service.DeleteCategoryByID(7)
	assert.ErrorIs(t, err, models.ErrNotFound)

	mockCategories.AssertExpectations(t)
}

// seedDataDir writes empty JSON documents into a temp directory so a
// FileStore can initialize against it.
func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"posts.json", "categories.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	return dir
}
