package repositories

import (
	"fmt"
	"sync"

	"weblog/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository. It
// backs the flat-file storage driver (which has no user document store) and
// the test suites.
type MockUserRepository struct {
	users  map[string]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[string]models.User),
		nextID: 1,
	}
}

// Create adds a new user, rejecting duplicate user names.
func (r *MockUserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.UserName]; ok {
		return fmt.Errorf("user name %s taken: %w", user.UserName, models.ErrConflict)
	}
	user.ID = r.nextID
	r.nextID++
	r.users[user.UserName] = *user
	return nil
}

// GetByUserName returns a user by their user name.
func (r *MockUserRepository) GetByUserName(userName string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userName]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userName, models.ErrNotFound)
	}
	out := user
	out.LoginHistory = append([]models.LoginEntry(nil), user.LoginHistory...)
	return &out, nil
}

// UpdateLoginHistory replaces the stored login history for the named user.
func (r *MockUserRepository) UpdateLoginHistory(userName string, history []models.LoginEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userName]
	if !ok {
		return fmt.Errorf("user %s: %w", userName, models.ErrNotFound)
	}
	user.LoginHistory = append([]models.LoginEntry(nil), history...)
	r.users[userName] = user
	return nil
}
