package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"weblog/internal/models"
	"weblog/internal/repositories"
	"weblog/internal/services"
)

// MockUserRepo is a mock implementation of repositories.UserRepository.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByUserName(userName string) (*models.User, error) {
	args := m.Called(userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) UpdateLoginHistory(userName string, history []models.LoginEntry) error {
	args := m.Called(userName, history)
	return args.Error(0)
}

func registerRequest() services.RegisterRequest {
	return services.RegisterRequest{
		UserName:  "testuser",
		Password:  "password123",
		Password2: "password123",
		Email:     "test@example.com",
	}
}

func TestAuthService_RegisterUser_PasswordMismatch(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	req := registerRequest()
	req.Password2 = "different"

	_, err := authService.RegisterUser(req)
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "passwords do not match")
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestAuthService_RegisterUser_StoresHashNotPlaintext(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	var stored *models.User
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(0).(*models.User)
		}).
		Return(nil).Once()

	user, err := authService.RegisterUser(registerRequest())
	assert.NoError(t, err)
	assert.Equal(t, stored, user)

	assert.NotEqual(t, "password123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateUserName(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("user name testuser taken: %w", models.ErrConflict)).Once()

	_, err := authService.RegisterUser(registerRequest())
	assert.ErrorIs(t, err, models.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CheckUser_UnknownUser(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	mockRepo.On("GetByUserName", "ghost").
		Return(nil, fmt.Errorf("user ghost: %w", models.ErrNotFound)).Once()

	_, err := authService.CheckUser("ghost", "whatever", "test-agent")
	assert.ErrorIs(t, err, models.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CheckUser_WrongPasswordLeavesHistoryAlone(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("GetByUserName", "testuser").
		Return(&models.User{UserName: "testuser", Password: string(hashed)}, nil).Once()

	_, err := authService.CheckUser("testuser", "wrongpassword", "test-agent")
	assert.ErrorIs(t, err, models.ErrIncorrectPassword)
	mockRepo.AssertNotCalled(t, "UpdateLoginHistory", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_CheckUser_AppendsHistoryEntry(t *testing.T) {
	mockRepo := new(MockUserRepo)
	authService := services.NewAuthService(mockRepo, nil, "test_jwt_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mockRepo.On("GetByUserName", "testuser").
		Return(&models.User{UserName: "testuser", Password: string(hashed)}, nil).Once()
	mockRepo.On("UpdateLoginHistory", "testuser", mock.AnythingOfType("[]models.LoginEntry")).
		Return(nil).Once()

	user, err := authService.CheckUser("testuser", "password123", "test-agent")
	assert.NoError(t, err)
	assert.Len(t, user.LoginHistory, 1)
	assert.Equal(t, "test-agent", user.LoginHistory[0].UserAgent)
	mockRepo.AssertExpectations(t)
}

// After N successful logins the history holds min(N, 10) entries, oldest
// evicted first, and never exceeds ten even transiently in the stored state.
func TestAuthService_CheckUser_HistoryCapProperty(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, nil, "test_jwt_secret")

	_, err := authService.RegisterUser(registerRequest())
	assert.NoError(t, err)

	for n := 1; n <= 14; n++ {
		agent := fmt.Sprintf("agent-%d", n)
		user, err := authService.CheckUser("testuser", "password123", agent)
		assert.NoError(t, err)

		want := n
		if want > 10 {
			want = 10
		}
		assert.Len(t, user.LoginHistory, want, "after %d logins", n)

		// Newest entry is always last.
		assert.Equal(t, agent, user.LoginHistory[len(user.LoginHistory)-1].UserAgent)
	}

	// Oldest entries were evicted first: after 14 logins the history starts
	// at agent-5.
	user, err := userRepo.GetByUserName("testuser")
	assert.NoError(t, err)
	assert.Equal(t, "agent-5", user.LoginHistory[0].UserAgent)
}

func TestAuthService_LoginUser_IssuesValidToken(t *testing.T) {
	userRepo := repositories.NewMockUserRepository()
	authService := services.NewAuthService(userRepo, nil, "test_jwt_secret")

	_, err := authService.RegisterUser(registerRequest())
	assert.NoError(t, err)

	token, user, err := authService.LoginUser("testuser", "password123", "test-agent")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Len(t, user.LoginHistory, 1)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["userName"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}
