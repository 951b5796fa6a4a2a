package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"weblog/internal/models"
	"weblog/internal/repositories"
)

// maxLoginHistory bounds the per-user login history. The history is trimmed
// to maxLoginHistory-1 entries before each append, so the stored list never
// exceeds the cap, even transiently.
const maxLoginHistory = 10

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	UserName  string `json:"userName" validate:"required,min=3,max=100"`
	Password  string `json:"password" validate:"required,min=6"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
	Email     string `json:"email" validate:"required,email"`
}

// AuthService handles business logic for accounts and credential checks.
type AuthService struct {
	userRepo      repositories.UserRepository
	publisher     EventPublisher
	jwtSecret     []byte
	tokenDuration time.Duration
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, publisher EventPublisher, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		publisher:     publisher,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: 24 * time.Hour,
	}
}

// RegisterUser creates an account with a bcrypt-hashed password. The
// plaintext is never stored. Mismatched passwords fail with
// models.ErrValidation, a taken user name with models.ErrConflict.
func (s *AuthService) RegisterUser(req RegisterRequest) (*models.User, error) {
	if req.Password != req.Password2 {
		return nil, fmt.Errorf("passwords do not match: %w", models.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, models.ErrHashing)
	}

	user := &models.User{
		UserName: req.UserName,
		Password: string(hashed),
		Email:    req.Email,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("register %s: %w", req.UserName, err)
	}

	s.publishUserEvent("user.registered", user.UserName)
	return user, nil
}

// CheckUser verifies credentials and records the login. The stored hash is
// compared with bcrypt's verification primitive, never by re-hashing. On
// success the history is trimmed to the newest entries and a new
// {now, userAgent} entry appended, keeping the list at ten entries or fewer,
// then persisted in a single call. A failed comparison leaves the history
// untouched.
//
// The find-then-update sequence is not transactional; racing logins for one
// user can lose a history entry.
func (s *AuthService) CheckUser(userName, password, userAgent string) (*models.User, error) {
	user, err := s.userRepo.GetByUserName(userName)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("user %s: %w", userName, models.ErrIncorrectPassword)
	}

	history := user.LoginHistory
	if len(history) >= maxLoginHistory {
		history = history[len(history)-(maxLoginHistory-1):]
	}
	history = append(history, models.LoginEntry{
		DateTime:  time.Now(),
		UserAgent: userAgent,
	})

	if err := s.userRepo.UpdateLoginHistory(userName, history); err != nil {
		return nil, fmt.Errorf("record login for %s: %w", userName, err)
	}
	user.LoginHistory = history
	return user, nil
}

// LoginUser verifies credentials via CheckUser and issues a signed JWT for
// the session. Callers must not expose whether the user name or the password
// was wrong.
func (s *AuthService) LoginUser(userName, password, userAgent string) (string, *models.User, error) {
	user, err := s.CheckUser(userName, password, userAgent)
	if err != nil {
		return "", nil, err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"userName": user.UserName,
		"exp":      time.Now().Add(s.tokenDuration).Unix(),
		"iat":      time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, user, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) publishUserEvent(event, userName string) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"event":      event,
		"eventID":    uuid.New().String(),
		"userName":   userName,
		"occurredAt": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if err := s.publisher.Publish("", "blog_events", body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
