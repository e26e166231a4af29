// Package service provides application business logic.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AccessTokenLifetime is how long an issued credential stays valid.
const AccessTokenLifetime = 30 * time.Minute

// UserService provides registration, authentication and user lookup logic.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// RegisterInput is the input for creating an account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	DateOfBirth time.Time
}

// Register creates a new account. Username and email collisions are reported
// as ConflictError naming the colliding field. The password is hashed before
// it ever reaches the store and the plaintext is never logged.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	// Pre-checks give precise conflict reporting; the unique constraints in
	// the store remain the backstop for concurrent signups.
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("username")
	}
	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewConflictError("email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:    in.Username,
		Email:       in.Email,
		Password:    string(hashed),
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies the username/password pair and issues a signed,
// time-limited token bound to the username. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewInvalidCredentialsError()
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return "", nil, models.NewInvalidCredentialsError()
	}

	token, err := s.GenerateToken(user.Username)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

// GenerateToken creates a signed JWT whose subject is the username.
func (s *UserService) GenerateToken(username string) (string, error) {
	if s.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"iss": "ripple-api",
		"exp": now.Add(AccessTokenLifetime).Unix(),
		"iat": now.Unix(),
		"jti": fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Resolve validates a credential and returns the user it is bound to.
// Malformed or expired tokens, and subjects that no longer resolve to a user,
// all yield UnauthorizedError.
func (s *UserService) Resolve(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	username, ok := claims["sub"].(string)
	if !ok || username == "" {
		return nil, models.NewUnauthorizedError("Invalid token subject")
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("User not found")
	}
	return user, nil
}

// Search finds users by a case-insensitive substring of username, first name
// or last name.
func (s *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.User{}, nil
	}
	return s.userRepo.Search(ctx, query)
}

// SuggestCounterparts returns up to limit users the given user has never
// exchanged messages with, excluding the user itself.
func (s *UserService) SuggestCounterparts(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	return s.userRepo.SuggestCounterparts(ctx, userID, limit)
}
