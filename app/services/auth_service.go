package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dnguyen-dev/bistro/app/models"
	"github.com/dnguyen-dev/bistro/app/repositories"
	"github.com/dnguyen-dev/bistro/pkg/auth"
	"github.com/dnguyen-dev/bistro/pkg/logger"
)

var (
	// ErrInvalidCredentials is deliberately uniform: callers cannot tell
	// a wrong password from an unknown email.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken rejects duplicate registration.
	ErrEmailTaken = errors.New("email already registered")
)

// AuthService registers and authenticates users. Credentials are
// bcrypt-hashed; the plaintext never leaves this service.
type AuthService struct {
	users userStore
}

// userStore is what the service needs from the user repository; tests
// stub it.
type userStore interface {
	FindByEmail(email string) (models.User, error)
	FindByID(id uint) (models.User, error)
	EmailTaken(email string) (bool, error)
	Create(user *models.User) error
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"phone" validate:"required,digits=9..11"`
	Password             string `json:"password" validate:"required,min=6,confirmed"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates a user. Duplicate emails are rejected; everything
// else (password length, confirmation) is validated upstream.
func (s *AuthService) Register(in RegisterInput) (models.User, error) {
	taken, err := s.users.EmailTaken(in.Email)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: check email: %w", err)
	}
	if taken {
		return models.User{}, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("auth: hash password: %w", err)
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hash,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("auth: create user: %w", err)
	}

	logger.Info("auth: user registered", "email", in.Email)
	return user, nil
}

// Login verifies credentials and issues a JWT. The failure mode is
// uniform regardless of which part did not match.
func (s *AuthService) Login(email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, "", ErrInvalidCredentials
		}
		return models.User{}, "", fmt.Errorf("auth: lookup user: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return models.User{}, "", fmt.Errorf("auth: issue token: %w", err)
	}
	return user, token, nil
}

// Profile returns the registered user for reservation-form auto-fill.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}
