package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Service manages user registration and lookup.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput captures the data required to register a user.
type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return User{}, errors.New("username is required")
	}
	if len(input.Password) < 8 {
		return User{}, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
	})
}

// List returns all registered users ascending by id.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}
