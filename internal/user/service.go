package user

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fkhayef/movienight/pkg/apperror"
)

// Common errors
var (
	ErrUserNotFound       = apperror.NotFound("user not found")
	ErrUsernameTaken      = apperror.Conflict("username already in use")
	ErrInvalidCredentials = apperror.Unauthorized("invalid username or password")
)

// Store is the persistence the user service needs
type Store interface {
	Create(ctx context.Context, username string, name *string, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// Service handles user business logic
type Service struct {
	repo Store
	cost int
}

// NewService creates a new user service with repository dependency injected
func NewService(repo Store) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost}
}

// Register creates a new account with a hashed password
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	existing, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.Create(ctx, req.Username, req.Name, string(hash))
}

// Authenticate verifies a username and password
func (s *Service) Authenticate(ctx context.Context, req *LoginRequest) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
