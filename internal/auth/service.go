package auth

import (
	"errors"
	"fmt"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	ErrUserNotFound = users.ErrUserNotFound
	ErrUserExists   = users.ErrUserExists
)

// UserRepository defines the credential store the service needs.
type UserRepository interface {
	CreateUser(username, passwordHash string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	GetUserByUsername(username string) (*entities.User, error)
}

// Service handles registration and credential verification.
type Service struct {
	users  UserRepository
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(repo UserRepository, cfg config.Auth) *Service {
	return &Service{
		users:  repo,
		config: cfg,
	}
}

// Register hashes the password and persists a new user. A taken
// username returns ErrUserExists; the store's unique index decides,
// so two racing registrations can never both win.
func (s *Service) Register(username, password string) (*entities.User, error) {
	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.CreateUser(username, passwordHash)
}

// Authenticate validates credentials and returns the user.
// A missing user returns ErrUserNotFound, a wrong password
// ErrInvalidPassword. Hasher faults propagate unchanged and are never
// treated as a match.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.users.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetUserByID(id)
}
