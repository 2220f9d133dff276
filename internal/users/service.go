package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords
	// alike; callers cannot distinguish the two.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrMissingUsername indicates a blank username at registration.
	ErrMissingUsername = errors.New("users: username is required")
	// ErrMissingPassword indicates a blank password at registration.
	ErrMissingPassword = errors.New("users: password is required")
)

// ServiceConfig describes the dependencies of the account service.
type ServiceConfig struct {
	Database *gorm.DB
}

// Service manages local credential accounts.
type Service struct {
	db *gorm.DB
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, fmt.Errorf("users: database connection required")
	}
	return &Service{db: cfg.Database}, nil
}

// Registration carries the input for a new account.
type Registration struct {
	EmployeeID string
	FullName   string
	Email      string
	Username   string
	Password   string
	Role       string
}

// Register validates the registration and persists a new account with a
// bcrypt password hash.
func (s *Service) Register(ctx context.Context, registration Registration) (Account, error) {
	role, err := NewRole(registration.Role)
	if err != nil {
		return Account{}, err
	}
	username := strings.TrimSpace(registration.Username)
	if username == "" {
		return Account{}, ErrMissingUsername
	}
	if registration.Password == "" {
		return Account{}, ErrMissingPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, fmt.Errorf("users: hash password: %w", err)
	}

	account := Account{
		EmployeeID:   optionalText(registration.EmployeeID),
		FullName:     strings.TrimSpace(registration.FullName),
		Email:        optionalText(registration.Email),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&account).Error; err != nil {
		return Account{}, fmt.Errorf("users: create account: %w", err)
	}
	return account, nil
}

// Authenticate checks the username and password against the stored hash and
// returns the matching account.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	var account Account
	err := s.db.WithContext(ctx).
		Where("username = ?", strings.TrimSpace(username)).
		Take(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, fmt.Errorf("users: lookup account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return account, nil
}

func optionalText(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
