package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tvhoang/workunit-api/internal/config"
	"github.com/tvhoang/workunit-api/internal/constants"
	"github.com/tvhoang/workunit-api/internal/models"
	"github.com/tvhoang/workunit-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid account or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrPasswordMismatch     = errors.New("password confirmation does not match")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidRecoveryCode  = errors.New("invalid system recovery code")
	ErrRecoveryNotSupported = errors.New("staff accounts are recovered by the administrator")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// NormalizeEmail lowercases the login key and appends the configured mail
// domain to short account names typed without one.
func (s *AuthService) NormalizeEmail(account string) string {
	account = strings.TrimSpace(strings.ToLower(account))
	if account != "" && !strings.Contains(account, "@") {
		account = account + "@" + s.cfg.MailDomain
	}
	return account
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Account  string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := s.NormalizeEmail(input.Account)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ChangePassword sets a new password for the user and clears the forced
// change flag. Called both from the first-login flow and the profile page.
func (s *AuthService) ChangePassword(userID, newPassword, confirm string) (*models.User, error) {
	if len(newPassword) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if newPassword != confirm {
		return nil, ErrPasswordMismatch
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false

	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to save password: %w", err)
	}

	return user, nil
}

// ResetPassword puts the target account back on the default password and
// forces a change on next login. Admin-only at the handler level.
func (s *AuthService) ResetPassword(userID string) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = true

	if err := s.userRepo.Upsert(user); err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	return user, nil
}

// Recover handles the pre-login recovery flow. Only the root admin account
// can be recovered with the system recovery code; other accounts are
// directed to the administrator.
func (s *AuthService) Recover(account, recoveryCode string) error {
	email := s.NormalizeEmail(account)

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if !strings.EqualFold(user.Email, s.cfg.AdminEmail) {
		return ErrRecoveryNotSupported
	}
	if recoveryCode != s.cfg.RecoveryCode {
		return ErrInvalidRecoveryCode
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	user.PasswordHash = string(hash)
	user.MustChangePassword = false

	if err := s.userRepo.Upsert(user); err != nil {
		return fmt.Errorf("failed to recover account: %w", err)
	}

	return nil
}

// SeedRootAdmin creates the root admin account on an empty store so a fresh
// deployment is immediately usable.
func (s *AuthService) SeedRootAdmin() error {
	count, err := s.userRepo.Count()
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	admin := &models.User{
		ID:            uuid.NewString(),
		Name:          "System Administrator",
		Position:      "System Administrator",
		Unit:          "Head Office",
		Gender:        models.GenderMale,
		Email:         strings.ToLower(s.cfg.AdminEmail),
		PasswordHash:  string(hash),
		Role:          models.RoleAdmin,
		DelegateLevel: "X1",
		Notes:         constants.AdminNotesMarker,
	}

	if err := s.userRepo.Upsert(admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	return nil
}
