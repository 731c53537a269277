package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/profitbridge/platform-api/internal/domain"
	"github.com/profitbridge/platform-api/internal/models"
)

// AuthService owns registration and credential checks. Token issuance lives
// in the handler; email verification and password-reset delivery stay with
// the external provider.
type AuthService struct {
	store Store
}

func NewAuthService(store Store) *AuthService {
	return &AuthService{store: store}
}

// RegisterRequest holds the parameters for account creation.
type RegisterRequest struct {
	FullName      string
	Email         string
	Password      string
	WalletAddress string
}

func (req RegisterRequest) validate() error {
	if strings.TrimSpace(req.FullName) == "" {
		return errors.New("full_name is required")
	}
	if !strings.Contains(req.Email, "@") {
		return errors.New("valid email is required")
	}
	if len(req.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

// Register creates a user profile with a zero balance.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	q := s.store.Repo()
	if _, err := q.GetProfileByEmail(ctx, email); err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("register email lookup: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &models.Profile{
		ID:            uuid.New(),
		FullName:      strings.TrimSpace(req.FullName),
		Email:         email,
		PasswordHash:  string(hash),
		Role:          domain.RoleUser,
		WalletAddress: strings.TrimSpace(req.WalletAddress),
	}
	if err := q.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Authenticate verifies credentials and returns the profile. Suspended users
// still authenticate; the flows reject them individually.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	profile, err := s.store.Repo().GetProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	return profile, nil
}

// UpdateWallet changes the caller's payout wallet address.
func (s *AuthService) UpdateWallet(ctx context.Context, userID uuid.UUID, walletAddress string) error {
	if userID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	walletAddress = strings.TrimSpace(walletAddress)
	if walletAddress == "" {
		return errors.New("wallet_address is required")
	}
	rows, err := s.store.Repo().UpdateProfileWallet(ctx, userID, walletAddress)
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if userID == uuid.Nil {
		return models.ErrUnauthenticated
	}
	if len(next) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	q := s.store.Repo()
	profile, err := q.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password lookup: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(current)) != nil {
		return models.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	rows, err := q.UpdateProfilePassword(ctx, userID, string(hash))
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Profile returns the caller's own profile record.
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, models.ErrUnauthenticated
	}
	return s.store.Repo().GetProfile(ctx, userID)
}
