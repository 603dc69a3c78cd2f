package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erivelton/subscriply/internal/domain"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles credential checks, user administration and system settings
type AuthService struct {
	userRepo     domain.UserRepository
	settingsRepo domain.SettingsRepository
	tokenService *TokenService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	settingsRepo domain.SettingsRepository,
	tokenService *TokenService,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		tokenService: tokenService,
	}
}

// LoginRequest contains the credentials presented at login
type LoginRequest struct {
	Username  string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginResponse contains the authenticated user and their token pair
type LoginResponse struct {
	User   *domain.User
	Tokens *TokenPair
}

// Login verifies username/password and issues a token pair.
// A wrong username and a wrong password return the same error so the
// endpoint does not leak which usernames exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokenPair(ctx, user, req.UserAgent, req.IPAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginResponse{User: user, Tokens: tokens}, nil
}

// Register creates a self-service account when registration is open.
// New accounts are never admins.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.AllowUserRegistration {
		return nil, domain.ErrRegistrationClosed
	}

	return s.createUser(ctx, username, password, false)
}

// CreateUser creates an account on behalf of an admin
func (s *AuthService) CreateUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error) {
	return s.createUser(ctx, username, password, isAdmin)
}

func (s *AuthService) createUser(ctx context.Context, username, password string, isAdmin bool) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: string(hash),
		IsAdmin:      isAdmin,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns every account
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// UpdateUserRequest carries the mutable account fields. Nil means unchanged.
type UpdateUserRequest struct {
	Username *string
	Password *string
	IsAdmin  *bool
}

// UpdateUser applies partial changes to an account. Demoting the last
// remaining admin is rejected.
func (s *AuthService) UpdateUser(ctx context.Context, userID string, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username == "" {
			return nil, domain.ErrInvalidCredentials
		}
		user.Username = username
	}

	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if req.IsAdmin != nil {
		if user.IsAdmin && !*req.IsAdmin {
			if err := s.ensureNotLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
		user.IsAdmin = *req.IsAdmin
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account and force-logs-out its sessions.
// Deleting the last remaining admin is rejected.
func (s *AuthService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin {
		if err := s.ensureNotLastAdmin(ctx); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	return s.tokenService.RevokeAllUserTokens(ctx, userID)
}

func (s *AuthService) ensureNotLastAdmin(ctx context.Context) error {
	count, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}

// GetSettings returns the system settings, falling back to defaults when
// the singleton has never been written.
func (s *AuthService) GetSettings(ctx context.Context) (*domain.SystemSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}
	return settings, nil
}

// UpdateSettings replaces the system settings singleton
func (s *AuthService) UpdateSettings(ctx context.Context, settings *domain.SystemSettings) (*domain.SystemSettings, error) {
	if settings.SubscriptionWarningDays < 0 {
		settings.SubscriptionWarningDays = 0
	}
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
