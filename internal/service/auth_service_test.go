package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/erivelton/subscriply/internal/config"
	"github.com/erivelton/subscriply/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetAll(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, user := range r.users {
		cp := *user
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountAdmins(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, user := range r.users {
		if user.IsAdmin {
			count++
		}
	}
	return count, nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *domain.SystemSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*domain.SystemSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, domain.ErrNotFound
	}
	cp := *r.settings
	return &cp, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *domain.SystemSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings = &cp
	return nil
}

type fakeRefreshTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeRefreshTokenRepo() *fakeRefreshTokenRepo {
	return &fakeRefreshTokenRepo{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *fakeRefreshTokenRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.TokenHash] = &cp
	return nil
}

func (r *fakeRefreshTokenRepo) FindByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[hash]
	if !ok {
		return nil, nil
	}
	cp := *token
	return &cp, nil
}

func (r *fakeRefreshTokenRepo) RevokeByHash(_ context.Context, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token, ok := r.tokens[hash]; ok {
		token.Revoked = true
	}
	return nil
}

func (r *fakeRefreshTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpired(_ context.Context) error { return nil }

func newTestAuthService() (*AuthService, *fakeUserRepo, *fakeSettingsRepo) {
	userRepo := newFakeUserRepo()
	settingsRepo := &fakeSettingsRepo{}
	tokenService := NewTokenService(config.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
	}, newFakeRefreshTokenRepo(), userRepo)
	return NewAuthService(userRepo, settingsRepo, tokenService), userRepo, settingsRepo
}

func TestLoginWrongCredentialsIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "admin", "correct-pass", true)
	require.NoError(t, err)

	_, errWrongPass := svc.Login(ctx, LoginRequest{Username: "admin", Password: "nope"})
	_, errNoUser := svc.Login(ctx, LoginRequest{Username: "ghost", Password: "nope"})

	assert.ErrorIs(t, errWrongPass, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPass, errNoUser)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "admin", "correct-pass", true)
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "admin", Password: "correct-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Tokens.AccessToken)
	assert.NotEmpty(t, resp.Tokens.RefreshToken)
	assert.Equal(t, int64(900), resp.Tokens.ExpiresIn)
}

func TestRegisterHonorsSettingsToggle(t *testing.T) {
	svc, _, settingsRepo := newTestAuthService()
	ctx := context.Background()

	closed := domain.DefaultSettings()
	closed.AllowUserRegistration = false
	require.NoError(t, settingsRepo.Update(ctx, closed))

	_, err := svc.Register(ctx, "walkin", "pass123")
	assert.ErrorIs(t, err, domain.ErrRegistrationClosed)

	open := domain.DefaultSettings()
	open.AllowUserRegistration = true
	require.NoError(t, settingsRepo.Update(ctx, open))

	user, err := svc.Register(ctx, "walkin", "pass123")
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)
}

func TestLastAdminGuard(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	admin, err := svc.CreateUser(ctx, "admin", "pass", true)
	require.NoError(t, err)
	operator, err := svc.CreateUser(ctx, "operator", "pass", false)
	require.NoError(t, err)

	// Demoting or deleting the only admin is refused
	demote := false
	_, err = svc.UpdateUser(ctx, admin.ID, UpdateUserRequest{IsAdmin: &demote})
	assert.ErrorIs(t, err, domain.ErrLastAdmin)

	err = svc.DeleteUser(ctx, admin.ID)
	assert.ErrorIs(t, err, domain.ErrLastAdmin)

	// With a second admin both operations go through
	promote := true
	_, err = svc.UpdateUser(ctx, operator.ID, UpdateUserRequest{IsAdmin: &promote})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, admin.ID, UpdateUserRequest{IsAdmin: &demote})
	require.NoError(t, err)
}

func TestGetSettingsFallsBackToDefaults(t *testing.T) {
	svc, _, _ := newTestAuthService()

	settings, err := svc.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}
