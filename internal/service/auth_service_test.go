package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicedesk/support-desk/internal/config"
	"github.com/servicedesk/support-desk/internal/domain"
	apperrors "github.com/servicedesk/support-desk/pkg/util"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	seq     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	copied := *user
	r.byEmail[user.Email] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range r.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func newAuthFixture(adminEmails ...string) (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 15,
			BcryptCost:            4,
		},
		Admin: config.AdminConfig{Emails: adminEmails},
	}
	return NewAuthService(cfg, users), users
}

func TestRegisterAssignsRoleFromAllowList(t *testing.T) {
	svc, _ := newAuthFixture("admin@ticketdesk.com")
	ctx := context.Background()

	user, token, _, err := svc.Register(ctx, "Admin", "Admin@TicketDesk.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "admin@ticketdesk.com", user.Email)
	assert.NotEmpty(t, token)

	user, _, _, err = svc.Register(ctx, "Alex", "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Alex", "not-an-email", "secret1")
	var dErr *apperrors.DomainError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "VALIDATION_FAILED", dErr.Code)

	_, _, _, err = svc.Register(ctx, "Alex", "alex@example.com", "short")
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "VALIDATION_FAILED", dErr.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Alex", "alex@example.com", "secret1")
	require.NoError(t, err)

	_, _, _, err = svc.Register(ctx, "Other", "alex@example.com", "secret2")
	var dErr *apperrors.DomainError
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "CONFLICT", dErr.Code)
}

func TestLoginSuccessAndBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Alex", "alex@example.com", "secret1")
	require.NoError(t, err)

	user, token, _, err := svc.Login(ctx, "alex@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", user.Email)
	assert.NotEmpty(t, token)

	var dErr *apperrors.DomainError
	_, _, _, err = svc.Login(ctx, "alex@example.com", "wrong")
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "AUTH_FAILED", dErr.Code)

	_, _, _, err = svc.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, "AUTH_FAILED", dErr.Code)
}

func TestLoginPromotesAllowListedUser(t *testing.T) {
	users := newFakeUserRepo()
	cfg := config.Config{
		Auth:  config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 15, BcryptCost: 4},
		Admin: config.AdminConfig{},
	}
	svc := NewAuthService(cfg, users)
	ctx := context.Background()

	_, _, _, err := svc.Register(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)

	// Allow-list entry added after the account already exists.
	cfg.Admin = config.AdminConfig{Emails: []string{"sam@example.com"}}
	svc = NewAuthService(cfg, users)

	user, _, _, err := svc.Login(ctx, "sam@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	stored, err := users.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role)
}
