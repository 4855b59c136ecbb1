package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "petlodge/internal/domain/auth"
	domainuser "petlodge/internal/domain/user"
	"petlodge/internal/infra/security"
	"petlodge/internal/infra/storage/memory"
)

func newTestService() (*Service, *memory.UserRepository) {
	users := memory.NewUserRepository()
	return &Service{
		Users:      users,
		Sessions:   memory.NewSessionStore(),
		Passwords:  security.BcryptHasher{Cost: 4},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: time.Hour,
	}, users
}

func TestRegisterCreatesCustomer(t *testing.T) {
	svc, _ := newTestService()
	res, err := svc.Register(context.Background(), RegisterParams{
		Email:    "Jamie@Example.COM",
		Name:     "Jamie",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "jamie@example.com", res.User.Email)
	assert.True(t, res.User.HasRole(domainuser.RoleCustomer))
	assert.False(t, res.User.HasRole(domainuser.RoleStaff))
	assert.Empty(t, res.User.FacilityID)
}

func TestRegisterStaffAccount(t *testing.T) {
	svc, _ := newTestService()
	res, err := svc.Register(context.Background(), RegisterParams{
		Email:           "staff@example.com",
		Name:            "Sam",
		Password:        "hunter2hunter2",
		StaffFacilityID: "facility-downtown",
	})
	require.NoError(t, err)
	assert.True(t, res.User.HasRole(domainuser.RoleStaff))
	assert.Equal(t, "facility-downtown", res.User.FacilityID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterParams{Name: "x", Password: "longenough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailRequired)

	_, err = svc.Register(ctx, RegisterParams{Email: "a@b.c", Password: "longenough"})
	assert.ErrorIs(t, err, domainuser.ErrNameRequired)

	_, err = svc.Register(ctx, RegisterParams{Email: "a@b.c", Name: "x", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	params := RegisterParams{Email: "dup@example.com", Name: "First", Password: "longenough"}
	_, err := svc.Register(ctx, params)
	require.NoError(t, err)

	params.Name = "Second"
	_, err = svc.Register(ctx, params)
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterParams{Email: "jamie@example.com", Name: "Jamie", Password: "hunter2hunter2"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginParams{Email: "jamie@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.Login(ctx, LoginParams{Email: "jamie@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginParams{Email: "nobody@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedUser(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()
	res, err := svc.Register(ctx, RegisterParams{Email: "jamie@example.com", Name: "Jamie", Password: "hunter2hunter2"})
	require.NoError(t, err)

	res.User.Blocked = true
	require.NoError(t, users.Save(ctx, res.User))

	_, err = svc.Login(ctx, LoginParams{Email: "jamie@example.com", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrUserBlocked)
}

func TestResolveTokenAndLogout(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	reg, err := svc.Register(ctx, RegisterParams{Email: "jamie@example.com", Name: "Jamie", Password: "hunter2hunter2"})
	require.NoError(t, err)

	resolved, err := svc.ResolveToken(ctx, reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resolved.User.ID)

	require.NoError(t, svc.Logout(ctx, reg.Token))
	_, err = svc.ResolveToken(ctx, reg.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

func TestResolveTokenRequiresToken(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.ResolveToken(context.Background(), "  ")
	assert.ErrorIs(t, err, domainauth.ErrTokenRequired)
}
