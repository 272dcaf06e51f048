package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campustech-backend/internal/apperr"
	"campustech-backend/internal/auth"
	"campustech-backend/internal/models"
	"campustech-backend/internal/models/dto"
)

type fakeRevocations struct {
	revoked map[string]time.Time
	err     error
}

func (f *fakeRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	f.revoked[tokenID] = until
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[tokenID]
	return ok, nil
}

func register(t *testing.T, e *env, email, password string) {
	t.Helper()
	_, err := e.auth.Register(context.Background(), dto.RegisterRequest{Name: "Student", Email: email, Password: password})
	require.NoError(t, err)
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Register(ctx, dto.RegisterRequest{Name: " Student ", Email: "  Student@Campus.TEST ", Password: "pw123456"})
	require.NoError(t, err)
	assert.Equal(t, "student@campus.test", user.Email)
	assert.Equal(t, "Student", user.Name)
	assert.False(t, user.IsAdmin)

	stored, err := e.store.FindUserByEmail(ctx, "student@campus.test")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)

	_, err = e.auth.Register(ctx, dto.RegisterRequest{Name: "Dup", Email: "STUDENT@campus.test", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = e.auth.Register(ctx, dto.RegisterRequest{Email: "x@campus.test", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "a@campus.test", "right")

	_, wrongPassword := e.auth.Login(ctx, dto.LoginRequest{Email: "a@campus.test", Password: "wrong"})
	_, unknownEmail := e.auth.Login(ctx, dto.LoginRequest{Email: "nobody@campus.test", Password: "right"})

	assert.True(t, apperr.Is(wrongPassword, apperr.KindAuth))
	assert.True(t, apperr.Is(unknownEmail, apperr.KindAuth))
	assert.Equal(t, apperr.Message(wrongPassword), apperr.Message(unknownEmail))
}

func TestLoginPromotesConfiguredAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "admin@campus.test", "secret")
	register(t, e, "student@campus.test", "secret")

	for i := 0; i < 2; i++ {
		resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "Admin@Campus.test", Password: "secret"})
		require.NoError(t, err)
		assert.True(t, resp.User.IsAdmin)

		id, err := e.tokens.Parse(resp.Token)
		require.NoError(t, err)
		assert.True(t, id.IsAdmin)
	}

	stored, err := e.store.FindUserByEmail(ctx, "admin@campus.test")
	require.NoError(t, err)
	assert.True(t, stored.IsAdmin)

	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "student@campus.test", Password: "secret"})
	require.NoError(t, err)
	assert.False(t, resp.User.IsAdmin)
}

func TestAuthenticate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "a@campus.test", "pw")
	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "a@campus.test", Password: "pw"})
	require.NoError(t, err)

	id, err := e.auth.Authenticate(ctx, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id.UserID)
	assert.Equal(t, "a@campus.test", id.Email)

	for _, header := range []string{"", "Bearer ", "Token " + resp.Token, "Bearer garbage"} {
		_, err := e.auth.Authenticate(ctx, header)
		assert.True(t, apperr.Is(err, apperr.KindAuth), "header %q", header)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	revocations := &fakeRevocations{revoked: map[string]time.Time{}}
	e.auth = NewAuthService(e.store, e.tokens, revocations, e.cfg)
	register(t, e, "a@campus.test", "pw")
	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "a@campus.test", Password: "pw"})
	require.NoError(t, err)

	id, err := e.auth.Authenticate(ctx, "Bearer "+resp.Token)
	require.NoError(t, err)
	require.NoError(t, e.auth.Logout(ctx, id))
	assert.Equal(t, id.ExpiresAt, revocations.revoked[id.TokenID])

	_, err = e.auth.Authenticate(ctx, "Bearer "+resp.Token)
	assert.True(t, apperr.Is(err, apperr.KindAuth))

	revocations.err = errors.New("redis down")
	_, err = e.auth.Authenticate(ctx, "Bearer "+resp.Token)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestAdminFlagComesFromToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	register(t, e, "admin@campus.test", "pw")
	resp, err := e.auth.Login(ctx, dto.LoginRequest{Email: "admin@campus.test", Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, e.store.SetAdmin(ctx, resp.User.ID, false))

	var id auth.Identity
	id, err = e.auth.Authenticate(ctx, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.True(t, id.IsAdmin)
}

func TestRegisterRejectsFullCardNumber(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.auth.Register(ctx, dto.RegisterRequest{
		Name: "Student", Email: "a@campus.test", Password: "pw",
		Billing: &models.Billing{CardBrand: "Visa", Last4: "4111111111111111"},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = e.store.FindUserByEmail(ctx, "a@campus.test")
	assert.Error(t, err)

	_, err = e.auth.Register(ctx, dto.RegisterRequest{
		Name: "Student", Email: "a@campus.test", Password: "pw",
		Billing: &models.Billing{CardBrand: "Visa", Last4: "4242"},
	})
	require.NoError(t, err)
	stored, err := e.store.FindUserByEmail(ctx, "a@campus.test")
	require.NoError(t, err)
	assert.Equal(t, "4242", stored.Billing.Last4)
}
