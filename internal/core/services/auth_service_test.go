package services

import (
	"context"
	"testing"

	"quickcred-backend/internal/adapters/persistence/repositories"
	"quickcred-backend/internal/config"
	"quickcred-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestService(t *testing.T) *AuthService {
	t.Helper()
	db := testDB(t)
	return NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		config.JWTConfig{
			Secret:           "test-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	)
}

func validRegisterInput() *RegisterInput {
	return &RegisterInput{
		FullName: "Jane Borrower",
		Email:    "jane@example.com",
		Phone:    "+15550001111",
		Password: "supersecret",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("new user is registered with tokens", func(t *testing.T) {
		svc := newAuthTestService(t)

		out, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		assert.Equal(t, "jane@example.com", out.User.Email)
		assert.Equal(t, domain.RoleUser, out.User.Role)
		assert.NotEmpty(t, out.Tokens.AccessToken)
		assert.NotEmpty(t, out.Tokens.RefreshToken)
	})

	t.Run("email is normalized to lower case", func(t *testing.T) {
		svc := newAuthTestService(t)

		input := validRegisterInput()
		input.Email = "  Jane@Example.COM "
		out, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", out.User.Email)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)

		_, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		input := validRegisterInput()
		input.Phone = "+15550002222"
		_, err = svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)

		_, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		input := validRegisterInput()
		input.Email = "other@example.com"
		_, err = svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrPhoneTaken)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)

		input := validRegisterInput()
		input.Password = "short"
		_, err := svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials log in", func(t *testing.T) {
		svc := newAuthTestService(t)
		_, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		out, err := svc.Login(ctx, &LoginInput{Email: "jane@example.com", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, out.Tokens.AccessToken)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)
		_, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		_, err = svc.Login(ctx, &LoginInput{Email: "jane@example.com", Password: "wrongpass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)
		_, err := svc.Login(ctx, &LoginInput{Email: "nobody@example.com", Password: "supersecret"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotation issues a new pair and revokes the old token", func(t *testing.T) {
		svc := newAuthTestService(t)
		registered, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		refreshed, err := svc.Refresh(ctx, registered.Tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.Tokens.AccessToken)
		assert.NotEqual(t, registered.Tokens.RefreshToken, refreshed.Tokens.RefreshToken)

		// The rotated-out token no longer works
		_, err = svc.Refresh(ctx, registered.Tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)
		_, err := svc.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
	})

	t.Run("logged-out token is rejected", func(t *testing.T) {
		svc := newAuthTestService(t)
		registered, err := svc.Register(ctx, validRegisterInput())
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, registered.Tokens.RefreshToken))

		_, err = svc.Refresh(ctx, registered.Tokens.RefreshToken)
		assert.ErrorIs(t, err, ErrRefreshTokenInvalid)
	})
}
