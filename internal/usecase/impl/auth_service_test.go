package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"campusconnect/config"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type authFixture struct {
	service usecase.AuthUsecase
	factory *fakeRepoFactory
	tokens  *fakeTokenService
}

func newAuthFixture() *authFixture {
	factory := newFakeRepoFactory()
	tokens := newFakeTokenService()

	service := NewAuthService(AuthServiceParams{
		TxManager:    &fakeTxManager{factory: factory},
		UserRepo:     factory.userRepo,
		StudentRepo:  factory.studentRepo,
		Hasher:       fakeHasher{},
		TokenService: tokens,
		Config: &config.Config{
			Auth: &config.AuthConfig{AllowedEmailDomain: "rishihood.edu.in"},
		},
		Logger: discardLogger(),
	})

	return &authFixture{service: service, factory: factory, tokens: tokens}
}

func (fix *authFixture) enroll(email string) {
	fix.factory.studentRepo.add(&entity.Student{
		Name:       "Roster Entry",
		Email:      email,
		Department: "CSE",
		Year:       "2027",
	})
}

func (fix *authFixture) registeredUser(t *testing.T, email, password string) *entity.User {
	t.Helper()

	fix.enroll(email)
	out, err := fix.service.Signup(context.Background(), usecase.SignupInput{
		Name:     "Test User",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return out.User
}

func TestSignup(t *testing.T) {
	t.Run("rejects non-institutional domains", func(t *testing.T) {
		fix := newAuthFixture()

		_, err := fix.service.Signup(context.Background(), usecase.SignupInput{
			Name: "Jane", Email: "jane@gmail.com", Password: "secret123",
		})

		assert.ErrorIs(t, err, domainerrors.ErrForbiddenDomain)
	})

	t.Run("rejects emails missing from the roster", func(t *testing.T) {
		fix := newAuthFixture()

		_, err := fix.service.Signup(context.Background(), usecase.SignupInput{
			Name: "Jane", Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})

		assert.ErrorIs(t, err, domainerrors.ErrNotAStudent)
	})

	t.Run("rejects an already registered email", func(t *testing.T) {
		fix := newAuthFixture()
		fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")

		_, err := fix.service.Signup(context.Background(), usecase.SignupInput{
			Name: "Jane Again", Email: "Jane2027@Rishihood.edu.in", Password: "other456",
		})

		assert.ErrorIs(t, err, domainerrors.ErrAlreadyRegistered)
	})

	t.Run("creates the account with a hashed password", func(t *testing.T) {
		fix := newAuthFixture()

		user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")

		assert.Equal(t, "jane2027@rishihood.edu.in", user.Email)
		assert.Equal(t, "hashed:secret123", user.PasswordHash)
		assert.Nil(t, user.RefreshTokenHash)
	})
}

func TestLogin(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		fix := newAuthFixture()

		_, err := fix.service.Login(context.Background(), usecase.LoginInput{
			Email: "nobody@rishihood.edu.in", Password: "whatever",
		})

		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		fix := newAuthFixture()
		fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")

		_, err := fix.service.Login(context.Background(), usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "wrong",
		})

		assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	})

	t.Run("persists the refresh token hash", func(t *testing.T) {
		fix := newAuthFixture()
		user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")

		out, err := fix.service.Login(context.Background(), usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, out.AccessToken)
		assert.NotEmpty(t, out.RefreshToken)

		stored := fix.factory.userRepo.storedHash(user.ID)
		require.NotNil(t, stored)
		assert.Equal(t, fix.tokens.HashToken(out.RefreshToken), *stored)
	})

	t.Run("releases no tokens when the session write fails", func(t *testing.T) {
		fix := newAuthFixture()
		user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		fix.factory.userRepo.setHashErr = errors.New("connection reset")

		out, err := fix.service.Login(context.Background(), usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})

		assert.Error(t, err)
		assert.Nil(t, out)
		assert.Nil(t, fix.factory.userRepo.storedHash(user.ID))
	})

	t.Run("a second login invalidates the first session", func(t *testing.T) {
		fix := newAuthFixture()
		fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		ctx := context.Background()
		input := usecase.LoginInput{Email: "jane2027@rishihood.edu.in", Password: "secret123"}

		first, err := fix.service.Login(ctx, input)
		require.NoError(t, err)
		second, err := fix.service.Login(ctx, input)
		require.NoError(t, err)

		_, err = fix.service.Refresh(ctx, first.RefreshToken)
		assert.ErrorIs(t, err, domainerrors.ErrRefreshNotRecognized)

		_, err = fix.service.Refresh(ctx, second.RefreshToken)
		assert.NoError(t, err)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("rejects a token that fails verification", func(t *testing.T) {
		fix := newAuthFixture()

		_, err := fix.service.Refresh(context.Background(), "garbage")

		assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)
	})

	t.Run("rejects an access token presented as refresh", func(t *testing.T) {
		fix := newAuthFixture()
		fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		out, err := fix.service.Login(context.Background(), usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})
		require.NoError(t, err)

		_, err = fix.service.Refresh(context.Background(), out.AccessToken)

		assert.ErrorIs(t, err, domainerrors.ErrInvalidRefreshToken)
	})

	t.Run("rejects a well-signed token after logout", func(t *testing.T) {
		fix := newAuthFixture()
		fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		ctx := context.Background()
		out, err := fix.service.Login(ctx, usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})
		require.NoError(t, err)

		require.NoError(t, fix.service.Logout(ctx, out.RefreshToken))

		_, err = fix.service.Refresh(ctx, out.RefreshToken)
		assert.ErrorIs(t, err, domainerrors.ErrRefreshNotRecognized)
	})

	t.Run("issues a fresh access token and keeps the refresh token", func(t *testing.T) {
		fix := newAuthFixture()
		user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		ctx := context.Background()
		out, err := fix.service.Login(ctx, usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})
		require.NoError(t, err)

		refreshed, err := fix.service.Refresh(ctx, out.RefreshToken)

		require.NoError(t, err)
		assert.NotEqual(t, out.AccessToken, refreshed.AccessToken)

		claims, err := fix.tokens.VerifyAccess(refreshed.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)

		// The same refresh token keeps working until rotation or logout.
		_, err = fix.service.Refresh(ctx, out.RefreshToken)
		assert.NoError(t, err)
	})
}

func TestLogout(t *testing.T) {
	t.Run("ignores an unverifiable token", func(t *testing.T) {
		fix := newAuthFixture()

		assert.NoError(t, fix.service.Logout(context.Background(), "garbage"))
	})

	t.Run("clears the stored session", func(t *testing.T) {
		fix := newAuthFixture()
		user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
		ctx := context.Background()
		out, err := fix.service.Login(ctx, usecase.LoginInput{
			Email: "jane2027@rishihood.edu.in", Password: "secret123",
		})
		require.NoError(t, err)

		require.NoError(t, fix.service.Logout(ctx, out.RefreshToken))

		assert.Nil(t, fix.factory.userRepo.storedHash(user.ID))
	})
}

func TestDeleteAccount(t *testing.T) {
	fix := newAuthFixture()
	user := fix.registeredUser(t, "jane2027@rishihood.edu.in", "secret123")
	peer := fix.factory.userRepo.add(&entity.User{Name: "Peer", Email: "peer2027@rishihood.edu.in"})

	first, second := entity.OrderedPair(user.ID, peer.ID)
	require.NoError(t, fix.factory.connectionRepo.Create(context.Background(), &entity.Connection{
		UserID: first, ConnectedUserID: second,
	}))

	require.NoError(t, fix.service.DeleteAccount(context.Background(), user.ID))

	_, err := fix.factory.userRepo.FindByID(context.Background(), user.ID)
	assert.Error(t, err)

	count, err := fix.factory.connectionRepo.CountForUser(context.Background(), peer.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, fix.service.DeleteAccount(context.Background(), user.ID), domainerrors.ErrUserNotFound)
}
