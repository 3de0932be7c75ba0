// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"campusconnect/config"
	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/domain/service"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager     repository.TransactionManager
	userRepo      repository.UserRepository
	studentRepo   repository.StudentRepository
	hasher        service.PasswordHasher
	tokenService  service.TokenService
	allowedDomain string
	logger        *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	StudentRepo  repository.StudentRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Config       *config.Config
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	allowedDomain := ""
	if params.Config != nil && params.Config.Auth != nil {
		allowedDomain = params.Config.Auth.AllowedEmailDomain
	}

	return &authService{
		txManager:     params.TxManager,
		userRepo:      params.UserRepo,
		studentRepo:   params.StudentRepo,
		hasher:        params.Hasher,
		tokenService:  params.TokenService,
		allowedDomain: allowedDomain,
		logger:        params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Signup registers a new account: institutional domain gate, duplicate check,
// roster check, then creation with a bcrypt-hashed password.
func (srv *authService) Signup(ctx context.Context, input usecase.SignupInput) (*usecase.SignupOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if srv.allowedDomain != "" && !strings.HasSuffix(email, "@"+srv.allowedDomain) {
		return nil, domainerrors.ErrForbiddenDomain
	}

	var createdUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		studentRepo := repoFactory.StudentRepo()

		_, err := userRepo.FindByEmail(ctx, email)
		if err == nil {
			return domainerrors.ErrAlreadyRegistered
		}
		if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing user")
		}

		if _, err := studentRepo.FindByEmail(ctx, email); err != nil {
			if errors.Is(err, repository.ErrStudentNotFound) {
				return domainerrors.ErrNotAStudent
			}

			return errors.Wrap(err, "failed to check student roster")
		}

		passwordHash, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}

		createdUser = &entity.User{
			Name:         strings.TrimSpace(input.Name),
			Email:        email,
			PasswordHash: passwordHash,
		}

		return userRepo.Create(ctx, createdUser)
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("account created", slog.String("user_id", createdUser.ID.String()))

	return &usecase.SignupOutput{User: createdUser}, nil
}

// Login verifies credentials, mints both token classes and persists the
// refresh token hash. The hash write is the commit point: if it fails the
// client receives no tokens.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	refreshToken, err := srv.tokenService.IssueRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue refresh token")
	}

	hash := srv.tokenService.HashToken(refreshToken)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().SetRefreshTokenHash(ctx, user.ID, &hash)
	})
	if err != nil {
		srv.log(ctx).Error("failed to persist session", slog.String("user_id", user.ID.String()), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to persist session")
	}

	srv.log(ctx).Info("login succeeded", slog.String("user_id", user.ID.String()))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. Beyond signature
// and expiry, the token's hash must equal the one stored on the user record;
// a rotated or cleared session fails here even for well-signed tokens.
func (srv *authService) Refresh(ctx context.Context, rawRefreshToken string) (*usecase.RefreshOutput, error) {
	claims, err := srv.tokenService.VerifyRefresh(rawRefreshToken)
	if err != nil {
		return nil, domainerrors.ErrInvalidRefreshToken
	}

	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrRefreshNotRecognized
		}

		return nil, errors.Wrap(err, "failed to look up user")
	}

	if user.RefreshTokenHash == nil {
		return nil, domainerrors.ErrRefreshNotRecognized
	}

	presented := srv.tokenService.HashToken(rawRefreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshTokenHash)) != 1 {
		return nil, domainerrors.ErrRefreshNotRecognized
	}

	accessToken, err := srv.tokenService.IssueAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue access token")
	}

	return &usecase.RefreshOutput{AccessToken: accessToken}, nil
}

// Logout clears the stored session for the token's owner. Best effort: an
// unverifiable token or a missing user is treated as already logged out.
func (srv *authService) Logout(ctx context.Context, rawRefreshToken string) error {
	claims, err := srv.tokenService.VerifyRefresh(rawRefreshToken)
	if err != nil {
		return nil
	}

	if err := srv.userRepo.SetRefreshTokenHash(ctx, claims.UserID, nil); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}

		srv.log(ctx).Warn("failed to clear session", slog.String("user_id", claims.UserID.String()), slog.Any("error", err))
	}

	return nil
}

// DeleteAccount removes the user and their connection edges in one transaction.
func (srv *authService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.ConnectionRepo().DeleteForUser(ctx, userID); err != nil {
			return err
		}

		return repoFactory.UserRepo().Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("account deleted", slog.String("user_id", userID.String()))

	return nil
}
