package impl

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	deliverycontext "campusconnect/internal/delivery/context"
	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/domain/repository"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const searchLimit = 10

var (
	fourDigitYear = regexp.MustCompile(`(20\d{2})`)
	twoDigitYear  = regexp.MustCompile(`(\d{2})([^0-9]|$)`)
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	userRepo       repository.UserRepository
	studentRepo    repository.StudentRepository
	connectionRepo repository.ConnectionRepository
	logger         *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	UserRepo       repository.UserRepository
	StudentRepo    repository.StudentRepository
	ConnectionRepo repository.ConnectionRepository
	Logger         *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		userRepo:       params.UserRepo,
		studentRepo:    params.StudentRepo,
		connectionRepo: params.ConnectionRepo,
		logger:         params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Me returns the caller's own profile enriched with roster metadata and
// connection count.
func (srv *profileService) Me(ctx context.Context, userID uuid.UUID) (*entity.PublicProfile, error) {
	return srv.buildProfile(ctx, userID, userID)
}

// GetProfile returns a user's public profile as seen by the viewer.
func (srv *profileService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*entity.PublicProfile, error) {
	return srv.buildProfile(ctx, viewerID, userID)
}

func (srv *profileService) buildProfile(ctx context.Context, viewerID, userID uuid.UUID) (*entity.PublicProfile, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	department, year := srv.studentMeta(ctx, user.Email)

	connectionsCount, err := srv.connectionRepo.CountForUser(ctx, userID)
	if err != nil {
		srv.log(ctx).Warn("failed to count connections", slog.String("user_id", userID.String()), slog.Any("error", err))
		connectionsCount = 0
	}

	isOwn := viewerID == userID
	isConnected := false
	if !isOwn {
		isConnected, err = srv.connectionRepo.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to check connection")
		}
	}

	return &entity.PublicProfile{
		ID:               user.ID,
		Name:             user.Name,
		Email:            user.Email,
		PortfolioLink:    user.PortfolioLink,
		LinkedinLink:     user.LinkedinLink,
		GithubLink:       user.GithubLink,
		LeetcodeLink:     user.LeetcodeLink,
		Bio:              user.Bio,
		ProfilePhoto:     user.ProfilePhoto,
		Department:       department,
		Year:             year,
		ConnectionsCount: connectionsCount,
		IsConnected:      isConnected,
		IsOwnProfile:     isOwn,
	}, nil
}

// studentMeta resolves roster department and year for an email. The roster
// is best effort: a missing row degrades to placeholders, and a missing year
// falls back to the batch year embedded in the email address.
func (srv *profileService) studentMeta(ctx context.Context, email string) (department, year string) {
	department = entity.MetaNotAvailable
	year = entity.MetaNotAvailable

	student, err := srv.studentRepo.FindByEmail(ctx, email)
	if err == nil {
		if student.Department != "" {
			department = student.Department
		}
		if student.Year != "" {
			year = student.Year
		}
	} else if !errors.Is(err, repository.ErrStudentNotFound) {
		srv.log(ctx).Warn("failed to load roster record", slog.Any("error", err))
	}

	if year == entity.MetaNotAvailable {
		if derived := yearFromEmail(email); derived != "" {
			year = derived
		}
	}

	return department, year
}

// yearFromEmail extracts a batch year from addresses like jane2027@ or
// jane.c27@: a full 20xx year wins, otherwise a trailing two-digit run is
// expanded to 20xx.
func yearFromEmail(email string) string {
	if m := fourDigitYear.FindStringSubmatch(email); m != nil {
		return m[1]
	}
	if m := twoDigitYear.FindStringSubmatch(email); m != nil {
		return "20" + m[1]
	}

	return ""
}

// UpdateProfile applies the provided fields and returns the refreshed profile.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input usecase.UpdateProfileInput) (*entity.PublicProfile, error) {
	fields := make(map[string]any)
	setField := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}

	setField("name", input.Name)
	setField("bio", input.Bio)
	setField("portfolio_link", input.PortfolioLink)
	setField("linkedin_link", input.LinkedinLink)
	setField("github_link", input.GithubLink)
	setField("leetcode_link", input.LeetcodeLink)
	setField("profile_photo", input.ProfilePhoto)

	if len(fields) == 0 {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("no fields to update")
	}

	if err := srv.userRepo.UpdateProfile(ctx, userID, fields); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to update profile")
	}

	return srv.buildProfile(ctx, userID, userID)
}

// Search finds users by name or email substring, ordered by name.
func (srv *profileService) Search(ctx context.Context, query string) ([]*entity.UserSummary, error) {
	if strings.TrimSpace(query) == "" {
		return []*entity.UserSummary{}, nil
	}

	users, err := srv.userRepo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search users")
	}

	results := make([]*entity.UserSummary, 0, len(users))
	for _, user := range users {
		results = append(results, user.Summary())
	}

	return results, nil
}
