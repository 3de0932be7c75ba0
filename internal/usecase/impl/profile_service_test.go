package impl

import (
	"context"
	"testing"

	"campusconnect/internal/domain/entity"
	domainerrors "campusconnect/internal/domain/errors"
	"campusconnect/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixture struct {
	service usecase.ProfileUsecase
	factory *fakeRepoFactory
}

func newProfileFixture() *profileFixture {
	factory := newFakeRepoFactory()

	service := NewProfileService(ProfileServiceParams{
		UserRepo:       factory.userRepo,
		StudentRepo:    factory.studentRepo,
		ConnectionRepo: factory.connectionRepo,
		Logger:         discardLogger(),
	})

	return &profileFixture{service: service, factory: factory}
}

func TestMe(t *testing.T) {
	t.Run("enriches with roster metadata", func(t *testing.T) {
		fix := newProfileFixture()
		user := fix.factory.userRepo.add(&entity.User{Name: "Jane", Email: "jane2027@rishihood.edu.in"})
		fix.factory.studentRepo.add(&entity.Student{
			Email: "jane2027@rishihood.edu.in", Department: "CSE", Year: "2027",
		})

		profile, err := fix.service.Me(context.Background(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, "CSE", profile.Department)
		assert.Equal(t, "2027", profile.Year)
		assert.True(t, profile.IsOwnProfile)
		assert.False(t, profile.IsConnected)
	})

	t.Run("derives the year from the email when the roster has none", func(t *testing.T) {
		fix := newProfileFixture()
		user := fix.factory.userRepo.add(&entity.User{Name: "Jane", Email: "jane2027@rishihood.edu.in"})

		profile, err := fix.service.Me(context.Background(), user.ID)

		require.NoError(t, err)
		assert.Equal(t, entity.MetaNotAvailable, profile.Department)
		assert.Equal(t, "2027", profile.Year)
	})

	t.Run("unknown user", func(t *testing.T) {
		fix := newProfileFixture()

		_, err := fix.service.Me(context.Background(), uuid.New())

		assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
	})
}

func TestYearFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jane2027@rishihood.edu.in", "2027"},
		{"jane.c27@rishihood.edu.in", "2027"},
		{"jane@rishihood.edu.in", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, yearFromEmail(tt.email), tt.email)
	}
}

func TestGetProfile(t *testing.T) {
	fix := newProfileFixture()
	viewer := fix.factory.userRepo.add(&entity.User{Name: "Viewer", Email: "viewer2026@rishihood.edu.in"})
	target := fix.factory.userRepo.add(&entity.User{Name: "Target", Email: "target2027@rishihood.edu.in"})

	first, second := entity.OrderedPair(viewer.ID, target.ID)
	require.NoError(t, fix.factory.connectionRepo.Create(context.Background(), &entity.Connection{
		UserID: first, ConnectedUserID: second,
	}))

	profile, err := fix.service.GetProfile(context.Background(), viewer.ID, target.ID)

	require.NoError(t, err)
	assert.True(t, profile.IsConnected)
	assert.False(t, profile.IsOwnProfile)
	assert.EqualValues(t, 1, profile.ConnectionsCount)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("applies only provided fields", func(t *testing.T) {
		fix := newProfileFixture()
		user := fix.factory.userRepo.add(&entity.User{
			Name: "Jane", Email: "jane2027@rishihood.edu.in", Bio: "old bio",
		})

		bio := "new bio"
		github := "https://github.com/jane"
		profile, err := fix.service.UpdateProfile(context.Background(), user.ID, usecase.UpdateProfileInput{
			Bio:        &bio,
			GithubLink: &github,
		})

		require.NoError(t, err)
		assert.Equal(t, "new bio", profile.Bio)
		assert.Equal(t, "https://github.com/jane", profile.GithubLink)
		assert.Equal(t, "Jane", profile.Name)
	})

	t.Run("rejects an empty update", func(t *testing.T) {
		fix := newProfileFixture()
		user := fix.factory.userRepo.add(&entity.User{Name: "Jane", Email: "jane2027@rishihood.edu.in"})

		_, err := fix.service.UpdateProfile(context.Background(), user.ID, usecase.UpdateProfileInput{})

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	})
}

func TestSearch(t *testing.T) {
	fix := newProfileFixture()
	fix.factory.userRepo.add(&entity.User{Name: "Jane Doe", Email: "jane2027@rishihood.edu.in"})
	fix.factory.userRepo.add(&entity.User{Name: "John Roe", Email: "john2026@rishihood.edu.in"})

	results, err := fix.service.Search(context.Background(), "jane")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Jane Doe", results[0].Name)

	empty, err := fix.service.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
