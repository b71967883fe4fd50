package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vnkhanh/wepodcaster-backend/models"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
)

func newUserFixture() (*UserService, *repositories.MemoryUserRepository, *failingPodcastRepo) {
	users := repositories.NewMemoryUserRepository()
	podcasts := &failingPodcastRepo{MemoryPodcastRepository: repositories.NewMemoryPodcastRepository()}
	return NewUserService(users, podcasts, nopLogger()), users, podcasts
}

func TestUserService_GetUserByID(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_1")

	got, err := svc.GetUserByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "user_1@example.com", got.Email)

	_, err = svc.GetUserByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "User not found")
}

func TestUserService_CreateUser_RequiresIdentity(t *testing.T) {
	svc, _, _ := newUserFixture()

	err := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_CreateUser_DuplicateIdentityConflicts(t *testing.T) {
	svc, users, _ := newUserFixture()
	ctx := context.Background()
	in := CreateUserInput{IdentityID: "user_1", Email: "a@example.com"}

	require.NoError(t, svc.CreateUser(ctx, in))
	err := svc.CreateUser(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_UpdateUser_FansOutAuthorImage(t *testing.T) {
	svc, users, podcasts := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_1")
	seedUser(t, users, "user_2")
	mine := []models.Podcast{
		seedPodcast(t, podcasts, "user_1", "a", 1),
		seedPodcast(t, podcasts, "user_1", "b", 2),
		seedPodcast(t, podcasts, "user_1", "c", 3),
	}
	other := seedPodcast(t, podcasts, "user_2", "d", 4)

	err := svc.UpdateUser(ctx, UpdateUserInput{IdentityID: "user_1", ImageURL: "http://img/new.png", Email: "new@example.com"})
	require.NoError(t, err)

	user, err := svc.GetUserByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "http://img/new.png", user.ImageURL)

	for _, p := range mine {
		got, err := podcasts.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "http://img/new.png", got.AuthorImageURL)
	}
	untouched, err := podcasts.FindByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, untouched.AuthorImageURL)
}

func TestUserService_UpdateUser_NotFoundMutatesNothing(t *testing.T) {
	svc, users, podcasts := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_1")
	p := seedPodcast(t, podcasts, "ghost", "orphan", 1)

	err := svc.UpdateUser(ctx, UpdateUserInput{IdentityID: "ghost", ImageURL: "http://img/x.png"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := podcasts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AuthorImageURL)
}

func TestUserService_UpdateUser_FanOutFailureKeepsUserUpdate(t *testing.T) {
	svc, users, podcasts := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_1")
	podcasts.failFanOut = true

	err := svc.UpdateUser(ctx, UpdateUserInput{IdentityID: "user_1", ImageURL: "http://img/new.png", Email: "x@example.com"})
	assert.ErrorIs(t, err, errBoom)

	user, err := svc.GetUserByID(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "http://img/new.png", user.ImageURL)
}

func TestUserService_DeleteUser_LeavesPodcasts(t *testing.T) {
	svc, users, podcasts := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_1")
	p := seedPodcast(t, podcasts, "user_1", "kept", 0)

	require.NoError(t, svc.DeleteUser(ctx, "user_1"))

	_, err := svc.GetUserByID(ctx, "user_1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = podcasts.FindByID(ctx, p.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteUser(ctx, "user_1"), ErrNotFound)
}

func TestUserService_EnsureUser(t *testing.T) {
	svc, _, _ := newUserFixture()
	ctx := context.Background()
	in := CreateUserInput{IdentityID: "g_1", Email: "a@example.com", ImageURL: "http://img/a.png", Name: "Ann"}

	created, err := svc.EnsureUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Ann", created.Name)

	again, err := svc.EnsureUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	in.ImageURL = "http://img/b.png"
	updated, err := svc.EnsureUser(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "http://img/b.png", updated.ImageURL)
}

func TestUserService_GetTopUserByPodcastCount(t *testing.T) {
	svc, users, podcasts := newUserFixture()
	ctx := context.Background()
	seedUser(t, users, "user_b")
	seedUser(t, users, "user_a")
	seedUser(t, users, "user_c")
	seedPodcast(t, podcasts, "user_b", "b100", 100)
	seedPodcast(t, podcasts, "user_a", "a5", 5)
	seedPodcast(t, podcasts, "user_a", "a10", 10)
	seedPodcast(t, podcasts, "user_a", "a2", 2)

	top, err := svc.GetTopUserByPodcastCount(ctx)
	require.NoError(t, err)
	require.Len(t, top, 3)

	assert.Equal(t, "user_a", top[0].IdentityID)
	assert.Equal(t, 3, top[0].TotalPodcasts)
	titles := []string{}
	for _, ref := range top[0].Podcasts {
		titles = append(titles, ref.PodcastTitle)
	}
	assert.Equal(t, []string{"a10", "a5", "a2"}, titles)

	assert.Equal(t, "user_b", top[1].IdentityID)
	assert.Equal(t, "user_c", top[2].IdentityID)
	assert.Equal(t, 0, top[2].TotalPodcasts)
	assert.NotNil(t, top[2].Podcasts)

	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].TotalPodcasts, top[i].TotalPodcasts)
	}
}

func TestRankByPodcastCount_KeepsTieOrder(t *testing.T) {
	in := []models.UserWithPodcasts{
		{User: models.User{IdentityID: "first"}, TotalPodcasts: 1},
		{User: models.User{IdentityID: "big"}, TotalPodcasts: 5},
		{User: models.User{IdentityID: "second"}, TotalPodcasts: 1},
		{User: models.User{IdentityID: "third"}, TotalPodcasts: 1},
	}

	RankByPodcastCount(in)

	ids := []string{}
	for _, u := range in {
		ids = append(ids, u.IdentityID)
	}
	assert.Equal(t, []string{"big", "first", "second", "third"}, ids)
}
