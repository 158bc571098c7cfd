package service

import (
	"context"
	"testing"

	"mangapress/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func newTestUserService(users ...*models.User) (UserService, *memUserRepo, *memNotifRepo) {
	repo := newMemUserRepo(users...)
	notifRepo := &memNotifRepo{}
	return NewUserService(repo, notifRepo, passRunner{}, testLogger()), repo, notifRepo
}

func TestFollow_UpdatesBothSides(t *testing.T) {
	svc, repo, _ := newTestUserService(
		&models.User{ID: "a", Username: "alice"},
		&models.User{ID: "b", Username: "bob"},
	)

	err := svc.Follow(context.Background(), "a", "b")
	assert.NoError(t, err)

	a, _ := repo.FindByID(context.Background(), "a")
	b, _ := repo.FindByID(context.Background(), "b")
	assert.Contains(t, a.Following, "b")
	assert.Contains(t, b.Followers, "a")
}

func TestFollow_Self(t *testing.T) {
	svc, _, _ := newTestUserService(&models.User{ID: "a"})

	assert.ErrorIs(t, svc.Follow(context.Background(), "a", "a"), ErrSelfFollow)
}

func TestFollow_UnknownTarget(t *testing.T) {
	svc, _, _ := newTestUserService(&models.User{ID: "a"})

	assert.ErrorIs(t, svc.Follow(context.Background(), "a", "ghost"), ErrNotFound)
}

func TestFollow_Idempotent(t *testing.T) {
	svc, repo, _ := newTestUserService(
		&models.User{ID: "a", Username: "alice"},
		&models.User{ID: "b", Username: "bob"},
	)

	assert.NoError(t, svc.Follow(context.Background(), "a", "b"))
	assert.NoError(t, svc.Follow(context.Background(), "a", "b"))

	b, _ := repo.FindByID(context.Background(), "b")
	assert.Len(t, b.Followers, 1)
}

func TestUnfollow_RemovesBothSides(t *testing.T) {
	svc, repo, _ := newTestUserService(
		&models.User{ID: "a", Username: "alice", Following: []string{"b"}},
		&models.User{ID: "b", Username: "bob", Followers: []string{"a"}},
	)

	err := svc.Unfollow(context.Background(), "a", "b")
	assert.NoError(t, err)

	a, _ := repo.FindByID(context.Background(), "a")
	b, _ := repo.FindByID(context.Background(), "b")
	assert.NotContains(t, a.Following, "b")
	assert.NotContains(t, b.Followers, "a")
}

func TestFollowersAndFollowing(t *testing.T) {
	svc, _, _ := newTestUserService(
		&models.User{ID: "a", Username: "alice", Following: []string{"b"}},
		&models.User{ID: "b", Username: "bob", Followers: []string{"a"}},
	)

	followers, err := svc.Followers(context.Background(), "b")
	assert.NoError(t, err)
	assert.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := svc.Following(context.Background(), "a")
	assert.NoError(t, err)
	assert.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)
}

func TestSetRole_AllowsDowngrade(t *testing.T) {
	svc, repo, _ := newTestUserService(&models.User{ID: "a", Role: models.RoleAdmin})

	err := svc.SetRole(context.Background(), "a", models.RoleViewer)
	assert.NoError(t, err)

	a, _ := repo.FindByID(context.Background(), "a")
	assert.Equal(t, models.RoleViewer, a.Role)
}

func TestSetRole_UnknownUser(t *testing.T) {
	svc, _, _ := newTestUserService()

	assert.ErrorIs(t, svc.SetRole(context.Background(), "ghost", models.RoleCreator), ErrNotFound)
}

func TestSetVerified(t *testing.T) {
	svc, repo, _ := newTestUserService(&models.User{ID: "a"})

	assert.NoError(t, svc.SetVerified(context.Background(), "a", true))
	a, _ := repo.FindByID(context.Background(), "a")
	assert.True(t, a.IsVerified)

	assert.NoError(t, svc.SetVerified(context.Background(), "a", false))
	a, _ = repo.FindByID(context.Background(), "a")
	assert.False(t, a.IsVerified)
}

func TestUpdateNickname(t *testing.T) {
	svc, repo, _ := newTestUserService(&models.User{ID: "a", Username: "alice"})

	assert.NoError(t, svc.UpdateNickname(context.Background(), "a", "Allie"))

	a, _ := repo.FindByID(context.Background(), "a")
	assert.Equal(t, "Allie", a.Nickname)
}
