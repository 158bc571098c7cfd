package service

import (
	"context"
	"testing"
	"time"

	"mangapress/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func newTestChapterService(chapterRepo *memChapterRepo, mangaRepo *memMangaRepo, userRepo *memUserRepo) ChapterService {
	return NewChapterService(chapterRepo, mangaRepo, userRepo, &memNotifRepo{}, testLogger())
}

func futureDate() *time.Time {
	d := time.Now().Add(24 * time.Hour).UTC()
	return &d
}

func pastDate() *time.Time {
	d := time.Now().Add(-24 * time.Hour).UTC()
	return &d
}

func TestGetChapter_FuturePublishDateHiddenFromViewers(t *testing.T) {
	chapterRepo := newMemChapterRepo(&models.Chapter{ID: "c1", MangaID: "m1", Number: 1, PublishDate: futureDate()})
	svc := newTestChapterService(chapterRepo, newMemMangaRepo(), newMemUserRepo())

	ch, err := svc.Get(context.Background(), models.RoleViewer, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, ch)

	// Creators and admins see scheduled chapters.
	ch, err = svc.Get(context.Background(), models.RoleCreator, "c1")
	assert.NoError(t, err)
	assert.Equal(t, "c1", ch.ID)

	ch, err = svc.Get(context.Background(), models.RoleAdmin, "c1")
	assert.NoError(t, err)
	assert.Equal(t, "c1", ch.ID)
}

func TestGetChapter_PastAndUndatedVisibleToEveryone(t *testing.T) {
	chapterRepo := newMemChapterRepo(
		&models.Chapter{ID: "c1", MangaID: "m1", Number: 1, PublishDate: pastDate()},
		&models.Chapter{ID: "c2", MangaID: "m1", Number: 2},
	)
	svc := newTestChapterService(chapterRepo, newMemMangaRepo(), newMemUserRepo())

	for _, id := range []string{"c1", "c2"} {
		ch, err := svc.Get(context.Background(), models.RoleViewer, id)
		assert.NoError(t, err)
		assert.Equal(t, id, ch.ID)
	}
}

func TestListChapters_ViewerOnlySeesPublished(t *testing.T) {
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "creator"})
	chapterRepo := newMemChapterRepo(
		&models.Chapter{ID: "c1", MangaID: "m1", Number: 1, PublishDate: pastDate()},
		&models.Chapter{ID: "c2", MangaID: "m1", Number: 2, PublishDate: futureDate()},
		&models.Chapter{ID: "c3", MangaID: "m1", Number: 3},
	)
	svc := newTestChapterService(chapterRepo, mangaRepo, newMemUserRepo())

	chapters, total, err := svc.List(context.Background(), "m1", models.RoleViewer, 0, 20)
	assert.NoError(t, err)
	assert.True(t, chapterRepo.lastPublishedOnly)
	assert.Equal(t, int64(2), total)
	for _, ch := range chapters {
		assert.NotEqual(t, "c2", ch.ID)
	}

	_, total, err = svc.List(context.Background(), "m1", models.RoleCreator, 0, 20)
	assert.NoError(t, err)
	assert.False(t, chapterRepo.lastPublishedOnly)
	assert.Equal(t, int64(3), total)
}

func TestListChapters_LimitCapped(t *testing.T) {
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "creator"})
	chapterRepo := newMemChapterRepo()
	svc := newTestChapterService(chapterRepo, mangaRepo, newMemUserRepo())

	_, _, err := svc.List(context.Background(), "m1", models.RoleViewer, 0, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 100, chapterRepo.lastLimit)

	// Zero or negative limit falls back to the default page size.
	_, _, err = svc.List(context.Background(), "m1", models.RoleViewer, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, defaultChapterPageSize, chapterRepo.lastLimit)
}

func TestListChapters_UnknownManga(t *testing.T) {
	svc := newTestChapterService(newMemChapterRepo(), newMemMangaRepo(), newMemUserRepo())

	_, _, err := svc.List(context.Background(), "missing", models.RoleViewer, 0, 20)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateChapter_OnlyOwnerOrAdmin(t *testing.T) {
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "owner"})
	chapterRepo := newMemChapterRepo()
	userRepo := newMemUserRepo(&models.User{ID: "owner", Username: "owner"})
	svc := newTestChapterService(chapterRepo, mangaRepo, userRepo)

	ch := &models.Chapter{MangaID: "m1", Number: 1}
	err := svc.Create(context.Background(), "someone-else", models.RoleCreator, ch)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Create(context.Background(), "owner", models.RoleCreator, ch)
	assert.NoError(t, err)
	assert.NotEmpty(t, ch.ID)

	// Admins may manage any manga's chapters.
	ch2 := &models.Chapter{MangaID: "m1", Number: 2}
	err = svc.Create(context.Background(), "some-admin", models.RoleAdmin, ch2)
	assert.NoError(t, err)
}

func TestDeleteChapter_OwnershipEnforced(t *testing.T) {
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "owner"})
	chapterRepo := newMemChapterRepo(&models.Chapter{ID: "c1", MangaID: "m1", Number: 1})
	svc := newTestChapterService(chapterRepo, mangaRepo, newMemUserRepo())

	err := svc.Delete(context.Background(), "intruder", models.RoleCreator, "c1")
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Delete(context.Background(), "owner", models.RoleCreator, "c1")
	assert.NoError(t, err)

	_, err = chapterRepo.FindByID(context.Background(), "c1")
	assert.Error(t, err)
}
