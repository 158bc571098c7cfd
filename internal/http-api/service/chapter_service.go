package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"

	"github.com/google/uuid"
)

const (
	defaultChapterPageSize = 20
	maxChapterPageSize     = 100
)

type ChapterService interface {
	Create(ctx context.Context, callerID string, callerRole models.Role, ch *models.Chapter) error
	// Get returns a chapter. Future-dated chapters are reported as not
	// found to callers below creator role so their existence leaks
	// nothing.
	Get(ctx context.Context, callerRole models.Role, chapterID string) (*models.Chapter, error)
	// List returns a page of a manga's chapters, newest number first.
	// Callers below creator role only see published chapters. The limit
	// is capped at 100 regardless of what was requested.
	List(ctx context.Context, mangaID string, callerRole models.Role, offset, limit int) ([]models.Chapter, int64, error)
	Update(ctx context.Context, callerID string, callerRole models.Role, chapterID string, req *dto.UpdateChapterRequest) (*models.Chapter, error)
	Delete(ctx context.Context, callerID string, callerRole models.Role, chapterID string) error
}

type chapterService struct {
	repo      repository.ChapterRepository
	mangaRepo repository.MangaRepository
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	logger    *slog.Logger
}

func NewChapterService(
	repo repository.ChapterRepository,
	mangaRepo repository.MangaRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	logger *slog.Logger,
) ChapterService {
	return &chapterService{
		repo:      repo,
		mangaRepo: mangaRepo,
		userRepo:  userRepo,
		notifRepo: notifRepo,
		logger:    logger,
	}
}

// ownedManga loads the manga and checks the caller may modify its
// chapters: the owning creator or an admin.
func (s *chapterService) ownedManga(ctx context.Context, callerID string, callerRole models.Role, mangaID string) (*models.Manga, error) {
	manga, err := s.mangaRepo.FindByID(ctx, mangaID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	if manga.CreatorID != callerID && !callerRole.MeetsMinimum(models.RoleAdmin) {
		return nil, ErrForbidden
	}
	return manga, nil
}

func (s *chapterService) Create(ctx context.Context, callerID string, callerRole models.Role, ch *models.Chapter) error {
	manga, err := s.ownedManga(ctx, callerID, callerRole, ch.MangaID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	ch.ID = uuid.New().String()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	if err := s.repo.Create(ctx, ch); err != nil {
		return err
	}

	// Tell the creator's followers about an immediately published
	// chapter. Scheduled chapters stay quiet until someone reads them.
	if ch.PublishedAt(now) {
		go s.notifyFollowers(manga, ch)
	}
	return nil
}

func (s *chapterService) notifyFollowers(manga *models.Manga, ch *models.Chapter) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	creator, err := s.userRepo.FindByID(ctx, manga.CreatorID)
	if err != nil {
		s.logger.Warn("new chapter notification skipped", "manga_id", manga.ID, "error", err)
		return
	}

	message := fmt.Sprintf("Chapter %g of %s is out", ch.Number, manga.Title)
	for _, followerID := range creator.Followers {
		notification := &models.Notification{
			ID:        uuid.New().String(),
			UserID:    followerID,
			Type:      "NEW_CHAPTER",
			MangaID:   manga.ID,
			Message:   message,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.notifRepo.Create(ctx, notification); err != nil {
			s.logger.Warn("failed to notify follower", "follower_id", followerID, "error", err)
		}
	}
}

func (s *chapterService) Get(ctx context.Context, callerRole models.Role, chapterID string) (*models.Chapter, error) {
	ch, err := s.repo.FindByID(ctx, chapterID)
	if err != nil {
		return nil, fromRepoErr(err)
	}

	if !ch.PublishedAt(time.Now().UTC()) && !callerRole.MeetsMinimum(models.RoleCreator) {
		return nil, ErrNotFound
	}

	_ = s.repo.IncrementViews(ctx, chapterID)
	return ch, nil
}

func (s *chapterService) List(ctx context.Context, mangaID string, callerRole models.Role, offset, limit int) ([]models.Chapter, int64, error) {
	if _, err := s.mangaRepo.FindByID(ctx, mangaID); err != nil {
		return nil, 0, fromRepoErr(err)
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultChapterPageSize
	}
	if limit > maxChapterPageSize {
		limit = maxChapterPageSize
	}

	publishedOnly := !callerRole.MeetsMinimum(models.RoleCreator)
	return s.repo.ListByManga(ctx, mangaID, publishedOnly, time.Now().UTC(), offset, limit)
}

func (s *chapterService) Update(ctx context.Context, callerID string, callerRole models.Role, chapterID string, req *dto.UpdateChapterRequest) (*models.Chapter, error) {
	ch, err := s.repo.FindByID(ctx, chapterID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	if _, err := s.ownedManga(ctx, callerID, callerRole, ch.MangaID); err != nil {
		return nil, err
	}

	req.ApplyTo(ch)
	if err := s.repo.Update(ctx, ch); err != nil {
		return nil, fromRepoErr(err)
	}
	return ch, nil
}

func (s *chapterService) Delete(ctx context.Context, callerID string, callerRole models.Role, chapterID string) error {
	ch, err := s.repo.FindByID(ctx, chapterID)
	if err != nil {
		return fromRepoErr(err)
	}
	if _, err := s.ownedManga(ctx, callerID, callerRole, ch.MangaID); err != nil {
		return err
	}
	return fromRepoErr(s.repo.Delete(ctx, chapterID))
}
