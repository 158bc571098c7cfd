package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"mangapress/internal/http-api/dto"
	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"

	"github.com/google/uuid"
)

type MangaService interface {
	Create(ctx context.Context, creatorID string, m *models.Manga) error
	// Get returns the manga and bumps its view counter.
	Get(ctx context.Context, id string) (*models.Manga, error)
	List(ctx context.Context, offset, limit int) ([]models.Manga, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]models.Manga, int64, error)
	Update(ctx context.Context, callerID string, callerRole models.Role, id string, req *dto.UpdateMangaRequest) (*models.Manga, error)
	Delete(ctx context.Context, callerID string, callerRole models.Role, id string) error
	Like(ctx context.Context, id string) error
}

type mangaService struct {
	repo        repository.MangaRepository
	chapterRepo repository.ChapterRepository
	cache       *repository.MangaCache
}

func NewMangaService(repo repository.MangaRepository, chapterRepo repository.ChapterRepository, cache *repository.MangaCache) MangaService {
	return &mangaService{repo: repo, chapterRepo: chapterRepo, cache: cache}
}

func (s *mangaService) Create(ctx context.Context, creatorID string, m *models.Manga) error {
	m.Title = strings.TrimSpace(m.Title)
	if m.Title == "" {
		return errors.New("title is required")
	}

	now := time.Now().UTC()
	m.ID = uuid.New().String()
	m.CreatorID = creatorID
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.repo.Create(ctx, m)
}

func (s *mangaService) Get(ctx context.Context, id string) (*models.Manga, error) {
	if cached := s.cache.Get(ctx, id); cached != nil {
		// view counter still advances; the cached copy just lags it
		_ = s.repo.IncrementViews(ctx, id)
		return cached, nil
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoErr(err)
	}

	// best-effort: a lost view increment is not worth failing the read
	_ = s.repo.IncrementViews(ctx, id)
	s.cache.Set(ctx, m)
	return m, nil
}

func (s *mangaService) List(ctx context.Context, offset, limit int) ([]models.Manga, int64, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *mangaService) Search(ctx context.Context, query string, offset, limit int) ([]models.Manga, int64, error) {
	return s.repo.SearchByTitle(ctx, query, offset, limit)
}

// Update applies the provided fields. Only the owning creator or an
// admin may modify a manga.
func (s *mangaService) Update(ctx context.Context, callerID string, callerRole models.Role, id string, req *dto.UpdateMangaRequest) (*models.Manga, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	if existing.CreatorID != callerID && !callerRole.MeetsMinimum(models.RoleAdmin) {
		return nil, ErrForbidden
	}

	req.ApplyTo(existing)
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fromRepoErr(err)
	}
	s.cache.Invalidate(ctx, id)
	return existing, nil
}

// Delete removes the manga and its chapters.
func (s *mangaService) Delete(ctx context.Context, callerID string, callerRole models.Role, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fromRepoErr(err)
	}
	if existing.CreatorID != callerID && !callerRole.MeetsMinimum(models.RoleAdmin) {
		return ErrForbidden
	}

	if err := s.chapterRepo.DeleteByManga(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepoErr(err)
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *mangaService) Like(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fromRepoErr(err)
	}
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}
