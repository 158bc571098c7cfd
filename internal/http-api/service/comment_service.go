package service

import (
	"context"
	"time"

	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"

	"github.com/google/uuid"
)

type CommentService interface {
	Create(ctx context.Context, userID, mangaID, content string) (*models.Comment, error)
	Update(ctx context.Context, callerID, commentID, content string) (*models.Comment, error)
	// Delete removes a comment. Owners may delete their own; admins may
	// delete any.
	Delete(ctx context.Context, callerID string, callerRole models.Role, commentID string) error
	ListByManga(ctx context.Context, mangaID string, offset, limit int) ([]models.Comment, int64, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	mangaRepo   repository.MangaRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	mangaRepo repository.MangaRepository,
	userRepo repository.UserRepository,
) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		mangaRepo:   mangaRepo,
		userRepo:    userRepo,
	}
}

func (s *commentService) Create(ctx context.Context, userID, mangaID, content string) (*models.Comment, error) {
	if _, err := s.mangaRepo.FindByID(ctx, mangaID); err != nil {
		return nil, fromRepoErr(err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fromRepoErr(err)
	}

	now := time.Now().UTC()
	comment := &models.Comment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Username:  user.Username,
		MangaID:   mangaID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, callerID, commentID, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	if comment.UserID != callerID {
		return nil, ErrForbidden
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fromRepoErr(err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, callerID string, callerRole models.Role, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return fromRepoErr(err)
	}
	if comment.UserID != callerID && !callerRole.MeetsMinimum(models.RoleAdmin) {
		return ErrForbidden
	}
	return fromRepoErr(s.commentRepo.Delete(ctx, commentID))
}

func (s *commentService) ListByManga(ctx context.Context, mangaID string, offset, limit int) ([]models.Comment, int64, error) {
	if _, err := s.mangaRepo.FindByID(ctx, mangaID); err != nil {
		return nil, 0, fromRepoErr(err)
	}
	return s.commentRepo.ListByManga(ctx, mangaID, offset, limit)
}
