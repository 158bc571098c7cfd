package service

import (
	"context"

	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"
)

type NotificationService interface {
	GetUnread(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID, notificationID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return fromRepoErr(s.repo.MarkAsRead(ctx, userID, notificationID))
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *notificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return fromRepoErr(s.repo.Delete(ctx, userID, notificationID))
}
