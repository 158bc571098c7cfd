package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"

	"github.com/google/uuid"
)

var ErrSelfFollow = errors.New("cannot follow yourself")

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateNickname(ctx context.Context, userID, nickname string) error
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
	Followers(ctx context.Context, userID string) ([]models.User, error)
	Following(ctx context.Context, userID string) ([]models.User, error)

	// Admin operations
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
	SetVerified(ctx context.Context, userID string, verified bool) error
}

type userService struct {
	userRepo  repository.UserRepository
	notifRepo repository.NotificationRepository
	runner    repository.TxRunner
	logger    *slog.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	runner repository.TxRunner,
	logger *slog.Logger,
) UserService {
	return &userService{
		userRepo:  userRepo,
		notifRepo: notifRepo,
		runner:    runner,
		logger:    logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return user, nil
}

func (s *userService) UpdateNickname(ctx context.Context, userID, nickname string) error {
	return fromRepoErr(s.userRepo.UpdateNickname(ctx, userID, nickname))
}

func (s *userService) Follow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return fromRepoErr(err)
	}
	follower, err := s.userRepo.FindByID(ctx, followerID)
	if err != nil {
		return fromRepoErr(err)
	}
	alreadyFollowing := follower.IsFollowing(targetID)

	// Both sides of the edge commit together.
	err = s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.AddFollow(ctx, followerID, targetID)
	})
	if err != nil {
		return fromRepoErr(err)
	}

	if !alreadyFollowing {
		go func() {
			notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			notification := &models.Notification{
				ID:        uuid.New().String(),
				UserID:    target.ID,
				Type:      "NEW_FOLLOWER",
				Message:   fmt.Sprintf("%s started following you", follower.Username),
				CreatedAt: time.Now().UTC(),
			}
			if err := s.notifRepo.Create(notifyCtx, notification); err != nil {
				s.logger.Warn("failed to create follower notification", "user_id", target.ID, "error", err)
			}
		}()
	}
	return nil
}

func (s *userService) Unfollow(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrSelfFollow
	}
	if _, err := s.userRepo.FindByID(ctx, targetID); err != nil {
		return fromRepoErr(err)
	}

	err := s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.RemoveFollow(ctx, followerID, targetID)
	})
	return fromRepoErr(err)
}

func (s *userService) Followers(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return s.userRepo.FindByIDs(ctx, user.Followers)
}

func (s *userService) Following(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fromRepoErr(err)
	}
	return s.userRepo.FindByIDs(ctx, user.Following)
}

func (s *userService) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// SetRole assigns any of the three roles, including downgrades. The
// role order is an authorization lattice, not a state machine.
func (s *userService) SetRole(ctx context.Context, userID string, role models.Role) error {
	if !role.Valid() {
		return errors.New("invalid role")
	}
	return fromRepoErr(s.userRepo.SetRole(ctx, userID, role))
}

func (s *userService) SetVerified(ctx context.Context, userID string, verified bool) error {
	return fromRepoErr(s.userRepo.SetVerified(ctx, userID, verified))
}
