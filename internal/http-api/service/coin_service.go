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

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSelfTip           = errors.New("cannot tip your own manga")
	ErrEventProcessed    = errors.New("event already processed")
)

// CoinService owns every balance mutation. Each one commits in a single
// MongoDB transaction together with its ledger append, so the stored
// balance and the transaction log cannot drift apart, and a crash
// mid-operation leaves neither half applied.
type CoinService interface {
	BalanceOf(ctx context.Context, userID string) (int64, error)
	// CreditPurchase credits coins bought through the payment provider.
	// eventID is the provider's event id; a replayed delivery returns
	// ErrEventProcessed and credits nothing.
	CreditPurchase(ctx context.Context, userID string, amount int64, eventID string) error
	// Tip moves amount coins from the payer to the creator of the given
	// manga, writing paired tip / tip-received ledger rows.
	Tip(ctx context.Context, payerID, mangaID string, amount int64) error
	// Adjust applies a signed admin adjustment; a negative delta is
	// still bounded below by a zero balance.
	Adjust(ctx context.Context, adminID, userID string, delta int64) error
	History(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, int64, error)
}

type coinService struct {
	userRepo  repository.UserRepository
	txRepo    repository.TransactionRepository
	eventRepo repository.ProcessedEventRepository
	mangaRepo repository.MangaRepository
	notifRepo repository.NotificationRepository
	runner    repository.TxRunner
	logger    *slog.Logger
}

func NewCoinService(
	userRepo repository.UserRepository,
	txRepo repository.TransactionRepository,
	eventRepo repository.ProcessedEventRepository,
	mangaRepo repository.MangaRepository,
	notifRepo repository.NotificationRepository,
	runner repository.TxRunner,
	logger *slog.Logger,
) CoinService {
	return &coinService{
		userRepo:  userRepo,
		txRepo:    txRepo,
		eventRepo: eventRepo,
		mangaRepo: mangaRepo,
		notifRepo: notifRepo,
		runner:    runner,
		logger:    logger,
	}
}

func (s *coinService) BalanceOf(ctx context.Context, userID string) (int64, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return 0, fromRepoErr(err)
	}
	return user.Coins, nil
}

func (s *coinService) CreditPurchase(ctx context.Context, userID string, amount int64, eventID string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return fromRepoErr(err)
	}

	err := s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		// Claim the event id first. Inside the transaction the claim and
		// the credit commit together, so a redelivered webhook either
		// sees the duplicate key or nothing at all.
		if err := s.eventRepo.MarkProcessed(ctx, eventID); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrEventProcessed
			}
			return err
		}
		if err := s.userRepo.IncrementCoins(ctx, userID, amount); err != nil {
			return fromRepoErr(err)
		}
		return s.txRepo.Insert(ctx, &models.Transaction{
			ID:        uuid.New().String(),
			UserID:    userID,
			Type:      models.TxPurchase,
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		})
	})
	return err
}

func (s *coinService) Tip(ctx context.Context, payerID, mangaID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	manga, err := s.mangaRepo.FindByID(ctx, mangaID)
	if err != nil {
		return fromRepoErr(err)
	}
	creatorID := manga.CreatorID
	if creatorID == payerID {
		return ErrSelfTip
	}
	if _, err := s.userRepo.FindByID(ctx, creatorID); err != nil {
		return fromRepoErr(err)
	}

	now := time.Now().UTC()
	err = s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.userRepo.DecrementCoins(ctx, payerID, amount); err != nil {
			if errors.Is(err, repository.ErrInsufficientFunds) {
				return ErrInsufficientFunds
			}
			return err
		}
		if err := s.userRepo.IncrementCoins(ctx, creatorID, amount); err != nil {
			return fromRepoErr(err)
		}
		if err := s.txRepo.Insert(ctx, &models.Transaction{
			ID:             uuid.New().String(),
			UserID:         payerID,
			Type:           models.TxTip,
			Amount:         -amount,
			CounterpartyID: creatorID,
			MangaID:        mangaID,
			CreatedAt:      now,
		}); err != nil {
			return err
		}
		return s.txRepo.Insert(ctx, &models.Transaction{
			ID:             uuid.New().String(),
			UserID:         creatorID,
			Type:           models.TxTipReceived,
			Amount:         amount,
			CounterpartyID: payerID,
			MangaID:        mangaID,
			CreatedAt:      now,
		})
	})
	if err != nil {
		return err
	}

	// Notify the creator, best-effort: the tip has already committed.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		notification := &models.Notification{
			ID:        uuid.New().String(),
			UserID:    creatorID,
			Type:      "TIP_RECEIVED",
			MangaID:   mangaID,
			Message:   fmt.Sprintf("You received a %d coin tip for %s", amount, manga.Title),
			CreatedAt: time.Now().UTC(),
		}
		if err := s.notifRepo.Create(notifyCtx, notification); err != nil {
			s.logger.Warn("failed to create tip notification", "creator_id", creatorID, "error", err)
		}
	}()

	return nil
}

func (s *coinService) Adjust(ctx context.Context, adminID, userID string, delta int64) error {
	if delta == 0 {
		return ErrInvalidAmount
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return fromRepoErr(err)
	}

	return s.runner.WithTransaction(ctx, func(ctx context.Context) error {
		if delta > 0 {
			if err := s.userRepo.IncrementCoins(ctx, userID, delta); err != nil {
				return fromRepoErr(err)
			}
		} else {
			if err := s.userRepo.DecrementCoins(ctx, userID, -delta); err != nil {
				if errors.Is(err, repository.ErrInsufficientFunds) {
					return ErrInsufficientFunds
				}
				return err
			}
		}
		return s.txRepo.Insert(ctx, &models.Transaction{
			ID:             uuid.New().String(),
			UserID:         userID,
			Type:           models.TxAdminAdjust,
			Amount:         delta,
			CounterpartyID: adminID,
			CreatedAt:      time.Now().UTC(),
		})
	})
}

func (s *coinService) History(ctx context.Context, userID string, offset, limit int) ([]models.Transaction, int64, error) {
	return s.txRepo.ListByUser(ctx, userID, offset, limit)
}
