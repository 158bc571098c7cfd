package service

import (
	"context"
	"testing"

	"mangapress/internal/http-api/models"

	"github.com/stretchr/testify/assert"
)

func newTestCoinService(userRepo *memUserRepo, mangaRepo *memMangaRepo) (CoinService, *memTxRepo) {
	txRepo := &memTxRepo{}
	svc := NewCoinService(userRepo, txRepo, newMemEventRepo(), mangaRepo, &memNotifRepo{}, passRunner{}, testLogger())
	return svc, txRepo
}

func TestTip_MovesCoinsAndWritesPairedLedgerRows(t *testing.T) {
	userRepo := newMemUserRepo(
		&models.User{ID: "payer", Username: "payer", Coins: 500},
		&models.User{ID: "creator", Username: "creator", Coins: 0},
	)
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", Title: "One Punch", CreatorID: "creator"})
	svc, txRepo := newTestCoinService(userRepo, mangaRepo)

	err := svc.Tip(context.Background(), "payer", "m1", 200)
	assert.NoError(t, err)

	// Coins are conserved: 500/0 becomes 300/200.
	assert.Equal(t, int64(300), userRepo.balance("payer"))
	assert.Equal(t, int64(200), userRepo.balance("creator"))

	payerRows := txRepo.byUser("payer")
	assert.Len(t, payerRows, 1)
	assert.Equal(t, models.TxTip, payerRows[0].Type)
	assert.Equal(t, int64(-200), payerRows[0].Amount)
	assert.Equal(t, "creator", payerRows[0].CounterpartyID)
	assert.Equal(t, "m1", payerRows[0].MangaID)

	creatorRows := txRepo.byUser("creator")
	assert.Len(t, creatorRows, 1)
	assert.Equal(t, models.TxTipReceived, creatorRows[0].Type)
	assert.Equal(t, int64(200), creatorRows[0].Amount)
	assert.Equal(t, "payer", creatorRows[0].CounterpartyID)
}

func TestTip_InsufficientFunds(t *testing.T) {
	userRepo := newMemUserRepo(
		&models.User{ID: "payer", Username: "payer", Coins: 50},
		&models.User{ID: "creator", Username: "creator", Coins: 10},
	)
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "creator"})
	svc, txRepo := newTestCoinService(userRepo, mangaRepo)

	err := svc.Tip(context.Background(), "payer", "m1", 200)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing moved, nothing logged.
	assert.Equal(t, int64(50), userRepo.balance("payer"))
	assert.Equal(t, int64(10), userRepo.balance("creator"))
	assert.Empty(t, txRepo.byUser("payer"))
	assert.Empty(t, txRepo.byUser("creator"))
}

func TestTip_NonPositiveAmount(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "payer", Coins: 500})
	svc, _ := newTestCoinService(userRepo, newMemMangaRepo())

	assert.ErrorIs(t, svc.Tip(context.Background(), "payer", "m1", 0), ErrInvalidAmount)
	assert.ErrorIs(t, svc.Tip(context.Background(), "payer", "m1", -10), ErrInvalidAmount)
}

func TestTip_OwnManga(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "creator", Coins: 500})
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "creator"})
	svc, _ := newTestCoinService(userRepo, mangaRepo)

	err := svc.Tip(context.Background(), "creator", "m1", 100)
	assert.ErrorIs(t, err, ErrSelfTip)
	assert.Equal(t, int64(500), userRepo.balance("creator"))
}

func TestTip_UnknownManga(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "payer", Coins: 500})
	svc, _ := newTestCoinService(userRepo, newMemMangaRepo())

	err := svc.Tip(context.Background(), "payer", "missing", 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreditPurchase_CreditsOncePerEvent(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "buyer", Coins: 0})
	svc, txRepo := newTestCoinService(userRepo, newMemMangaRepo())

	err := svc.CreditPurchase(context.Background(), "buyer", 500, "evt_1")
	assert.NoError(t, err)
	assert.Equal(t, int64(500), userRepo.balance("buyer"))

	// A replayed delivery of the same event changes nothing.
	err = svc.CreditPurchase(context.Background(), "buyer", 500, "evt_1")
	assert.ErrorIs(t, err, ErrEventProcessed)
	assert.Equal(t, int64(500), userRepo.balance("buyer"))
	assert.Len(t, txRepo.byUser("buyer"), 1)

	// A different event credits again.
	err = svc.CreditPurchase(context.Background(), "buyer", 300, "evt_2")
	assert.NoError(t, err)
	assert.Equal(t, int64(800), userRepo.balance("buyer"))
	assert.Len(t, txRepo.byUser("buyer"), 2)
}

func TestCreditPurchase_InvalidAmount(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "buyer"})
	svc, _ := newTestCoinService(userRepo, newMemMangaRepo())

	assert.ErrorIs(t, svc.CreditPurchase(context.Background(), "buyer", 0, "evt_1"), ErrInvalidAmount)
}

func TestAdjust_NegativeDeltaBoundedByZero(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "u1", Coins: 100})
	svc, txRepo := newTestCoinService(userRepo, newMemMangaRepo())

	err := svc.Adjust(context.Background(), "admin", "u1", -300)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(100), userRepo.balance("u1"))
	assert.Empty(t, txRepo.byUser("u1"))

	err = svc.Adjust(context.Background(), "admin", "u1", -100)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), userRepo.balance("u1"))

	rows := txRepo.byUser("u1")
	assert.Len(t, rows, 1)
	assert.Equal(t, models.TxAdminAdjust, rows[0].Type)
	assert.Equal(t, int64(-100), rows[0].Amount)
	assert.Equal(t, "admin", rows[0].CounterpartyID)
}

func TestAdjust_ZeroDelta(t *testing.T) {
	userRepo := newMemUserRepo(&models.User{ID: "u1", Coins: 100})
	svc, _ := newTestCoinService(userRepo, newMemMangaRepo())

	assert.ErrorIs(t, svc.Adjust(context.Background(), "admin", "u1", 0), ErrInvalidAmount)
}

func TestBalanceOf_UnknownUser(t *testing.T) {
	svc, _ := newTestCoinService(newMemUserRepo(), newMemMangaRepo())

	_, err := svc.BalanceOf(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistory_ReturnsOnlyOwnRows(t *testing.T) {
	userRepo := newMemUserRepo(
		&models.User{ID: "a", Coins: 500},
		&models.User{ID: "b", Coins: 0},
	)
	mangaRepo := newMemMangaRepo(&models.Manga{ID: "m1", CreatorID: "b"})
	svc, _ := newTestCoinService(userRepo, mangaRepo)

	assert.NoError(t, svc.Tip(context.Background(), "a", "m1", 100))

	rows, total, err := svc.History(context.Background(), "a", 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].UserID)
}
