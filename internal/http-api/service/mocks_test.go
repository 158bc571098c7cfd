package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"mangapress/internal/http-api/models"
	"mangapress/internal/http-api/repository"
)

// In-memory repository fakes shared by the service tests. They mimic
// the MongoDB implementations closely enough to exercise the service
// logic, including the balance floor in DecrementCoins and the
// duplicate-key behavior of MarkProcessed.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) List(_ context.Context, offset, limit int) ([]models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) UpdateNickname(_ context.Context, id, nickname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Nickname = nickname
	return nil
}

func (r *memUserRepo) SetRole(_ context.Context, id string, role models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *memUserRepo) SetVerified(_ context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = verified
	return nil
}

func (r *memUserRepo) IncrementCoins(_ context.Context, id string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Coins += amount
	return nil
}

func (r *memUserRepo) DecrementCoins(_ context.Context, id string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if u.Coins < amount {
		return repository.ErrInsufficientFunds
	}
	u.Coins -= amount
	return nil
}

func (r *memUserRepo) AddFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok := r.users[followerID]
	followee, ok2 := r.users[followeeID]
	if !ok || !ok2 {
		return repository.ErrNotFound
	}
	follower.Following = appendUnique(follower.Following, followeeID)
	followee.Followers = appendUnique(followee.Followers, followerID)
	return nil
}

func (r *memUserRepo) RemoveFollow(_ context.Context, followerID, followeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok := r.users[followerID]
	followee, ok2 := r.users[followeeID]
	if !ok || !ok2 {
		return repository.ErrNotFound
	}
	follower.Following = remove(follower.Following, followeeID)
	followee.Followers = remove(followee.Followers, followerID)
	return nil
}

func (r *memUserRepo) balance(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id].Coins
}

func appendUnique(s []string, v string) []string {
	for _, e := range s {
		if e == v {
			return s
		}
	}
	return append(s, v)
}

func remove(s []string, v string) []string {
	out := s[:0]
	for _, e := range s {
		if e != v {
			out = append(out, e)
		}
	}
	return out
}

type memTxRepo struct {
	mu   sync.Mutex
	rows []models.Transaction
}

func (r *memTxRepo) Insert(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *tx)
	return nil
}

func (r *memTxRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]models.Transaction, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, total, nil
}

func (r *memTxRepo) byUser(userID string) []models.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out
}

type memEventRepo struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemEventRepo() *memEventRepo {
	return &memEventRepo{seen: make(map[string]bool)}
}

func (r *memEventRepo) MarkProcessed(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[eventID] {
		return repository.ErrDuplicate
	}
	r.seen[eventID] = true
	return nil
}

type memMangaRepo struct {
	mu     sync.Mutex
	mangas map[string]*models.Manga
}

func newMemMangaRepo(mangas ...*models.Manga) *memMangaRepo {
	r := &memMangaRepo{mangas: make(map[string]*models.Manga)}
	for _, m := range mangas {
		cp := *m
		r.mangas[m.ID] = &cp
	}
	return r
}

func (r *memMangaRepo) Create(_ context.Context, m *models.Manga) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.mangas[m.ID] = &cp
	return nil
}

func (r *memMangaRepo) FindByID(_ context.Context, id string) (*models.Manga, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.mangas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMangaRepo) List(_ context.Context, offset, limit int) ([]models.Manga, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Manga, 0, len(r.mangas))
	for _, m := range r.mangas {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *memMangaRepo) SearchByTitle(_ context.Context, title string, offset, limit int) ([]models.Manga, int64, error) {
	return r.List(nil, offset, limit)
}

func (r *memMangaRepo) Update(_ context.Context, m *models.Manga) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mangas[m.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *m
	r.mangas[m.ID] = &cp
	return nil
}

func (r *memMangaRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.mangas[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.mangas, id)
	return nil
}

func (r *memMangaRepo) IncrementViews(_ context.Context, id string) error { return nil }
func (r *memMangaRepo) IncrementLikes(_ context.Context, id string) error { return nil }

type memNotifRepo struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (r *memNotifRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotifRepo) GetUnreadByUser(_ context.Context, userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Notification
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memNotifRepo) MarkAsRead(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == notificationID && r.rows[i].UserID == userID {
			r.rows[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memNotifRepo) MarkAllAsRead(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].Read = true
		}
	}
	return nil
}

func (r *memNotifRepo) Delete(_ context.Context, userID, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == notificationID && r.rows[i].UserID == userID {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// passRunner runs the transaction body directly; the fakes have no
// real transaction to join.
type passRunner struct{}

func (passRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memChapterRepo struct {
	mu       sync.Mutex
	chapters map[string]*models.Chapter

	// arguments of the last ListByManga call
	lastPublishedOnly bool
	lastLimit         int
}

func newMemChapterRepo(chapters ...*models.Chapter) *memChapterRepo {
	r := &memChapterRepo{chapters: make(map[string]*models.Chapter)}
	for _, ch := range chapters {
		cp := *ch
		r.chapters[ch.ID] = &cp
	}
	return r
}

func (r *memChapterRepo) Create(_ context.Context, ch *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *ch
	r.chapters[ch.ID] = &cp
	return nil
}

func (r *memChapterRepo) FindByID(_ context.Context, id string) (*models.Chapter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.chapters[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (r *memChapterRepo) ListByManga(_ context.Context, mangaID string, publishedOnly bool, now time.Time, offset, limit int) ([]models.Chapter, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastPublishedOnly = publishedOnly
	r.lastLimit = limit

	var out []models.Chapter
	for _, ch := range r.chapters {
		if ch.MangaID != mangaID {
			continue
		}
		if publishedOnly && !ch.PublishedAt(now) {
			continue
		}
		out = append(out, *ch)
	}
	return out, int64(len(out)), nil
}

func (r *memChapterRepo) Update(_ context.Context, ch *models.Chapter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[ch.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *ch
	r.chapters[ch.ID] = &cp
	return nil
}

func (r *memChapterRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chapters[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.chapters, id)
	return nil
}

func (r *memChapterRepo) DeleteByManga(_ context.Context, mangaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.chapters {
		if ch.MangaID == mangaID {
			delete(r.chapters, id)
		}
	}
	return nil
}

func (r *memChapterRepo) IncrementViews(_ context.Context, id string) error { return nil }
