package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mangapress/internal/http-api/models"

	"github.com/redis/go-redis/v9"
)

// MangaCache is a read-through Redis cache for single manga documents.
// Detail reads are by far the hottest query; writes invalidate the key.
type MangaCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMangaCache(client *redis.Client, ttl time.Duration) *MangaCache {
	return &MangaCache{client: client, ttl: ttl}
}

func (c *MangaCache) key(id string) string {
	return fmt.Sprintf("manga:%s", id)
}

// Get returns the cached manga or nil on a miss. Cache errors are
// treated as misses so Redis being down never breaks reads.
func (c *MangaCache) Get(ctx context.Context, id string) *models.Manga {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		return nil
	}
	var m models.Manga
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return &m
}

func (c *MangaCache) Set(ctx context.Context, m *models.Manga) {
	if c == nil || c.client == nil || m == nil {
		return
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(m.ID), raw, c.ttl)
}

func (c *MangaCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(id))
}
