package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rcos/telescope-api/internal/projects/domain"
	"github.com/rcos/telescope-api/internal/projects/service"
)

const (
	listKey        = "projects:list"  // JSON array of every project
	itemKeyPrefix  = "projects:item:" // JSON project: projects:item:{project_id}
	defaultItemTTL = 30 * time.Second
)

// ProjectCache is a read-through redis cache in front of another Store.
// Misses and redis failures fall through to the wrapped store; not-found results
// are never cached.
type ProjectCache struct {
	next   service.Store
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// New wraps next with a redis-backed cache. A non-positive ttl uses the default.
func New(next service.Store, client *redis.Client, ttl time.Duration, log *slog.Logger) *ProjectCache {
	if ttl <= 0 {
		ttl = defaultItemTTL
	}
	if log == nil {
		log = slog.Default()
	}
	return &ProjectCache{next: next, client: client, ttl: ttl, log: log}
}

func (c *ProjectCache) List(ctx context.Context) ([]domain.Project, error) {
	var cached []domain.Project
	if c.lookup(ctx, listKey, &cached) {
		return cached, nil
	}

	projects, err := c.next.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, listKey, projects)
	return projects, nil
}

func (c *ProjectCache) Get(ctx context.Context, id int64) (*domain.Project, error) {
	key := itemKey(id)

	var cached domain.Project
	if c.lookup(ctx, key, &cached) {
		cached.Normalize()
		return &cached, nil
	}

	p, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

// Invalidate drops every cached entry for the given projects plus the list.
func (c *ProjectCache) Invalidate(ctx context.Context, ids ...int64) error {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, listKey)
	for _, id := range ids {
		keys = append(keys, itemKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate project cache: %w", err)
	}
	return nil
}

func (c *ProjectCache) lookup(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.WarnContext(ctx, "project cache read failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.WarnContext(ctx, "project cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (c *ProjectCache) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		c.log.WarnContext(ctx, "failed to marshal project cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WarnContext(ctx, "project cache write failed", "key", key, "error", err)
	}
}

func itemKey(id int64) string {
	return itemKeyPrefix + strconv.FormatInt(id, 10)
}
