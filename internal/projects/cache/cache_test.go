package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcos/telescope-api/internal/projects/domain"
)

type countingStore struct {
	projects  map[int64]domain.Project
	listCalls int
	getCalls  int
	err       error
}

func (s *countingStore) List(ctx context.Context) ([]domain.Project, error) {
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Project, 0, len(s.projects))
	for id := int64(1); id <= int64(len(s.projects)); id++ {
		out = append(out, s.projects[id])
	}
	return out, nil
}

func (s *countingStore) Get(ctx context.Context, id int64) (*domain.Project, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())

	return client, mr
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStore() *countingStore {
	return &countingStore{projects: map[int64]domain.Project{
		1: {ID: 1, Title: "Telescope", Languages: []string{"Rust"}, Stack: []string{}, RepositoryURLs: []string{}},
		2: {ID: 2, Title: "Submitty", Languages: []string{}, Stack: []string{}, RepositoryURLs: []string{}},
	}}
}

func TestProjectCache_Get(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := newStore()
	c := New(store, client, time.Minute, quietLogger())
	ctx := context.Background()

	t.Run("miss reads through and populates", func(t *testing.T) {
		p, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Telescope", p.Title)
		assert.Equal(t, 1, store.getCalls)
		assert.True(t, mr.Exists("projects:item:1"))
	})

	t.Run("hit does not touch the store", func(t *testing.T) {
		p, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Telescope", p.Title)
		assert.Equal(t, []string{"Rust"}, p.Languages)
		assert.Equal(t, 1, store.getCalls)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		_, err := c.Get(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, mr.Exists("projects:item:42"))

		_, err = c.Get(ctx, 42)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, 3, store.getCalls)
	})

	t.Run("entries expire after ttl", func(t *testing.T) {
		mr.FastForward(2 * time.Minute)
		_, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 4, store.getCalls)
	})
}

func TestProjectCache_List(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := newStore()
	c := New(store, client, time.Minute, quietLogger())
	ctx := context.Background()

	first, err := c.List(ctx)
	require.NoError(t, err)
	second, err := c.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, second, 2)
	assert.Equal(t, 1, store.listCalls)

	require.NoError(t, c.Invalidate(ctx, 1))
	assert.False(t, mr.Exists("projects:list"))

	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
}

func TestProjectCache_InvalidateServesUpdatedRows(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := newStore()
	c := New(store, client, time.Minute, quietLogger())
	ctx := context.Background()

	before, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, before, 2)
	_, err = c.Get(ctx, 1)
	require.NoError(t, err)

	// rows change underneath the cache
	store.projects[1] = domain.Project{ID: 1, Title: "Telescope v2", Languages: []string{}, Stack: []string{}, RepositoryURLs: []string{}}
	store.projects[3] = domain.Project{ID: 3, Title: "Venue", Languages: []string{}, Stack: []string{}, RepositoryURLs: []string{}}

	stale, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, 2)

	require.NoError(t, c.Invalidate(ctx, 1, 3))

	after, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, 3)
	assert.Equal(t, "Telescope v2", after[0].Title)

	p, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Telescope v2", p.Title)
}

func TestProjectCache_StoreErrorsAreNotCached(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := newStore()
	store.err = errors.New("db down")
	c := New(store, client, time.Minute, quietLogger())

	_, err := c.List(context.Background())
	assert.EqualError(t, err, "db down")
	assert.False(t, mr.Exists("projects:list"))
}

func TestProjectCache_RedisDownFallsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()

	store := newStore()
	c := New(store, client, time.Minute, quietLogger())
	mr.Close()

	p, err := c.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Submitty", p.Title)

	projects, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestProjectCache_CorruptEntryFallsThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	require.NoError(t, mr.Set("projects:item:2", "{not json"))

	store := newStore()
	c := New(store, client, time.Minute, quietLogger())

	p, err := c.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Submitty", p.Title)
	assert.Equal(t, 1, store.getCalls)
}
