package helper

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	"cinema_reservation/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const movieCacheVersionKey = "cache:movies:version"

// MovieCache keeps rendered movie list responses in redis. Writes bump a
// version counter so every cached page is invalidated at once. A nil redis
// client disables caching.
type MovieCache struct {
	rdb *redis.Client
	ttl time.Duration
}

var MovieListCache = NewMovieCache(nil, 0)

func NewMovieCache(rdb *redis.Client, ttl time.Duration) *MovieCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &MovieCache{rdb: rdb, ttl: ttl}
}

func (m *MovieCache) Enabled() bool {
	return m != nil && m.rdb != nil
}

func (m *MovieCache) key(ctx context.Context, query string) (string, error) {
	version, err := m.rdb.Get(ctx, movieCacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("cache:movies:v%d:%x", version, sum[:]), nil
}

func (m *MovieCache) Get(ctx context.Context, query string) ([]byte, bool) {
	if !m.Enabled() {
		return nil, false
	}
	key, err := m.key(ctx, query)
	if err != nil {
		logger.Log.Warn("movie cache key", zap.Error(err))
		return nil, false
	}
	body, err := m.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("movie cache get", zap.Error(err))
		}
		return nil, false
	}
	return body, true
}

func (m *MovieCache) Set(ctx context.Context, query string, body []byte) {
	if !m.Enabled() {
		return
	}
	key, err := m.key(ctx, query)
	if err != nil {
		logger.Log.Warn("movie cache key", zap.Error(err))
		return
	}
	if err := m.rdb.SetEx(ctx, key, body, m.ttl).Err(); err != nil {
		logger.Log.Warn("movie cache set", zap.Error(err))
	}
}

func (m *MovieCache) Invalidate(ctx context.Context) {
	if !m.Enabled() {
		return
	}
	if err := m.rdb.Incr(ctx, movieCacheVersionKey).Err(); err != nil {
		logger.Log.Warn("movie cache invalidate", zap.Error(err))
	}
}
