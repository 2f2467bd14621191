package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dthaibinhF/chemist-FE-sub000/config"
)

// Client wraps the redis connection. Used for the schedule fetch cache
// and request rate limiting; callers must tolerate a nil *Client and
// degrade to pass-through.
type Client struct {
	rdb      *goredis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewClient connects to redis and pings it once.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, cacheTTL: cfg.CacheTTL, logger: logger}, nil
}

// ── Schedule fetch cache ──
//
// Cached schedule lists are keyed by a filter fingerprint plus a
// version counter. Writes bump the version instead of enumerating
// keys, so stale entries simply age out on TTL.

const (
	cachePrefix     = "schedules:list:"
	cacheVersionKey = "schedules:version"
)

// CacheVersion returns the current schedule cache version. Missing key
// counts as version 0.
func (c *Client) CacheVersion(ctx context.Context) int64 {
	n, err := c.rdb.Get(ctx, cacheVersionKey).Int64()
	if err != nil {
		return 0
	}
	return n
}

// BumpCacheVersion invalidates every cached schedule list by moving the
// version forward.
func (c *Client) BumpCacheVersion(ctx context.Context) {
	if err := c.rdb.Incr(ctx, cacheVersionKey).Err(); err != nil {
		c.logger.Warn("bump schedule cache version failed", zap.Error(err))
	}
}

// GetScheduleList returns the cached payload for a filter fingerprint,
// or ok=false on miss or error.
func (c *Client) GetScheduleList(ctx context.Context, fingerprint string) ([]byte, bool) {
	key := fmt.Sprintf("%s%d:%s", cachePrefix, c.CacheVersion(ctx), fingerprint)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetScheduleList caches a schedule list payload under the current
// version. Failures are logged and ignored; the cache is advisory.
func (c *Client) SetScheduleList(ctx context.Context, fingerprint string, payload []byte) {
	key := fmt.Sprintf("%s%d:%s", cachePrefix, c.CacheVersion(ctx), fingerprint)
	if err := c.rdb.Set(ctx, key, payload, c.cacheTTL).Err(); err != nil {
		c.logger.Warn("cache schedule list failed", zap.Error(err))
	}
}

// ── Rate limiting ──

// CheckRateLimit implements a fixed-window counter: at most limit
// requests per window for the given key.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(limit), nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
