package breach

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisKeyPrefix = "breach:range:"

// RedisConfig holds connection settings for the Redis cache backend.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries" split_words:"true"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" split_words:"true"`
	PoolSize     int           `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int           `mapstructure:"min_idle_conns" split_words:"true"`
}

// RedisCache is a Cache backed by Redis, for deployments running several
// instances that should share one breach cache. TTL enforcement is
// delegated to Redis key expiry, so Get never returns an expired entry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg RedisConfig, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = cfg.MaxRetries
	opts.MinRetryBackoff = cfg.RetryBackoff
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, prefix string) (Entry, bool) {
	payload, err := c.client.Get(ctx, redisKeyPrefix+normalizePrefix(prefix)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("breach cache read failed")
		}
		return Entry{}, false
	}

	var entry Entry
	if err := json.Unmarshal(payload, &entry); err != nil {
		// A corrupt entry is treated as a miss and overwritten by the
		// next fetch.
		log.Warn().Err(err).Msg("discarding corrupt breach cache entry")
		return Entry{}, false
	}
	return entry, true
}

func (c *RedisCache) Put(ctx context.Context, prefix string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	return c.client.Set(ctx, redisKeyPrefix+normalizePrefix(prefix), payload, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
