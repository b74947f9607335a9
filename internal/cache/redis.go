package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/logging"
)

// ConnectRedis initializes and returns a Redis client instance.
func ConnectRedis(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := rdb.Ping(ctx).Result()
	if err != nil {
		// Close the client if ping fails
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	logging.Infof("connected to Redis at %s (db %d)", addr, db)
	return rdb, nil
}

// DisconnectRedis closes the Redis client connection.
func DisconnectRedis(client *redis.Client) error {
	if client == nil {
		return nil
	}
	if err := client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	logging.Infof("Redis connection closed")
	return nil
}

// Blob is a cached response body with its content type.
type Blob struct {
	ContentType string
	Data        []byte
}

// BlobCache stores small binary responses.
type BlobCache interface {
	Get(ctx context.Context, key string) (*Blob, bool)
	Set(ctx context.Context, key string, blob *Blob)
}

// RedisBlobCache keeps blobs in a redis hash with a TTL. Errors are logged
// and treated as misses.
type RedisBlobCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisBlobCache(rdb *redis.Client, prefix string, ttl time.Duration) *RedisBlobCache {
	return &RedisBlobCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *RedisBlobCache) Get(ctx context.Context, key string) (*Blob, bool) {
	fields, err := c.rdb.HGetAll(ctx, c.prefix+key).Result()
	if err != nil {
		logging.Warnf("blob cache get %s: %v", key, err)
		return nil, false
	}
	data, ok := fields["data"]
	if !ok {
		return nil, false
	}
	return &Blob{ContentType: fields["type"], Data: []byte(data)}, true
}

func (c *RedisBlobCache) Set(ctx context.Context, key string, blob *Blob) {
	full := c.prefix + key
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, full, "type", blob.ContentType, "data", blob.Data)
		pipe.Expire(ctx, full, c.ttl)
		return nil
	})
	if err != nil {
		logging.Warnf("blob cache set %s: %v", key, err)
	}
}
