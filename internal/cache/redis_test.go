package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisAddr(t *testing.T) string {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis tests")
	}
	return addr
}

func TestConnectRedis_Unreachable(t *testing.T) {
	_, err := ConnectRedis("127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func TestDisconnectRedis_Nil(t *testing.T) {
	assert.NoError(t, DisconnectRedis(nil))
}

func TestRedisBlobCache_RoundTrip(t *testing.T) {
	rdb, err := ConnectRedis(redisAddr(t), "", 0)
	require.NoError(t, err)
	defer DisconnectRedis(rdb)

	ctx := context.Background()
	c := NewRedisBlobCache(rdb, "test:blob:", time.Minute)
	defer rdb.Del(ctx, "test:blob:k1")

	_, ok := c.Get(ctx, "k1")
	assert.False(t, ok)

	c.Set(ctx, "k1", &Blob{ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 0}})
	got, ok := c.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G', 0}, got.Data)

	ttl := rdb.TTL(ctx, "test:blob:k1").Val()
	assert.Greater(t, ttl, time.Duration(0))
}
