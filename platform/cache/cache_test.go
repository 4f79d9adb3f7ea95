package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisFromClient(client, "qr:"), mr
}

func TestRedisGetSet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte{0x89, 'P', 'N', 'G'}, time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, val)

	assert.True(t, mr.Exists("qr:k"))
	assert.Equal(t, time.Minute, mr.TTL("qr:k"))
}

func TestRedisExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisUnavailable(t *testing.T) {
	c, mr := setupTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a", "bc"), Key("a", "bc"))
	assert.NotEqual(t, Key("a", "bc"), Key("ab", "c"))
	assert.Len(t, Key("x"), 64)
}

type fakeRedisConfig struct{ url string }

func (f fakeRedisConfig) GetRedisURL() string       { return f.url }
func (f fakeRedisConfig) GetRedisTLSInsecure() bool { return false }

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewRedis(context.Background(), fakeRedisConfig{url: "redis://" + mr.Addr()}, "")
	require.NoError(t, err)
	defer c.Close()

	_, err = NewRedis(context.Background(), fakeRedisConfig{url: "://bad"}, "")
	assert.Error(t, err)
}
