package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecodrive-query-api/internal/conversation/repository"
	"ecodrive-query-api/internal/model"
	pkgRedis "ecodrive-query-api/pkg/redis"
)

func connect(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb, err := pkgRedis.Connect(context.Background(), pkgRedis.Config{Addr: addr})
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestStore_RoundTrip(t *testing.T) {
	rdb := connect(t)
	ctx := context.Background()
	prefix := "test:conversation:" + uuid.NewString() + ":"
	s := New(rdb, prefix, time.Minute)

	_, found, err := s.Load(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)

	h := model.History{{Role: model.RoleUser, Content: "¿precio?"}, {Role: model.RoleAssistant, Content: "$299.990 😊"}}
	require.NoError(t, s.Save(ctx, "c1", h))

	got, found, err := s.Load(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, h, got)

	ttl, err := rdb.TTL(ctx, prefix+"c1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	found, err = s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_CorruptPayload(t *testing.T) {
	rdb := connect(t)
	ctx := context.Background()
	prefix := "test:conversation:" + uuid.NewString() + ":"
	s := New(rdb, prefix, time.Minute)

	require.NoError(t, rdb.Set(ctx, prefix+"bad", "not json", time.Minute).Err())
	defer rdb.Del(ctx, prefix+"bad")

	_, _, err := s.Load(ctx, "bad")
	assert.True(t, errors.Is(err, repository.ErrFailedToLoad))
}

func TestStore_Unreachable(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	s := New(rdb, "", 0)

	_, _, err := s.Load(context.Background(), "c1")
	assert.ErrorIs(t, err, repository.ErrFailedToLoad)
	assert.ErrorIs(t, s.Save(context.Background(), "c1", nil), repository.ErrFailedToSave)
	_, err = s.Delete(context.Background(), "c1")
	assert.ErrorIs(t, err, repository.ErrFailedToDelete)
}
