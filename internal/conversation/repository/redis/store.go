package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"ecodrive-query-api/internal/conversation/repository"
	"ecodrive-query-api/internal/model"
)

const (
	DefaultKeyPrefix = "ecodrive:conversation:"
	DefaultTTL       = 24 * time.Hour
)

type implStore struct {
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

// New creates a Redis backed store. Every save rewrites the key with SET EX ttl.
func New(rdb goredis.UniversalClient, prefix string, ttl time.Duration) repository.Store {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &implStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *implStore) key(id string) string {
	return s.prefix + id
}

func (s *implStore) Load(ctx context.Context, id string) (model.History, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", repository.ErrFailedToLoad, err)
	}

	var h model.History
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, false, fmt.Errorf("%w: decode %s: %w", repository.ErrFailedToLoad, id, err)
	}
	return h, true, nil
}

func (s *implStore) Save(ctx context.Context, id string, h model.History) error {
	if h == nil {
		h = model.History{}
	}
	raw, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", repository.ErrFailedToSave, err)
	}
	if err := s.rdb.Set(ctx, s.key(id), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrFailedToSave, err)
	}
	return nil
}

func (s *implStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.rdb.Del(ctx, s.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %w", repository.ErrFailedToDelete, err)
	}
	return n > 0, nil
}
