package memory

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"ecodrive-query-api/internal/conversation/repository"
	"ecodrive-query-api/internal/model"
)

const (
	DefaultMaxEntries = 10000
	DefaultTTL        = 24 * time.Hour
)

type implStore struct {
	lru *expirable.LRU[string, model.History]
}

// New creates an in-process store. Entries expire ttl after their last save and
// the least recently used ones are evicted beyond maxEntries.
func New(maxEntries int, ttl time.Duration) repository.Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &implStore{
		lru: expirable.NewLRU[string, model.History](maxEntries, nil, ttl),
	}
}

func (s *implStore) Load(_ context.Context, id string) (model.History, bool, error) {
	h, ok := s.lru.Get(id)
	if !ok {
		return nil, false, nil
	}
	return h.Clone(), true, nil
}

func (s *implStore) Save(_ context.Context, id string, h model.History) error {
	s.lru.Add(id, h.Clone())
	return nil
}

func (s *implStore) Delete(_ context.Context, id string) (bool, error) {
	return s.lru.Remove(id), nil
}
