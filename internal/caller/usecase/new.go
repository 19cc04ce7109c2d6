package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"

	"ecodrive-query-api/internal/caller"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/pkg/crm"
	pkgLog "ecodrive-query-api/pkg/log"
)

const (
	LogPrefixLookup = "internal.caller.usecase.Lookup"

	defaultNumCounters = 1e5
	defaultMaxCost     = 1e4 // one unit per profile
	defaultBufferItems = 64
)

// Directory fetches CRM records by phone. *crm.Client implements it.
type Directory interface {
	GetUserByPhone(ctx context.Context, phone string) (crm.User, error)
}

type implUseCase struct {
	directory Directory
	cache     *ristretto.Cache
	ttl       time.Duration
	metrics   *metrics.Metrics
	l         pkgLog.Logger
}

// New creates the caller use case. A zero ttl disables the profile cache.
func New(directory Directory, ttl time.Duration, m *metrics.Metrics, l pkgLog.Logger) (caller.UseCase, error) {
	uc := &implUseCase{
		directory: directory,
		ttl:       ttl,
		metrics:   m,
		l:         l,
	}
	if ttl <= 0 {
		return uc, nil
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: defaultNumCounters,
		MaxCost:     defaultMaxCost,
		BufferItems: defaultBufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("caller: create profile cache: %w", err)
	}
	uc.cache = cache
	return uc, nil
}
