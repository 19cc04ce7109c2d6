package middleware

import (
	"ecodrive-query-api/config"
	"ecodrive-query-api/internal/metrics"
	"ecodrive-query-api/pkg/log"
)

type Middleware struct {
	l       log.Logger
	limiter *rateLimiter
	metrics *metrics.Metrics
}

// New builds the shared middleware set. A disabled rate limit config leaves RateLimit a no-op.
func New(l log.Logger, rl config.RateLimitConfig, m *metrics.Metrics) Middleware {
	mw := Middleware{
		l:       l,
		metrics: m,
	}
	if rl.Enabled && rl.RequestsPerMin > 0 {
		mw.limiter = newRateLimiter(rl.RequestsPerMin)
	}
	return mw
}
