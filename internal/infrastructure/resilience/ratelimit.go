package resilience

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by every caller of one dependency.
type RateLimiter struct {
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimiter allows rps calls per second with the given burst. A
// non-positive rps disables limiting; a non-positive burst equals rps.
func NewRateLimiter(rps float64, burst int, logger *slog.Logger) *RateLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	if rps <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0), logger: logger}
	}
	if burst <= 0 {
		burst = int(rps)
		if burst < 1 {
			burst = 1
		}
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		r.logger.Warn("rate_limit_wait_failed", "error", err)
		return err
	}
	return nil
}

func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
