package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"BreakoutRadar/internal/model"
)

// GuardOptions configures Guarded.
type GuardOptions struct {
	RequestsPerSecond float64 // <= 0 disables throttling
	Burst             int
	TripAfter         uint32        // consecutive failures that open the breaker
	Cooldown          time.Duration // time the breaker stays open
}

// DefaultGuardOptions suits the public Yahoo endpoint.
func DefaultGuardOptions() GuardOptions {
	return GuardOptions{RequestsPerSecond: 2, Burst: 2, TripAfter: 5, Cooldown: 30 * time.Second}
}

// Guarded wraps a Fetcher with a token bucket and a circuit breaker so a
// provider outage fails the remaining symbols fast instead of waiting out
// every timeout.
type Guarded struct {
	next    Fetcher
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuarded wraps next.
func NewGuarded(next Fetcher, opts GuardOptions) *Guarded {
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	tripAfter := opts.TripAfter
	if tripAfter == 0 {
		tripAfter = 5
	}

	st := gobreaker.Settings{
		Name:    next.Name(),
		Timeout: opts.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= tripAfter
		},
		// Bad payloads, unknown symbols and per-symbol timeouts say nothing
		// about provider health.
		IsSuccessful: func(err error) bool {
			return !errors.Is(err, ErrUpstream)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("fetcher", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &Guarded{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}
}

func (g *Guarded) Name() string { return g.next.Name() }

// FetchDailyHistory waits for a token, then calls through the breaker.
func (g *Guarded) FetchDailyHistory(ctx context.Context, symbol string, period model.Period) ([]model.OHLCV, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	out, err := g.breaker.Execute(func() (interface{}, error) {
		return g.next.FetchDailyHistory(ctx, symbol, period)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.OHLCV), nil
}
