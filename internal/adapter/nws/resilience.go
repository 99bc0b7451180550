package nws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

// RateLimitedFetcher waits on a token bucket before forwarding each fetch, so a
// burst of page loads cannot flood the NWS servers.
type RateLimitedFetcher struct {
	inner   domain.Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows rps fetches per second with the given burst.
func NewRateLimitedFetcher(inner domain.Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimitedFetcher) Fetch(ctx context.Context, at domain.Coordinates) (domain.RawObservationResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return domain.RawObservationResponse{}, fmt.Errorf("rate limit wait: %w", ctx.Err())
		}
		// Wait fails early when the next token would arrive after the deadline.
		return domain.RawObservationResponse{}, fmt.Errorf("%w: rate limit wait: %w", domain.ErrTimeout, err)
	}
	return r.inner.Fetch(ctx, at)
}

// CheckReadiness reports the readiness of the wrapped fetcher.
func (r *RateLimitedFetcher) CheckReadiness(ctx context.Context) error {
	return domain.FetcherReadiness(ctx, r.inner)
}

// BreakerFetcher stops calling the NWS after repeated transport failures and
// fails fast until the breaker half-opens. Malformed and logical-failure
// responses prove the upstream is reachable and do not count against it.
type BreakerFetcher struct {
	inner domain.Fetcher
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerFetcher opens after five consecutive transport failures and probes
// again after openFor.
func NewBreakerFetcher(inner domain.Fetcher, openFor time.Duration, logger *slog.Logger) *BreakerFetcher {
	settings := gobreaker.Settings{
		Name:        "nws-mapclick",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &BreakerFetcher{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *BreakerFetcher) Fetch(ctx context.Context, at domain.Coordinates) (domain.RawObservationResponse, error) {
	var reachable error
	result, err := b.cb.Execute(func() (any, error) {
		raw, err := b.inner.Fetch(ctx, at)
		if err != nil && !tripsBreaker(ctx, err) {
			reachable = err
			return nil, nil
		}
		return raw, err
	})
	if reachable != nil {
		return domain.RawObservationResponse{}, reachable
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.RawObservationResponse{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return domain.RawObservationResponse{}, err
	}

	raw, ok := result.(domain.RawObservationResponse)
	if !ok {
		return domain.RawObservationResponse{}, fmt.Errorf("unexpected result type %T from circuit breaker", result)
	}
	return raw, nil
}

// CheckReadiness fails while the breaker is open. A half-open breaker is ready
// so the trial request can get through.
func (b *BreakerFetcher) CheckReadiness(_ context.Context) error {
	if b.cb.State() == gobreaker.StateOpen {
		return errors.New("nws circuit breaker is open")
	}
	return nil
}

// tripsBreaker reports whether err says the upstream is unhealthy. Well-formed
// failure responses do not count, nor does a request the caller gave up on.
func tripsBreaker(ctx context.Context, err error) bool {
	switch {
	case errors.Is(err, domain.ErrMalformedBody),
		errors.Is(err, domain.ErrLogicalFailure),
		errors.Is(err, context.Canceled):
		return false
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil:
		return false
	default:
		return true
	}
}

var (
	_ domain.Fetcher = (*RateLimitedFetcher)(nil)
	_ domain.Fetcher = (*BreakerFetcher)(nil)
)
