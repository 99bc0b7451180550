package domain

import "context"

// Fetcher retrieves the raw MapClick response for a point. Errors wrap one of
// ErrTransport, ErrTimeout, ErrMalformedBody, or ErrLogicalFailure. Fetchers do
// not retry.
type Fetcher interface {
	Fetch(ctx context.Context, at Coordinates) (RawObservationResponse, error)
}

// readinessChecker is implemented by fetchers that can refuse traffic, such as
// a circuit breaker that is open.
type readinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// FetcherReadiness asks f whether it can take requests. Fetchers with no
// opinion are always ready.
func FetcherReadiness(ctx context.Context, f Fetcher) error {
	if rc, ok := f.(readinessChecker); ok {
		return rc.CheckReadiness(ctx)
	}
	return nil
}
