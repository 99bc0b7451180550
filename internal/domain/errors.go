package domain

import (
	"context"
	"errors"
	"fmt"
)

// Fetch and location failures. Adapters wrap these so callers can classify an
// error with errors.Is regardless of which collaborator produced it.
var (
	ErrTransport           = errors.New("nws transport error")
	ErrTimeout             = errors.New("nws request timed out")
	ErrMalformedBody       = errors.New("nws response body malformed")
	ErrLogicalFailure      = errors.New("nws response reported failure")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// MisalignedForecastError reports forecast arrays of unequal length. The
// extractor truncates to Shortest; this error exists so callers can log it.
type MisalignedForecastError struct {
	Lengths  map[string]int
	Shortest int
}

func (e *MisalignedForecastError) Error() string {
	return fmt.Sprintf("forecast arrays misaligned: lengths %v, truncated to %d", e.Lengths, e.Shortest)
}

// UserMessage maps an error from the fetch or location collaborators to the
// message shown to an end user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocationUnavailable):
		return "Could not get your current location."
	case errors.Is(err, ErrInvalidCoordinates):
		return "Invalid location coordinates."
	case errors.Is(err, ErrTimeout):
		return "Could not reach NWS servers."
	case errors.Is(err, ErrMalformedBody), errors.Is(err, ErrLogicalFailure):
		return "Bad response returned from NWS."
	case errors.Is(err, ErrTransport):
		return "An error occurred. NWS servers might be down."
	default:
		return "Could not fetch weather from NOAA."
	}
}

// Outcome returns a short label for err, suitable as a metric label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrMalformedBody):
		return "malformed"
	case errors.Is(err, ErrLogicalFailure):
		return "logical_failure"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
