package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-data-conditions/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-data-conditions/internal/adapter/render"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// withRequestID tags the request with the caller's X-Request-ID, or a fresh
// UUID, and echoes it on the response.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) handleConditionsAPI(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	provider, err := s.locate(r, false)
	if err != nil {
		s.fail(w, r, err, start, func(status int) {
			sharedobs.WriteJSON(w, status, map[string]string{"error": domain.UserMessage(err)})
		})
		return
	}

	report, err := s.deps.Service.ConditionsFor(r.Context(), provider)
	if err != nil {
		s.fail(w, r, err, start, func(status int) {
			sharedobs.WriteJSON(w, status, map[string]string{"error": domain.UserMessage(err)})
		})
		return
	}

	s.serve(w, r, render.JSON{}, report, "json", start)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	retry := r.URL.RequestURI()
	provider, err := s.locate(r, true)
	if err != nil {
		s.fail(w, r, err, start, func(status int) { writeErrorPage(w, status, domain.UserMessage(err), retry) })
		return
	}

	report, err := s.deps.Service.ConditionsFor(r.Context(), provider)
	if err != nil {
		s.fail(w, r, err, start, func(status int) { writeErrorPage(w, status, domain.UserMessage(err), retry) })
		return
	}

	s.serve(w, r, render.HTML{}, report, "html", start)
}

// locate picks the location source from the query: lat and lon, loc=lat,lon,
// or q=<place>. With none given, the page falls back to the default location.
func (s *Server) locate(r *http.Request, useDefault bool) (domain.LocationProvider, error) {
	q := r.URL.Query()
	lat, lon := q.Get("lat"), q.Get("lon")

	switch {
	case lat != "" || lon != "":
		if lat == "" || lon == "" {
			return nil, fmt.Errorf("%w: lat and lon must be given together", domain.ErrInvalidCoordinates)
		}
		at, err := domain.ParseCoordinates(lat + "," + lon)
		if err != nil {
			return nil, err
		}
		return domain.StaticLocation(at), nil
	case q.Get("loc") != "":
		at, err := domain.ParseCoordinates(q.Get("loc"))
		if err != nil {
			return nil, err
		}
		return domain.StaticLocation(at), nil
	case q.Get("q") != "":
		if s.deps.Geocoder == nil {
			return nil, fmt.Errorf("%w: place search is disabled", domain.ErrLocationUnavailable)
		}
		return mapbox.NewPlaceLocator(s.deps.Geocoder, q.Get("q")), nil
	case useDefault && s.deps.DefaultLocation != nil:
		return domain.StaticLocation(*s.deps.DefaultLocation), nil
	default:
		return nil, fmt.Errorf("%w: no location given", domain.ErrInvalidCoordinates)
	}
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrLocationUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrTransport),
		errors.Is(err, domain.ErrMalformedBody),
		errors.Is(err, domain.ErrLogicalFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, start time.Time, write func(status int)) {
	status := statusFor(err)
	level := s.logger.Warn
	if status >= http.StatusInternalServerError {
		level = s.logger.Error
	}
	level("conditions request failed",
		"request_id", requestID(r.Context()),
		"path", r.URL.Path,
		"query", r.URL.RawQuery,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err,
	)
	write(status)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, renderer render.Renderer, report domain.Report, format string, start time.Time) {
	var buf bytes.Buffer
	if err := renderer.Render(&buf, report); err != nil {
		s.fail(w, r, err, start, func(status int) {
			http.Error(w, http.StatusText(status), status)
		})
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	s.deps.Metrics.ReportsServed.WithLabelValues(format).Inc()
	s.logger.Info("conditions served",
		"request_id", requestID(r.Context()),
		"format", format,
		"location", report.Coordinates.String(),
		"periods", len(report.Days),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func writeErrorPage(w http.ResponseWriter, status int, message, retryURL string) {
	var buf bytes.Buffer
	if err := render.ErrorPage(&buf, message, retryURL); err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", render.HTML{}.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
