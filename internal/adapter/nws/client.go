package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-data-conditions/internal/config"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

// maxBodyBytes bounds how much of a MapClick body is read.
const maxBodyBytes = 4 << 20

// Client implements domain.Fetcher against the NWS MapClick endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a MapClick client using the configured base URL, timeout,
// and User-Agent.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.NWSTimeout,
		},
		baseURL:   cfg.NWSBaseURL,
		userAgent: cfg.NWSUserAgent,
		clock:     clockwork.NewRealClock(),
		metrics:   metrics,
		logger:    logger,
	}
}

// Fetch requests the JSON point forecast for at.
func (c *Client) Fetch(ctx context.Context, at domain.Coordinates) (domain.RawObservationResponse, error) {
	start := c.clock.Now()
	raw, err := c.fetch(ctx, at)
	c.metrics.FetchDuration.Observe(c.clock.Since(start).Seconds())
	c.metrics.FetchRequests.WithLabelValues(domain.Outcome(err)).Inc()
	if err != nil {
		c.logger.Debug("mapclick fetch failed", "lat", at.Lat, "lon", at.Lon, "error", err)
	}
	return raw, err
}

func (c *Client) fetch(ctx context.Context, at domain.Coordinates) (domain.RawObservationResponse, error) {
	reqURL, err := c.buildURL(at)
	if err != nil {
		return domain.RawObservationResponse{}, fmt.Errorf("build url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.RawObservationResponse{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawObservationResponse{}, classify("mapclick request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.RawObservationResponse{}, fmt.Errorf("%w: status %d: %s", domain.ErrTransport, resp.StatusCode, body)
	}

	var raw domain.RawObservationResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&raw); err != nil {
		if isTimeout(err) {
			return domain.RawObservationResponse{}, fmt.Errorf("%w: read body: %w", domain.ErrTimeout, err)
		}
		return domain.RawObservationResponse{}, fmt.Errorf("%w: decode response: %w", domain.ErrMalformedBody, err)
	}

	if raw.Failed() {
		return domain.RawObservationResponse{}, domain.ErrLogicalFailure
	}
	return raw, nil
}

// buildURL adds the query parameters MapClick expects. rand and _ carry the
// same millisecond timestamp and defeat intermediate caches.
func (c *Client) buildURL(at domain.Coordinates) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	stamp := strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
	query := u.Query()
	query.Set("rand", stamp)
	query.Set("lat", strconv.FormatFloat(at.Lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(at.Lon, 'f', -1, 64))
	query.Set("FcstType", "json")
	query.Set("_", stamp)

	u.RawQuery = query.Encode()
	return u.String(), nil
}

// classify wraps a request error as a timeout or a transport failure.
func classify(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTransport, op, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

var _ domain.Fetcher = (*Client)(nil)
