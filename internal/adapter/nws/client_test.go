package nws

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-conditions/internal/config"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

const (
	testUserAgent     = "conditions-test/1.0"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var (
	testPoint = domain.Coordinates{Lat: 39.05, Lon: -95.68}
	testNow   = time.Date(2024, time.April, 26, 19, 53, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string, timeout time.Duration, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  testUserAgent,
		clock:      clockwork.NewFakeClockAt(testNow),
		metrics:    metrics,
		logger:     discardLogger(),
	}
}

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "domain", "testdata", "mapclick_topeka.json"))
	require.NoError(t, err)
	return data
}

func TestNewClient(t *testing.T) {
	cfg := &config.Config{
		NWSBaseURL:   "https://forecast.weather.gov/MapClick.php",
		NWSTimeout:   15 * time.Second,
		NWSUserAgent: testUserAgent,
	}

	c := NewClient(cfg, observability.NewMetricsForTesting(), discardLogger())

	assert.Equal(t, 15*time.Second, c.httpClient.Timeout)
	assert.Equal(t, cfg.NWSBaseURL, c.baseURL)
	assert.Equal(t, testUserAgent, c.userAgent)
}

func TestClient_BuildURL(t *testing.T) {
	c := testClient("https://forecast.weather.gov/MapClick.php", time.Second, observability.NewMetricsForTesting())

	got, err := c.buildURL(testPoint)
	require.NoError(t, err)

	stamp := "1714161180000"
	assert.Equal(t, "https://forecast.weather.gov/MapClick.php?FcstType=json&_="+stamp+"&lat=39.05&lon=-95.68&rand="+stamp, got)
}

func TestClient_Fetch_Success(t *testing.T) {
	body := fixture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "39.05", r.URL.Query().Get("lat"))
		assert.Equal(t, "-95.68", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("FcstType"))
		assert.NotEmpty(t, r.URL.Query().Get("rand"))
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, 5*time.Second, metrics)

	raw, err := c.Fetch(context.Background(), testPoint)
	require.NoError(t, err)

	assert.Equal(t, domain.FeedString("Topeka KS"), raw.Location.AreaDescription)
	assert.Equal(t, domain.FeedString("77"), raw.CurrentObservation.Temp)
	assert.Len(t, raw.Time.StartPeriodName, 5)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("success")), 0)
}

func TestClient_Fetch_LogicalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"success":false,"message":"Point outside CONUS"}`))
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, 5*time.Second, metrics)

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLogicalFailure)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("logical_failure")), 0)
}

func TestClient_Fetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, "text/html")
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second, observability.NewMetricsForTesting())

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedBody)
	assert.Equal(t, "Bad response returned from NWS.", domain.UserMessage(err))
}

func TestClient_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream down`))
	}))
	defer srv.Close()

	c := testClient(srv.URL, 5*time.Second, observability.NewMetricsForTesting())

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, 50*time.Millisecond, metrics)

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.Equal(t, "Could not reach NWS servers.", domain.UserMessage(err))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("timeout")), 0)
}

func TestClient_Fetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c := testClient(addr, time.Second, observability.NewMetricsForTesting())

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrTimeout)
}

func TestClient_Fetch_CallerCanceled(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	metrics := observability.NewMetricsForTesting()
	c := testClient(srv.URL, time.Second, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetch(ctx, testPoint)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrTransport)
	assert.NotErrorIs(t, err, domain.ErrTimeout)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchRequests.WithLabelValues("canceled")), 0)
}

func TestClient_Fetch_InvalidBaseURL(t *testing.T) {
	c := testClient("://bad", time.Second, observability.NewMetricsForTesting())

	_, err := c.Fetch(context.Background(), testPoint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build url")
}
