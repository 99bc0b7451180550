package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

func mapClickServer(t *testing.T) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "..", "internal", "domain", "testdata", "mapclick_topeka.json"))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolateMetrics swaps in a fresh default registry so repeated runs do not
// collide on registration.
func isolateMetrics(t *testing.T) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prevReg, prevGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer, prometheus.DefaultGatherer = reg, reg
	t.Cleanup(func() {
		prometheus.DefaultRegisterer, prometheus.DefaultGatherer = prevReg, prevGatherer
	})
}

func TestRun_JSON(t *testing.T) {
	isolateMetrics(t)
	t.Setenv("NWS_BASE_URL", mapClickServer(t).URL)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-lat", "39.05", "-lon", "-95.68"}, &stdout, &stderr))

	var report domain.Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, "Topeka KS", report.Observation.LocationName)
	assert.Equal(t, "S @ 18mph", report.Observation.WindSpeedDir)
	assert.Len(t, report.Days, 5)
	assert.Equal(t, domain.Coordinates{Lat: 39.05, Lon: -95.68}, report.Coordinates)
}

func TestRun_Text(t *testing.T) {
	isolateMetrics(t)
	t.Setenv("NWS_BASE_URL", mapClickServer(t).URL)

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-loc", "39.05,-95.68", "-format", "text"}, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "Topeka KS (39.05,-95.68)")
	assert.Contains(t, stdout.String(), "This Afternoon")
}

func TestRun_DefaultLocation(t *testing.T) {
	isolateMetrics(t)
	t.Setenv("NWS_BASE_URL", mapClickServer(t).URL)
	t.Setenv("DEFAULT_LOCATION", "39.05,-95.68")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &stdout, &stderr))
	assert.Contains(t, stdout.String(), `"locationName": "Topeka KS"`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no location", nil, "pass -lat/-lon"},
		{"bad lat", []string{"-lat", "north", "-lon", "-95"}, "-lat"},
		{"out of range", []string{"-lat", "100", "-lon", "0"}, "latitude"},
		{"bad loc", []string{"-loc", "39.05"}, "lat,lon"},
		{"query without mapbox", []string{"-q", "Topeka"}, "MAPBOX_TOKEN"},
		{"bad format", []string{"-loc", "39,-95", "-format", "xml"}, "unknown -format"},
		{"bad flag", []string{"-nope"}, "nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateMetrics(t)
			t.Setenv("DEFAULT_LOCATION", "")
			t.Setenv("MAPBOX_TOKEN", "")
			t.Setenv("MAPBOX_ENABLED", "")

			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_UpstreamFailure(t *testing.T) {
	isolateMetrics(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	t.Setenv("NWS_BASE_URL", srv.URL)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-loc", "39.05,-95.68"}, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "An error occurred. NWS servers might be down.")
}
