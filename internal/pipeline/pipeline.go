package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
)

// Publisher ships a finished report downstream, e.g. to Kafka.
type Publisher interface {
	Publish(ctx context.Context, report domain.Report) error
}

// Pipeline turns a point into a display-ready report: fetch, normalize the
// current observation, extract the forecast days, and optionally publish.
type Pipeline struct {
	fetcher   domain.Fetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. Pass a nil publisher to disable snapshot publishing.
func New(fetcher domain.Fetcher, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the pipeline can take requests. It is ready
// once wired, unless the fetch chain is refusing calls (an open breaker).
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return domain.FetcherReadiness(ctx, p.fetcher)
}

// ConditionsFor resolves the provider's location and builds its report.
func (p *Pipeline) ConditionsFor(ctx context.Context, provider domain.LocationProvider) (domain.Report, error) {
	at, err := provider.Locate(ctx)
	if err != nil {
		p.logger.Warn("locate failed", "error", err)
		return domain.Report{}, err
	}
	return p.Conditions(ctx, at)
}

// Conditions fetches and normalizes the feed for at. Fetch errors are returned
// unchanged so callers can map them with domain.UserMessage.
func (p *Pipeline) Conditions(ctx context.Context, at domain.Coordinates) (domain.Report, error) {
	if err := at.Validate(); err != nil {
		return domain.Report{}, err
	}

	raw, err := p.fetcher.Fetch(ctx, at)
	if err != nil {
		p.logger.Warn("fetch conditions failed",
			"lat", at.Lat,
			"lon", at.Lon,
			"outcome", domain.Outcome(err),
			"error", err,
		)
		return domain.Report{}, err
	}

	if err := domain.CheckForecastAlignment(raw); err != nil {
		var mis *domain.MisalignedForecastError
		if errors.As(err, &mis) {
			p.logger.Warn("forecast arrays misaligned, truncating",
				"lengths", mis.Lengths,
				"periods", mis.Shortest,
				"location", at.String(),
			)
		}
		p.metrics.ForecastMisaligned.Inc()
	}

	for _, f := range domain.DegradedFields(raw) {
		p.metrics.ObservationDegraded.WithLabelValues(f).Inc()
	}

	report := domain.Report{
		Observation: domain.NormalizeObservation(raw),
		Days:        domain.ExtractForecasts(raw),
		Coordinates: at,
		FetchedAt:   clock.Now().UTC(),
	}

	p.publish(ctx, report)
	return report, nil
}

// publish sends the report to the publisher, if any. Failures are logged and
// counted; they never fail the request.
func (p *Pipeline) publish(ctx context.Context, report domain.Report) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, report); err != nil {
		p.logger.Error("publish snapshot failed", "location", report.Coordinates.String(), "error", err)
		p.metrics.SnapshotsPublished.WithLabelValues("error").Inc()
		return
	}
	p.metrics.SnapshotsPublished.WithLabelValues("success").Inc()
}
