// Command snapshot fetches the current conditions and forecast for one point
// and prints them.
//
// Usage:
//
//	go run ./cmd/snapshot -lat 39.05 -lon -95.68
//	go run ./cmd/snapshot -loc 39.05,-95.68 -format text
//	MAPBOX_TOKEN=... go run ./cmd/snapshot -q "Topeka, KS"
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/couchcryptid/storm-data-conditions/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-data-conditions/internal/adapter/nws"
	"github.com/couchcryptid/storm-data-conditions/internal/adapter/render"
	"github.com/couchcryptid/storm-data-conditions/internal/config"
	"github.com/couchcryptid/storm-data-conditions/internal/domain"
	"github.com/couchcryptid/storm-data-conditions/internal/observability"
	"github.com/couchcryptid/storm-data-conditions/internal/pipeline"
)

type options struct {
	lat, lon string
	loc      string
	query    string
	format   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	metrics := observability.NewMetrics()

	provider, err := opts.provider(cfg, metrics, logger)
	if err != nil {
		return err
	}
	renderer, err := rendererFor(opts.format)
	if err != nil {
		return err
	}

	p := pipeline.New(nws.NewClient(cfg, metrics, logger), nil, logger, metrics)
	report, err := p.ConditionsFor(ctx, provider)
	if err != nil {
		return fmt.Errorf("%s (%w)", domain.UserMessage(err), err)
	}
	return renderer.Render(stdout, report)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.lat, "lat", "", "latitude in decimal degrees")
	fs.StringVar(&opts.lon, "lon", "", "longitude in decimal degrees")
	fs.StringVar(&opts.loc, "loc", "", `point as "lat,lon"`)
	fs.StringVar(&opts.query, "q", "", "place to geocode (requires MAPBOX_TOKEN)")
	fs.StringVar(&opts.format, "format", "json", "output format: json or text")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// provider picks the location source. Flags win over DEFAULT_LOCATION.
func (o options) provider(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (domain.LocationProvider, error) {
	switch {
	case o.lat != "" || o.lon != "":
		lat, err := strconv.ParseFloat(o.lat, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: -lat %q", domain.ErrInvalidCoordinates, o.lat)
		}
		lon, err := strconv.ParseFloat(o.lon, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: -lon %q", domain.ErrInvalidCoordinates, o.lon)
		}
		at := domain.Coordinates{Lat: lat, Lon: lon}
		if err := at.Validate(); err != nil {
			return nil, err
		}
		return domain.StaticLocation(at), nil
	case o.loc != "":
		at, err := domain.ParseCoordinates(o.loc)
		if err != nil {
			return nil, err
		}
		return domain.StaticLocation(at), nil
	case o.query != "":
		if !cfg.MapboxEnabled {
			return nil, fmt.Errorf("%w: -q requires MAPBOX_TOKEN", domain.ErrLocationUnavailable)
		}
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		return mapbox.NewPlaceLocator(client, o.query), nil
	case cfg.DefaultLocation != nil:
		return domain.StaticLocation(*cfg.DefaultLocation), nil
	default:
		return nil, fmt.Errorf("%w: pass -lat/-lon, -loc, or -q", domain.ErrInvalidCoordinates)
	}
}

func rendererFor(format string) (render.Renderer, error) {
	switch format {
	case "json":
		return render.JSON{}, nil
	case "text":
		return render.Text{}, nil
	default:
		return nil, fmt.Errorf("unknown -format %q", format)
	}
}
