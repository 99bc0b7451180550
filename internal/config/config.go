package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-data-conditions/internal/domain"
)

const defaultNWSBaseURL = "https://forecast.weather.gov/MapClick.php"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// NWS MapClick fetch configuration.
	NWSBaseURL   string
	NWSTimeout   time.Duration
	NWSUserAgent string
	NWSCacheSize int
	NWSCacheTTL  time.Duration
	NWSRateLimit float64
	// NWSBreakerOpen is how long the circuit breaker stays open before probing.
	NWSBreakerOpen time.Duration

	// DefaultLocation is used when a request carries no coordinates. Nil when unset.
	DefaultLocation *domain.Coordinates

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka snapshot publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	nwsTimeout, err := parsePositiveDuration("NWS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	nwsCacheTTL, err := parsePositiveDuration("NWS_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	nwsBreakerOpen, err := parsePositiveDuration("NWS_BREAKER_OPEN", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("NWS_RATE_LIMIT", "2"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid NWS_RATE_LIMIT")
	}

	var defaultLocation *domain.Coordinates
	if s := os.Getenv("DEFAULT_LOCATION"); s != "" {
		c, err := domain.ParseCoordinates(s)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_LOCATION: %w", err)
		}
		defaultLocation = &c
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NWSBaseURL:   sharedcfg.EnvOrDefault("NWS_BASE_URL", defaultNWSBaseURL),
		NWSTimeout:   nwsTimeout,
		NWSUserAgent: sharedcfg.EnvOrDefault("NWS_USER_AGENT", "storm-data-conditions (github.com/couchcryptid/storm-data-conditions)"),
		NWSCacheSize: parsePositiveInt("NWS_CACHE_SIZE", 256),
		NWSCacheTTL:  nwsCacheTTL,
		NWSRateLimit: rateLimit,

		NWSBreakerOpen: nwsBreakerOpen,

		DefaultLocation: defaultLocation,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "point-conditions"),
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
