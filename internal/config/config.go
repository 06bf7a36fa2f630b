// Package config loads settings from the environment, optionally seeded from
// a .env file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"honnef.co/go/govcurve"
	"honnef.co/go/govcurve/internal/tracks"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// DataDir receives the points/ and plots/ directories.
	DataDir    string `env:"GOVCURVE_DATA_DIR" default:"data"`
	ListenAddr string `env:"GOVCURVE_LISTEN_ADDR" default:"127.0.0.1:8080"`
	// TracksFile is a YAML track file. Empty means the built-in Moonbase
	// tracks.
	TracksFile string `env:"GOVCURVE_TRACKS_FILE"`
	TimeUnit   string `env:"GOVCURVE_TIME_UNIT" default:"hour"`
	Inverter   string `env:"GOVCURVE_INVERTER" default:"closed-form"`

	WriteCSV       bool `env:"GOVCURVE_WRITE_CSV" default:"true"`
	Plot           bool `env:"GOVCURVE_PLOT" default:"true"`
	PlotComparison bool `env:"GOVCURVE_PLOT_COMPARISON" default:"true"`
	// Overwrite removes the data directory before rendering.
	Overwrite bool `env:"GOVCURVE_OVERWRITE" default:"true"`

	CacheTTL        time.Duration `env:"GOVCURVE_CACHE_TTL" default:"10m"`
	ShutdownTimeout time.Duration `env:"GOVCURVE_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Inverter names.
const (
	ClosedFormInverter = "closed-form"
	BisectionInverter  = "bisection"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that are not plain strings.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.DataDir == "" {
		errs = append(errs, errors.New("GOVCURVE_DATA_DIR must not be empty"))
	}
	if _, err := cfg.Unit(); err != nil {
		errs = append(errs, fmt.Errorf("GOVCURVE_TIME_UNIT: %w", err))
	}
	if _, err := cfg.NewInverter(); err != nil {
		errs = append(errs, fmt.Errorf("GOVCURVE_INVERTER: %w", err))
	}
	if cfg.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("GOVCURVE_CACHE_TTL must be positive, got %s", cfg.CacheTTL))
	}
	return errors.Join(errs...)
}

// Unit returns the time unit decision windows are sampled in.
func (cfg *Config) Unit() (tracks.TimeUnit, error) {
	return tracks.ParseTimeUnit(cfg.TimeUnit)
}

// NewInverter returns the configured threshold inverter.
func (cfg *Config) NewInverter() (govcurve.Inverter, error) {
	switch cfg.Inverter {
	case ClosedFormInverter:
		return govcurve.ClosedForm{}, nil
	case BisectionInverter:
		return govcurve.Bisection{}, nil
	default:
		return nil, fmt.Errorf("unknown inverter %q", cfg.Inverter)
	}
}

// LoadTracks returns the tracks of TracksFile, or the Moonbase tracks if it
// is empty. Like [tracks.LoadFile], it may return tracks alongside an error
// describing the tracks that were left out.
func (cfg *Config) LoadTracks() ([]tracks.Track, error) {
	if cfg.TracksFile == "" {
		return tracks.Moonbase()
	}
	return tracks.LoadFile(cfg.TracksFile)
}
