package config

import (
	"errors"
	"math"
	"os"
	"strconv"
	"time"
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	// Input is the permits CSV locator: a local file path or an http(s) URL
	// such as the portal's export endpoint.
	Input     string
	OutputDir string

	SourceTimeout time.Duration
	WindowYears   int // recency window in years; 0 keeps everything

	TimeBucket    string // day, month, or year
	GridCellDeg   float64
	HeatMaxPoints int

	MetricsFile string // Prometheus textfile path; empty disables
	LogLevel    string
	LogFormat   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	sourceTimeout, err := parseSourceTimeout()
	if err != nil {
		return nil, err
	}

	windowYears, err := parseWindowYears()
	if err != nil {
		return nil, err
	}

	gridCell, err := parseGridCellDeg()
	if err != nil {
		return nil, err
	}

	heatMax, err := parseHeatMaxPoints()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Input:         envOrDefault("PERMITS_INPUT", "building_permits.csv"),
		OutputDir:     envOrDefault("PERMITS_OUTPUT_DIR", "visualizations"),
		SourceTimeout: sourceTimeout,
		WindowYears:   windowYears,
		TimeBucket:    envOrDefault("TIME_BUCKET", "month"),
		GridCellDeg:   gridCell,
		HeatMaxPoints: heatMax,
		MetricsFile:   os.Getenv("METRICS_FILE"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "json"),
	}

	if cfg.Input == "" {
		return nil, errors.New("PERMITS_INPUT is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("PERMITS_OUTPUT_DIR is required")
	}
	switch cfg.TimeBucket {
	case "day", "month", "year":
	default:
		return nil, errors.New("TIME_BUCKET must be day, month, or year")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseSourceTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("SOURCE_TIMEOUT", "30s"))
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SOURCE_TIMEOUT")
	}
	return d, nil
}

func parseWindowYears() (int, error) {
	n, err := strconv.Atoi(envOrDefault("RECENT_WINDOW_YEARS", "2"))
	if err != nil || n < 0 {
		return 0, errors.New("invalid RECENT_WINDOW_YEARS")
	}
	return n, nil
}

func parseGridCellDeg() (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault("GRID_CELL_DEG", "0.005"), 64)
	if err != nil || v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("invalid GRID_CELL_DEG")
	}
	return v, nil
}

func parseHeatMaxPoints() (int, error) {
	n, err := strconv.Atoi(envOrDefault("HEAT_MAX_POINTS", "5000"))
	if err != nil || n <= 0 {
		return 0, errors.New("invalid HEAT_MAX_POINTS")
	}
	return n, nil
}
