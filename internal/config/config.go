package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultDatasetID is the Google Drive id of the credit card fraud dataset.
	DefaultDatasetID = "14xAlw2F-drxaG137tiFF4xDIGRnY6F1n"
	DefaultDataPath  = "data/creditcard.csv"
)

// Config holds every runtime setting of the dashboard.
type Config struct {
	Port        string
	DataPath    string
	DatasetID   string
	Source      string // "csv" or "postgres"
	DatabaseURL string
	Table       string
	AWSRegion   string

	PreviewRows   int
	SampleSize    int
	SampleSeed    int64
	HistogramBins int

	CORSOrigins  []string
	LogLevel     string
	FetchTimeout time.Duration // zero means no timeout
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return Config{
		Port:          "8001",
		DataPath:      DefaultDataPath,
		DatasetID:     DefaultDatasetID,
		Source:        "csv",
		Table:         "transactions",
		PreviewRows:   5,
		SampleSize:    10000,
		SampleSeed:    42,
		HistogramBins: 50,
		CORSOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		LogLevel:      "info",
	}
}

// FromEnv overlays environment variables on top of Default.
func FromEnv() (Config, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("PORT", &cfg.Port)
	str("DATA_PATH", &cfg.DataPath)
	str("DATASET_ID", &cfg.DatasetID)
	str("DATASET_SOURCE", &cfg.Source)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("DATASET_TABLE", &cfg.Table)
	str("AWS_REGION", &cfg.AWSRegion)
	str("LOG_LEVEL", &cfg.LogLevel)

	ints := []struct {
		key string
		dst *int
	}{
		{"PREVIEW_ROWS", &cfg.PreviewRows},
		{"SAMPLE_SIZE", &cfg.SampleSize},
		{"HISTOGRAM_BINS", &cfg.HistogramBins},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", it.key, v, err)
		}
		*it.dst = n
	}

	if v, ok := lookup("SAMPLE_SEED"); ok && v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid SAMPLE_SEED %q: %w", v, err)
		}
		cfg.SampleSeed = seed
	}
	if v, ok := lookup("FETCH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Source {
	case "csv":
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH must not be empty")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATASET_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unsupported DATASET_SOURCE %q (want csv or postgres)", c.Source)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("PREVIEW_ROWS must be >= 0, got %d", c.PreviewRows)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("SAMPLE_SIZE must be > 0, got %d", c.SampleSize)
	}
	if c.HistogramBins <= 0 {
		return fmt.Errorf("HISTOGRAM_BINS must be > 0, got %d", c.HistogramBins)
	}
	return nil
}
