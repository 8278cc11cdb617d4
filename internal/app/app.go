// Package app wires configuration, the dataset provider and the HTTP router
// together for the server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fraud-eda/internal/api"
	"fraud-eda/internal/config"
	"fraud-eda/internal/dataset"
	"fraud-eda/internal/logging"
	"fraud-eda/internal/state"
)

// NewSource builds the dataset source selected by cfg.Source. The S3 client
// is only created for s3:// dataset ids.
func NewSource(ctx context.Context, cfg config.Config) (dataset.Source, error) {
	if cfg.Source == "postgres" {
		return &dataset.PostgresSource{DSN: cfg.DatabaseURL, Table: cfg.Table, Schema: dataset.DefaultSchema()}, nil
	}

	fetcher := &dataset.SchemeFetcher{HTTP: dataset.NewHTTPFetcher(nil)}
	if strings.HasPrefix(cfg.DatasetID, "s3://") {
		s3f, err := dataset.NewS3Fetcher(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("configuring S3: %w", err)
		}
		fetcher.S3 = s3f
	}
	return &dataset.CSVSource{
		RemoteID:  cfg.DatasetID,
		LocalPath: cfg.DataPath,
		Fetcher:   fetcher,
		Schema:    dataset.DefaultSchema(),
	}, nil
}

// Load creates the provider and loads the dataset, honouring FetchTimeout.
func Load(ctx context.Context, cfg config.Config) (*dataset.Provider, error) {
	src, err := NewSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
		defer cancel()
	}

	p := dataset.NewProvider(src)
	start := time.Now()
	ds, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	logging.Infof("📊 Dataset ready: %d rows, %d columns from %s (%s)", ds.Len(), len(ds.Headers()), p.Describe(), time.Since(start).Round(time.Millisecond))
	return p, nil
}

// NewRouter mounts the dashboard and API routes behind the standard
// middleware stack.
func NewRouter(cfg config.Config, p *dataset.Provider) http.Handler {
	views := state.NewViews(p, cfg.SampleSize, cfg.SampleSeed)
	handler := api.NewHandler(p, views, cfg.PreviewRows, cfg.HistogramBins)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handler.RegisterRoutes(r)
	return r
}

// Serve loads the dataset and serves the dashboard until ctx is cancelled.
// A load failure is returned before the listener starts.
func Serve(ctx context.Context, cfg config.Config) error {
	p, err := Load(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, p),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logging.Infof("🚀 Starting dashboard on http://localhost:%s", cfg.Port)
	logging.Infof("📡 CORS enabled for: %s", strings.Join(cfg.CORSOrigins, ", "))

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
