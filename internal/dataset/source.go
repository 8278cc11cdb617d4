package dataset

import (
	"context"
	"time"

	"fraud-eda/internal/logging"
)

// Source produces a Dataset. Load is called at most once per Provider.
type Source interface {
	Load(ctx context.Context) (*Dataset, error)
	Describe() string
}

// CSVSource is a delimited file cached locally and fetched on first use.
type CSVSource struct {
	RemoteID  string
	LocalPath string
	Fetcher   Fetcher
	Schema    Schema
}

func (s *CSVSource) Describe() string { return "csv:" + s.LocalPath }

func (s *CSVSource) Load(ctx context.Context) (*Dataset, error) {
	if _, err := EnsureFile(ctx, s.Fetcher, s.RemoteID, s.LocalPath); err != nil {
		return nil, err
	}

	start := time.Now()
	ds, err := ReadCSVFile(s.LocalPath, s.schema())
	if err != nil {
		return nil, err
	}
	logging.Infof("Parsed %d rows x %d columns from %s in %s", ds.Len(), len(ds.Headers()), s.LocalPath, time.Since(start).Round(time.Millisecond))
	return ds, nil
}

func (s *CSVSource) schema() Schema {
	if len(s.Schema.Required) == 0 {
		return DefaultSchema()
	}
	return s.Schema
}
