package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"fraud-eda/internal/analysis"
	"fraud-eda/internal/api"
	"fraud-eda/internal/app"
	"fraud-eda/internal/charts"
	"fraud-eda/internal/config"
	"fraud-eda/internal/dataset"
	"fraud-eda/internal/logging"
	"fraud-eda/internal/report"
	"fraud-eda/internal/state"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg, err := config.FromEnv()
	if err != nil {
		// Flags still allow fixing a bad environment value.
		fmt.Fprintln(os.Stderr, "Warning:", err)
		cfg = config.Default()
	}

	root := &cobra.Command{
		Use:           "edactl",
		Short:         "Exploratory analysis of the credit card fraud dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetLevel(cfg.LogLevel)
			return cfg.Validate()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.DataPath, "data", cfg.DataPath, "local dataset cache path")
	pf.StringVar(&cfg.DatasetID, "dataset-id", cfg.DatasetID, "remote dataset id (Drive id, URL or s3://bucket/key)")
	pf.StringVar(&cfg.Source, "source", cfg.Source, "dataset source: csv or postgres")
	pf.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "PostgreSQL connection string")
	pf.StringVar(&cfg.Table, "table", cfg.Table, "PostgreSQL table holding the transactions")
	pf.StringVar(&cfg.AWSRegion, "aws-region", cfg.AWSRegion, "AWS region for s3:// datasets")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	pf.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "download timeout (0 disables)")

	root.AddCommand(
		newFetchCmd(&cfg),
		newSummaryCmd(&cfg),
		newRenderCmd(&cfg),
		newServeCmd(&cfg),
	)
	return root
}

func newFetchCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Download the dataset into the local cache if it is missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := app.NewSource(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			csv, ok := src.(*dataset.CSVSource)
			if !ok {
				return fmt.Errorf("fetch only applies to the csv source, not %s", src.Describe())
			}

			ctx := cmd.Context()
			if cfg.FetchTimeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.FetchTimeout)
				defer cancel()
			}
			downloaded, err := dataset.EnsureFile(ctx, csv.Fetcher, csv.RemoteID, csv.LocalPath)
			if err != nil {
				return err
			}
			if downloaded {
				fmt.Fprintf(cmd.OutOrStdout(), "Downloaded dataset to %s\n", csv.LocalPath)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Dataset already present at %s\n", csv.LocalPath)
			}
			return nil
		},
	}
}

func newSummaryCmd(cfg *config.Config) *cobra.Command {
	var markdown bool
	var top int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary, preview and class correlation tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Load(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			ds, err := p.Dataset()
			if err != nil {
				return err
			}

			f := report.Text
			if markdown {
				f = report.Markdown
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "1. Résumé du jeu de données")
			report.Summary(out, f, analysis.Summarize(ds))
			fmt.Fprintln(out)
			report.Preview(out, f, analysis.Preview(ds, cfg.PreviewRows))
			fmt.Fprintln(out)
			fmt.Fprintln(out, "2. Répartition des classes")
			report.Classes(out, f, analysis.ClassDistribution(ds))
			if top > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Corrélations avec Class")
				report.Correlations(out, f, analysis.TopCorrelations(analysis.Correlation(ds), dataset.ColClass, top))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print markdown tables")
	cmd.Flags().IntVar(&cfg.PreviewRows, "rows", cfg.PreviewRows, "preview rows")
	cmd.Flags().IntVar(&top, "top", 10, "columns most correlated with Class (0 skips the correlation table)")
	return cmd
}

func newRenderCmd(cfg *config.Config) *cobra.Command {
	var (
		class  string
		outDir string
		format string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write every chart for a filter selection into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := analysis.ParseSelection(class)
			if err != nil {
				return err
			}
			f, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}
			p, err := app.Load(cmd.Context(), *cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}

			r := &api.ChartRenderer{
				Views: state.NewViews(p, cfg.SampleSize, cfg.SampleSeed),
				Bins:  cfg.HistogramBins,
			}
			for _, name := range api.ChartNames {
				path := filepath.Join(outDir, fmt.Sprintf("%s_%s.%s", name, sel, f.Ext()))
				if err := renderFile(cmd.OutOrStdout(), r, path, name, sel, f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&class, "class", "all", "filter: all, normal or fraud")
	cmd.Flags().StringVar(&outDir, "out", "charts", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "png or svg")
	cmd.Flags().IntVar(&cfg.HistogramBins, "bins", cfg.HistogramBins, "histogram bins")
	cmd.Flags().IntVar(&cfg.SampleSize, "sample", cfg.SampleSize, "scatter sample size")
	cmd.Flags().Int64Var(&cfg.SampleSeed, "seed", cfg.SampleSeed, "scatter sample seed")
	return cmd
}

func renderFile(out io.Writer, r *api.ChartRenderer, path, name string, sel analysis.Selection, f charts.Format) error {
	start := time.Now()
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = r.Render(file, name, sel, f)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, analysis.ErrEmptyView) {
		os.Remove(path)
		fmt.Fprintf(out, "Skipped %s: %s\n", name, err)
		return nil
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	fmt.Fprintf(out, "Wrote %s (%s)\n", path, time.Since(start).Round(time.Millisecond))
	return nil
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context(), *cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	return cmd
}
