// Command geoveil is a wiring harness that plays the role of the form and
// export collaborators around the engine: it loads configuration, opens the
// configured repository, ingests observation inputs from a JSON file, and
// writes the aggregated heatmap to stdout.
//
// The engine packages themselves expose only data-shaped contracts; this
// binary owns the CLI surface.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"geoveil/internal/config"
	"geoveil/internal/export"
	"geoveil/internal/heatmap"
	"geoveil/internal/metrics"
	"geoveil/internal/privacy"
	"geoveil/internal/report"
	"geoveil/internal/store"
	"geoveil/internal/types"
)

// observationInput is the JSON shape accepted from the input file.
type observationInput struct {
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	AccuracyMeters *float64 `json:"accuracy_meters,omitempty"`
	BlurRadius     int      `json:"blur_radius"`
	Sensitive      bool     `json:"sensitive"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	var (
		inputPath   = flag.String("input", "", "JSON file with observations to ingest")
		exportPath  = flag.String("export", "", "write all records as a JSON-lines bundle to this path")
		compress    = flag.Bool("compress", false, "zstd-compress the export bundle")
		metricsPath = flag.String("metrics", "", "write prometheus metrics in text exposition format to this path at exit")
	)
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := types.NewLogger(newSlog(cfg.LogLevel))
	logger.Info("geoveil starting",
		"environment", cfg.Environment,
		"store", cfg.Store.Backend,
		"sensitive_mode", cfg.Privacy.SensitiveMode,
	)

	ctx := context.Background()
	repo, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	src := privacy.CryptoSource{}
	policy := privacy.NewPolicy(privacy.NewRingSampler(src))
	svc := report.NewService(repo, policy, types.RealClock{}, logger, recorder)

	if *inputPath != "" {
		if err := ingest(ctx, svc, cfg, *inputPath); err != nil {
			return err
		}
	}

	records, err := svc.List(ctx)
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if *exportPath != "" {
		f, err := os.Create(*exportPath)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := export.WriteBundle(f, records, *compress); err != nil {
			return fmt.Errorf("writing export bundle: %w", err)
		}
		logger.Info("export bundle written", "path", *exportPath, "records", len(records))
	}

	builder := heatmap.NewBuilder(src, cfg.Heatmap.CellSizeDegrees, recorder)
	cells, err := builder.Build(records, cfg.PrivacyConfig())
	if err != nil {
		return fmt.Errorf("building heatmap: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cells); err != nil {
		return err
	}

	if *metricsPath != "" {
		f, err := os.Create(*metricsPath)
		if err != nil {
			return fmt.Errorf("creating metrics file: %w", err)
		}
		defer func() { _ = f.Close() }()
		if err := writeMetrics(f, registry); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		logger.Info("metrics written", "path", *metricsPath)
	}
	return nil
}

// writeMetrics dumps the gathered metric families in the prometheus text
// exposition format. The binary is a one-shot pipeline, so metrics are
// written at exit rather than served.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// ingest creates one record per input entry, acknowledging each to mirror
// the simulated-backend acceptance that follows submission.
func ingest(ctx context.Context, svc *report.Service, cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	var inputs []observationInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	for i, in := range inputs {
		rec, err := svc.Create(ctx, report.CreateInput{
			ExactLocation: types.Coordinate{
				Lat:            in.Lat,
				Lon:            in.Lon,
				AccuracyMeters: in.AccuracyMeters,
			},
			RequestedBlurRadius: in.BlurRadius,
			SensitiveMode:       in.Sensitive || cfg.Privacy.SensitiveMode,
		})
		if err != nil {
			return fmt.Errorf("creating observation %d: %w", i, err)
		}
		if _, err := svc.Acknowledge(ctx, rec.ID); err != nil {
			return fmt.Errorf("acknowledging observation %d: %w", i, err)
		}
	}
	return nil
}

// openStore builds the repository selected by configuration and returns a
// cleanup func for the underlying handle.
func openStore(ctx context.Context, cfg *config.Config) (types.ObservationRepository, func(), error) {
	switch types.StoreBackend(cfg.Store.Backend) {
	case types.BackendMemory:
		return store.NewMemory(), func() {}, nil
	case types.BackendSQLite:
		s, err := store.NewSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case types.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Store.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		repo := store.NewPostgres(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// newSlog builds a JSON slog logger at the configured level.
func newSlog(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
