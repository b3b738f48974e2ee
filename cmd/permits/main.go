// Command permits runs one load-aggregate-render pass over a Seattle
// building permit CSV export and writes the HTML charts, the permit map,
// and the statistics report into the output directory.
//
// Configuration comes from the environment (see internal/config), with a
// .env file honored if present. The -input, -out, and -bucket flags
// override their environment counterparts. On success the paths of the
// written artifacts are printed to stdout, one per line.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mycoleb/seattledionna/internal/adapter/socrata"
	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/config"
	"github.com/mycoleb/seattledionna/internal/observability"
	"github.com/mycoleb/seattledionna/internal/pipeline"
	"github.com/mycoleb/seattledionna/internal/render"
)

func main() {
	// A missing .env is fine; deployments set the environment directly.
	_ = godotenv.Load()

	input := flag.String("input", "", "permit CSV path or URL (overrides PERMITS_INPUT)")
	out := flag.String("out", "", "output directory (overrides PERMITS_OUTPUT_DIR)")
	bucket := flag.String("bucket", "", "time bucket: day, month, or year (overrides TIME_BUCKET)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *out != "" {
		cfg.OutputDir = *out
	}
	if *bucket != "" {
		cfg.TimeBucket = *bucket
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	resolution, err := aggregate.ParseResolution(cfg.TimeBucket)
	if err != nil {
		logger.Error("invalid time bucket", "error", err)
		os.Exit(1)
	}

	source := socrata.NewSource(cfg.Input, cfg.SourceTimeout, cfg.WindowYears, logger)
	builder := aggregate.NewBuilder(resolution, cfg.GridCellDeg, logger)
	renderer := render.NewRenderer(cfg.OutputDir, cfg.HeatMaxPoints, logger)

	p := pipeline.New(source, builder, renderer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx)
	metrics.FinishRun(runErr == nil)
	writeMetrics(cfg, metrics, logger)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
		os.Exit(1)
	}

	for _, a := range p.Artifacts() {
		fmt.Println(a.Path)
	}
}

// writeMetrics dumps the run's metrics for the node_exporter textfile
// collector. Failed runs are dumped too so their skip counts stay visible.
func writeMetrics(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Error("metrics textfile write failed", "error", err, "path", cfg.MetricsFile)
	}
}
