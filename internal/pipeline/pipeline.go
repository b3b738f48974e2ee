// Package pipeline wires the load, aggregate, and render stages into one
// batch run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/domain"
	"github.com/mycoleb/seattledionna/internal/observability"
)

// Source loads the permit dataset.
type Source interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

// Aggregator builds every analysis view from a loaded dataset.
type Aggregator interface {
	Aggregate(ds domain.Dataset) (aggregate.Views, error)
}

// Renderer writes the output artifacts for a dataset and its views.
type Renderer interface {
	Render(ctx context.Context, ds domain.Dataset, views aggregate.Views) ([]domain.Artifact, error)
}

// Pipeline orchestrates one load-aggregate-render run.
type Pipeline struct {
	source     Source
	aggregator Aggregator
	renderer   Renderer
	logger     *slog.Logger
	metrics    *observability.Metrics

	artifacts []domain.Artifact
}

// New creates a Pipeline with the given stages and observability.
func New(s Source, a Aggregator, r Renderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:     s,
		aggregator: a,
		renderer:   r,
		logger:     logger,
		metrics:    metrics,
	}
}

// Artifacts returns the artifacts written by the last successful Run.
func (p *Pipeline) Artifacts() []domain.Artifact {
	return p.artifacts
}

// Run executes one batch run. A failed stage aborts the run; no later stage
// executes, so a load failure never produces artifacts from stale views.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.logger.Info("pipeline started")

	ds, err := p.load(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		p.logger.Info("pipeline stopping", "reason", err)
		return err
	}

	views, err := p.aggregate(ds)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		p.logger.Info("pipeline stopping", "reason", err)
		return err
	}

	artifacts, err := p.render(ctx, ds, views)
	if err != nil {
		return err
	}

	p.artifacts = artifacts
	p.logger.Info("pipeline finished",
		"permits", ds.Len(),
		"artifacts", len(artifacts),
		"elapsed", time.Since(start),
	)
	return nil
}

func (p *Pipeline) load(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()
	ds, err := p.source.Load(ctx)
	p.metrics.StageDuration.WithLabelValues("load").Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("load failed", "error", err)
		return domain.Dataset{}, err
	}
	p.recordLoadReport(ds)
	return ds, nil
}

// recordLoadReport copies the dataset's load accounting into the metrics.
func (p *Pipeline) recordLoadReport(ds domain.Dataset) {
	rep := ds.Report
	p.metrics.RowsRead.Add(float64(rep.RowsRead))
	p.metrics.RecordsLoaded.Add(float64(rep.Loaded))
	p.metrics.RowsSkipped.WithLabelValues("bad_row").Add(float64(rep.SkippedBadRow))
	p.metrics.RowsSkipped.WithLabelValues("no_id").Add(float64(rep.SkippedNoID))
	p.metrics.WindowFiltered.Add(float64(rep.WindowFiltered))
	p.metrics.MissingField.WithLabelValues("date").Add(float64(rep.MissingDate))
	p.metrics.MissingField.WithLabelValues("cost").Add(float64(rep.MissingCost))
	p.metrics.MissingField.WithLabelValues("coords").Add(float64(rep.MissingCoords))
	p.metrics.DatasetPermits.Set(float64(ds.Len()))
}

func (p *Pipeline) aggregate(ds domain.Dataset) (aggregate.Views, error) {
	start := time.Now()
	views, err := p.aggregator.Aggregate(ds)
	p.metrics.StageDuration.WithLabelValues("aggregate").Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("aggregate failed", "error", err)
		return aggregate.Views{}, err
	}
	p.metrics.ViewExcluded.WithLabelValues("time").Add(float64(views.TimeSeries.Excluded))
	p.metrics.ViewExcluded.WithLabelValues("grid").Add(float64(views.Grid.Excluded))
	p.metrics.ViewExcluded.WithLabelValues("category").Add(float64(views.Categories.Excluded))
	p.metrics.ViewExcluded.WithLabelValues("bracket").Add(float64(views.Brackets.Excluded))
	return views, nil
}

func (p *Pipeline) render(ctx context.Context, ds domain.Dataset, views aggregate.Views) ([]domain.Artifact, error) {
	start := time.Now()
	artifacts, err := p.renderer.Render(ctx, ds, views)
	p.metrics.StageDuration.WithLabelValues("render").Observe(time.Since(start).Seconds())
	if err != nil {
		p.logger.Error("render failed", "error", err)
		return nil, err
	}
	for _, a := range artifacts {
		p.metrics.ArtifactsRendered.WithLabelValues(string(a.Kind)).Inc()
	}
	return artifacts, nil
}
