// Package aggregate derives summary views from a loaded permit dataset:
// permit counts over time buckets, spatial density over a coordinate grid,
// counts and cost statistics per category and per cost bracket, and
// whole-dataset summary statistics. Every view is a pure function of the
// dataset. A record missing the field a view groups or measures by is
// excluded from that view alone and counted in the view's Excluded tally.
package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// Views bundles every aggregated view of one dataset.
type Views struct {
	TimeSeries TimeSeriesView
	Grid       GridView
	Categories CategoryView
	Brackets   BracketView
	Summary    Summary
}

// Builder aggregates datasets with fixed bucket and grid settings.
type Builder struct {
	resolution Resolution
	cellDeg    float64
	logger     *slog.Logger
}

// NewBuilder creates a Builder producing time series at the given resolution
// and spatial density over cells of cellDeg degrees.
func NewBuilder(resolution Resolution, cellDeg float64, logger *slog.Logger) *Builder {
	return &Builder{
		resolution: resolution,
		cellDeg:    cellDeg,
		logger:     logger,
	}
}

// Aggregate builds all views of the dataset. The dataset is never mutated;
// calling Aggregate twice on the same dataset yields identical views.
func (b *Builder) Aggregate(ds domain.Dataset) (Views, error) {
	if b.cellDeg <= 0 {
		return Views{}, fmt.Errorf("grid cell size must be positive, got %v", b.cellDeg)
	}

	views := Views{
		TimeSeries: BuildTimeSeries(ds.Permits, b.resolution),
		Grid:       BuildGrid(ds.Permits, b.cellDeg),
		Categories: BuildCategories(ds.Permits),
		Brackets:   BuildBrackets(ds.Permits),
		Summary:    BuildSummary(ds.Permits),
	}

	b.logger.Info("aggregation complete",
		"permits", ds.Len(),
		"time_buckets", len(views.TimeSeries.Points),
		"grid_cells", len(views.Grid.Cells),
		"categories", len(views.Categories.Categories),
	)
	return views, nil
}
