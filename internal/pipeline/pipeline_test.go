package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/domain"
	"github.com/mycoleb/seattledionna/internal/observability"
	"github.com/mycoleb/seattledionna/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	ds    domain.Dataset
	err   error
	calls int
}

func (m *mockSource) Load(ctx context.Context) (domain.Dataset, error) {
	m.calls++
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	if m.err != nil {
		return domain.Dataset{}, m.err
	}
	return m.ds, nil
}

// cancellingSource loads successfully but cancels the run's context first,
// as a signal arriving mid-load would.
type cancellingSource struct {
	ds     domain.Dataset
	cancel context.CancelFunc
	calls  int
}

func (s *cancellingSource) Load(context.Context) (domain.Dataset, error) {
	s.calls++
	s.cancel()
	return s.ds, nil
}

type mockAggregator struct {
	views aggregate.Views
	err   error
	calls int
	got   domain.Dataset
}

func (m *mockAggregator) Aggregate(ds domain.Dataset) (aggregate.Views, error) {
	m.calls++
	m.got = ds
	if m.err != nil {
		return aggregate.Views{}, m.err
	}
	return m.views, nil
}

type mockRenderer struct {
	artifacts []domain.Artifact
	err       error
	calls     int
}

func (m *mockRenderer) Render(_ context.Context, _ domain.Dataset, _ aggregate.Views) ([]domain.Artifact, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.artifacts, nil
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ds := makeDataset()
	src := &mockSource{ds: ds}
	agg := &mockAggregator{}
	rdr := &mockRenderer{artifacts: []domain.Artifact{
		{Name: "permits_time.html", Path: "/out/permits_time.html", Kind: domain.ArtifactChart},
		{Name: "statistics.md", Path: "/out/statistics.md", Kind: domain.ArtifactReport},
	}}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 1, agg.calls)
	assert.Equal(t, 1, rdr.calls)
	assert.Equal(t, rdr.artifacts, p.Artifacts())

	if diff := cmp.Diff(ds, agg.got); diff != "" {
		t.Fatalf("dataset passed to aggregator mismatch (-want +got):\n%s", diff)
	}
}

func TestPipeline_Run_LoadErrorStopsRun(t *testing.T) {
	loadErr := &domain.LoadError{Source: "permits.csv", Err: errors.New("no data rows")}
	src := &mockSource{err: loadErr}
	agg := &mockAggregator{}
	rdr := &mockRenderer{}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)

	var got *domain.LoadError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "permits.csv", got.Source)

	assert.Equal(t, 0, agg.calls)
	assert.Equal(t, 0, rdr.calls)
	assert.Nil(t, p.Artifacts())
}

func TestPipeline_Run_AggregateErrorStopsRun(t *testing.T) {
	src := &mockSource{ds: makeDataset()}
	agg := &mockAggregator{err: errors.New("grid cell size must be positive")}
	rdr := &mockRenderer{}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, rdr.calls)
	assert.Nil(t, p.Artifacts())
}

func TestPipeline_Run_RenderError(t *testing.T) {
	src := &mockSource{ds: makeDataset()}
	agg := &mockAggregator{}
	rdr := &mockRenderer{err: errors.New("disk full")}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, p.Artifacts())
}

func TestPipeline_Run_ContextCancelled(t *testing.T) {
	src := &mockSource{ds: makeDataset()}
	agg := &mockAggregator{}
	rdr := &mockRenderer{}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, agg.calls)
}

func TestPipeline_Run_CancelledAfterLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &cancellingSource{ds: makeDataset(), cancel: cancel}
	agg := &mockAggregator{}
	rdr := &mockRenderer{}

	p := pipeline.New(src, agg, rdr, slog.Default(), observability.NewMetrics())

	err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, 0, agg.calls)
	assert.Equal(t, 0, rdr.calls)
}

func TestPipeline_Run_RecordsMetrics(t *testing.T) {
	src := &mockSource{ds: makeDataset()}
	agg := &mockAggregator{views: aggregate.Views{
		TimeSeries: aggregate.TimeSeriesView{Excluded: 1},
		Grid:       aggregate.GridView{Excluded: 4},
	}}
	rdr := &mockRenderer{artifacts: []domain.Artifact{
		{Name: "permits_map.html", Kind: domain.ArtifactMap},
		{Name: "statistics.md", Kind: domain.ArtifactReport},
	}}
	metrics := observability.NewMetrics()

	p := pipeline.New(src, agg, rdr, slog.Default(), metrics)
	require.NoError(t, p.Run(context.Background()))

	path := filepath.Join(t.TempDir(), "permits.prom")
	require.NoError(t, metrics.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "permits_rows_read_total 6")
	assert.Contains(t, out, "permits_records_loaded_total 4")
	assert.Contains(t, out, `permits_rows_skipped_total{reason="bad_row"} 1`)
	assert.Contains(t, out, `permits_rows_skipped_total{reason="no_id"} 1`)
	assert.Contains(t, out, "permits_records_window_filtered_total 0")
	assert.Contains(t, out, `permits_records_missing_field_total{field="cost"} 3`)
	assert.Contains(t, out, `permits_view_excluded_records_total{view="time"} 1`)
	assert.Contains(t, out, `permits_view_excluded_records_total{view="grid"} 4`)
	assert.Contains(t, out, "permits_dataset_permits 4")
	assert.Contains(t, out, `permits_stage_duration_seconds_count{stage="load"} 1`)
	assert.Contains(t, out, `permits_stage_duration_seconds_count{stage="render"} 1`)
	assert.Contains(t, out, `permits_artifacts_rendered_total{kind="map"} 1`)
	assert.Contains(t, out, `permits_artifacts_rendered_total{kind="report"} 1`)
}

// --- helpers ---

func makeDataset() domain.Dataset {
	est := 150000.0
	return domain.Dataset{
		Permits: []domain.Permit{
			{ID: "P-1", Type: "Building", AppliedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), EstCost: &est},
			{ID: "P-2", Type: "Building", AppliedAt: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)},
			{ID: "P-3", Type: "Trade", AppliedAt: time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)},
			{ID: "P-4", Type: "Demolition"},
		},
		Source:   "permits.csv",
		LoadedAt: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
		Report: domain.LoadReport{
			RowsRead:      6,
			Loaded:        4,
			SkippedBadRow: 1,
			SkippedNoID:   1,
			MissingDate:   1,
			MissingCost:   3,
			MissingCoords: 4,
		},
	}
}
