// Package render turns aggregated permit views into the run's output
// artifacts: three interactive HTML charts, an interactive HTML map, and a
// Markdown statistics report.
package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/domain"
)

// Artifact file names, fixed so downstream links stay stable across runs.
const (
	TimeChartFile = "permits_time.html"
	TypeChartFile = "permit_types.html"
	CostChartFile = "cost_analysis.html"
	MapFile       = "permits_map.html"
	ReportFile    = "statistics.md"
)

// Renderer writes every artifact of a run into one output directory.
type Renderer struct {
	outDir        string
	heatMaxPoints int
	logger        *slog.Logger
}

// NewRenderer creates a Renderer writing into outDir. heatMaxPoints caps the
// number of heat cells embedded in the map page; 0 means no cap.
func NewRenderer(outDir string, heatMaxPoints int, logger *slog.Logger) *Renderer {
	return &Renderer{
		outDir:        outDir,
		heatMaxPoints: heatMaxPoints,
		logger:        logger,
	}
}

// Render creates the output directory and writes all artifacts, returning
// them in a fixed order. The first write error aborts the run; artifacts
// already written stay on disk.
func (r *Renderer) Render(ctx context.Context, ds domain.Dataset, views aggregate.Views) ([]domain.Artifact, error) {
	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	steps := []struct {
		name string
		kind domain.ArtifactKind
		fn   func(io.Writer) error
	}{
		{TimeChartFile, domain.ArtifactChart, func(w io.Writer) error { return writeTimeChart(w, views.TimeSeries) }},
		{TypeChartFile, domain.ArtifactChart, func(w io.Writer) error { return writeTypeChart(w, views.Categories) }},
		{CostChartFile, domain.ArtifactChart, func(w io.Writer) error { return writeCostChart(w, views.Categories, views.Brackets) }},
		{MapFile, domain.ArtifactMap, func(w io.Writer) error { return r.writeMap(w, ds, views) }},
		{ReportFile, domain.ArtifactReport, func(w io.Writer) error { return writeReport(w, ds, views) }},
	}

	artifacts := make([]domain.Artifact, 0, len(steps))
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(r.outDir, st.name)
		if err := writeFile(path, st.fn); err != nil {
			return nil, fmt.Errorf("render %s: %w", st.name, err)
		}
		r.logger.Debug("artifact written", "path", path)
		artifacts = append(artifacts, domain.Artifact{Name: st.name, Path: path, Kind: st.kind})
	}

	r.logger.Info("artifacts rendered", "count", len(artifacts), "dir", r.outDir)
	return artifacts, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
