// Package socrata loads building-permit records from Seattle Open Data
// portal CSV exports, either a downloaded snapshot on disk or the export
// endpoint over HTTP.
package socrata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// requiredColumns are the header columns an export must carry to be treated
// as a building-permits file. A header missing any of them is a schema
// mismatch and the load aborts. Matching is case-insensitive: portal
// snapshots carry display-case names, the SODA endpoint lowercases them.
var requiredColumns = []string{
	"PermitNum",
	"PermitTypeMapped",
	"AppliedDate",
	"EstProjectCost",
	"Latitude",
	"Longitude",
	"OriginalAddress1",
}

// Source reads one permits CSV per Load call.
type Source struct {
	locator     string // file path or http(s) URL
	windowYears int
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewSource creates a Source for a local file path or an http(s) URL.
// The timeout bounds the HTTP fetch; it is ignored for local files.
func NewSource(locator string, timeout time.Duration, windowYears int, logger *slog.Logger) *Source {
	return &Source{
		locator:     locator,
		windowYears: windowYears,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Load reads, parses, and window-filters the permits CSV. An unreadable
// source or a non-permits header returns a *domain.LoadError and no dataset.
// Malformed rows never abort the load: they are skipped, counted in the
// returned dataset's LoadReport, and logged at debug level.
func (s *Source) Load(ctx context.Context) (domain.Dataset, error) {
	body, err := s.open(ctx)
	if err != nil {
		return domain.Dataset{}, &domain.LoadError{Source: s.locator, Err: err}
	}
	defer body.Close()

	permits, report, err := s.decode(body)
	if err != nil {
		return domain.Dataset{}, &domain.LoadError{Source: s.locator, Err: err}
	}

	ds := domain.NewDataset(permits, s.locator, report)
	s.logger.Info("dataset loaded",
		"source", s.locator,
		"rows_read", report.RowsRead,
		"loaded", report.Loaded,
		"skipped", report.Skipped(),
		"window_filtered", report.WindowFiltered,
		"missing_date", report.MissingDate,
		"missing_cost", report.MissingCost,
		"missing_coords", report.MissingCoords,
	)
	return ds, nil
}

func (s *Source) open(ctx context.Context) (io.ReadCloser, error) {
	if strings.HasPrefix(s.locator, "http://") || strings.HasPrefix(s.locator, "https://") {
		return s.fetch(ctx)
	}
	f, err := os.Open(s.locator)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Source) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.locator, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch export: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("portal returned status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

func (s *Source) decode(r io.Reader) ([]domain.Permit, domain.LoadReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, domain.LoadReport{}, fmt.Errorf("read header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if missing := missingColumns(colIdx); len(missing) > 0 {
		return nil, domain.LoadReport{}, fmt.Errorf("header missing columns: %s", strings.Join(missing, ", "))
	}

	cutoff := domain.RecencyCutoff(s.windowYears)

	var permits []domain.Permit
	var report domain.LoadReport
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		report.RowsRead++
		if err != nil {
			report.SkippedBadRow++
			s.logger.Debug("skipping malformed row", "row", report.RowsRead, "error", err)
			continue
		}

		raw := domain.RawPermitRecord{
			PermitNum:        get(row, colIdx, "permitnum"),
			PermitTypeMapped: get(row, colIdx, "permittypemapped"),
			AppliedDate:      get(row, colIdx, "applieddate"),
			EstProjectCost:   get(row, colIdx, "estprojectcost"),
			Latitude:         get(row, colIdx, "latitude"),
			Longitude:        get(row, colIdx, "longitude"),
			OriginalAddress1: get(row, colIdx, "originaladdress1"),
		}

		permit, err := domain.ParseRecord(raw, report.RowsRead)
		if err != nil {
			report.SkippedNoID++
			s.logger.Debug("skipping row", "row", report.RowsRead, "error", err)
			continue
		}

		// Records without a parseable date cannot be window-tested; they stay.
		if !cutoff.IsZero() && permit.HasDate() && permit.AppliedAt.Before(cutoff) {
			report.WindowFiltered++
			continue
		}

		if !permit.HasDate() {
			report.MissingDate++
		}
		if !permit.HasCost() {
			report.MissingCost++
		}
		if !permit.HasCoordinates() {
			report.MissingCoords++
		}

		permits = append(permits, permit)
		report.Loaded++
	}

	if report.RowsRead == 0 {
		return nil, report, errors.New("no data rows")
	}

	return permits, report, nil
}

// missingColumns takes a lowercase-keyed header index and reports the
// required columns, in display case, that it lacks.
func missingColumns(colIdx map[string]int) []string {
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
