package domain

import "time"

// RawPermitRecord holds the untyped cell values of one CSV row, keyed by the
// portal's column names. Only the columns the pipeline consumes are carried;
// the export has two dozen more (contractor, status, housing units, ...)
// that are ignored at decode time.
type RawPermitRecord struct {
	PermitNum        string
	PermitTypeMapped string
	AppliedDate      string
	EstProjectCost   string
	Latitude         string
	Longitude        string
	OriginalAddress1 string
}

// Geo is a WGS-84 latitude/longitude pair. The zero value means the record
// carries no usable coordinates.
type Geo struct {
	Lat float64
	Lon float64
}

// Permit is one building-permit application after parsing and cleaning.
// Immutable once loaded: aggregation never writes back into a Permit.
type Permit struct {
	ID        string
	Type      string
	Address   string
	AppliedAt time.Time
	EstCost   *float64
	Geo       Geo
}

// HasDate reports whether the application date parsed.
func (p Permit) HasDate() bool { return !p.AppliedAt.IsZero() }

// HasCost reports whether the estimated project cost is present.
// A present cost of zero dollars is distinct from a missing one.
func (p Permit) HasCost() bool { return p.EstCost != nil }

// HasType reports whether the record carries a permit category.
func (p Permit) HasType() bool { return p.Type != "" }

// HasCoordinates reports whether the record carries usable coordinates.
// (0, 0) is the missing sentinel; it is open ocean, not Seattle.
func (p Permit) HasCoordinates() bool { return p.Geo.Lat != 0 || p.Geo.Lon != 0 }

// LoadReport accounts for every input row of a load. Rows are either kept
// as Permits, skipped (structurally unusable), or filtered by the recency
// window; kept records additionally report which optional fields they lack.
type LoadReport struct {
	RowsRead       int // data rows seen, excluding the header
	Loaded         int // permits kept
	SkippedBadRow  int // CSV shape/quoting errors
	SkippedNoID    int // blank PermitNum
	WindowFiltered int // applied before the recency cutoff
	MissingDate    int // kept, no parseable AppliedDate
	MissingCost    int // kept, no usable EstProjectCost
	MissingCoords  int // kept, no usable Latitude/Longitude
}

// Skipped is the number of rows that produced no Permit at all.
func (r LoadReport) Skipped() int { return r.SkippedBadRow + r.SkippedNoID }

// Dataset is the ordered permit collection for one run, plus provenance.
// It is loaded once and never mutated; every aggregated view is a pure
// function of it.
type Dataset struct {
	Permits  []Permit
	Source   string
	LoadedAt time.Time
	Report   LoadReport
}

// NewDataset stamps the dataset with the package clock so provenance is
// deterministic under test.
func NewDataset(permits []Permit, source string, report LoadReport) Dataset {
	return Dataset{
		Permits:  permits,
		Source:   source,
		LoadedAt: clock.Now().UTC(),
		Report:   report,
	}
}

// Len returns the number of loaded permits.
func (d Dataset) Len() int { return len(d.Permits) }

// ArtifactKind labels what a rendered artifact is.
type ArtifactKind string

const (
	ArtifactChart  ArtifactKind = "chart"
	ArtifactMap    ArtifactKind = "map"
	ArtifactReport ArtifactKind = "report"
)

// Artifact is one file produced by the renderer.
type Artifact struct {
	Name string
	Path string
	Kind ArtifactKind
}
