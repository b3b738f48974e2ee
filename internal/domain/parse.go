package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// appliedDateLayouts are the date encodings observed in portal exports,
// tried in order. Socrata's floating timestamp comes first because current
// exports use it; the US-style layouts cover older snapshots.
var appliedDateLayouts = []string{
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
	"01/02/2006 03:04:05 PM",
	"01/02/2006",
}

// ParseRecord converts one raw CSV record into a Permit. The permit number
// is the only required field: without it the row cannot be identified and a
// *RecordError is returned. Every other field degrades to its missing
// sentinel (zero time, nil cost, zero Geo) so the record still participates
// in the views that do not need the absent field.
func ParseRecord(raw RawPermitRecord, row int) (Permit, error) {
	id := strings.TrimSpace(raw.PermitNum)
	if id == "" {
		return Permit{}, &RecordError{Row: row, Field: "PermitNum", Reason: "missing permit number"}
	}

	return Permit{
		ID:        id,
		Type:      strings.TrimSpace(raw.PermitTypeMapped),
		Address:   strings.TrimSpace(raw.OriginalAddress1),
		AppliedAt: parseAppliedDate(raw.AppliedDate),
		EstCost:   parseCost(raw.EstProjectCost),
		Geo:       parseCoordinates(raw.Latitude, raw.Longitude),
	}, nil
}

// parseAppliedDate parses a portal date string, returning the zero time when
// no known layout matches. Layouts without an explicit zone parse as UTC.
func parseAppliedDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range appliedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseCost parses an estimated project cost, returning nil when the value
// is absent or unusable. Currency symbols and thousands separators are
// stripped first; the portal mixes plain numbers with formatted dollar
// amounts. Negative values are treated as missing: a permit cannot have a
// negative estimated cost.
func parseCost(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// parseCoordinates parses a latitude/longitude pair. Both must parse, be in
// WGS-84 range, and not be the (0, 0) null-island placeholder the portal
// emits for ungeolocated permits; otherwise the record has no coordinates.
func parseCoordinates(latStr, lonStr string) Geo {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if errLat != nil || errLon != nil {
		return Geo{}
	}
	if lat == 0 && lon == 0 {
		return Geo{}
	}
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return Geo{}
	}
	return Geo{Lat: lat, Lon: lon}
}

// RecencyCutoff returns the earliest application date the load keeps:
// years before now on the package clock. A non-positive window disables
// filtering and returns the zero time. Records without a parseable date are
// never window-filtered; their exclusion is decided per view instead.
func RecencyCutoff(years int) time.Time {
	if years <= 0 {
		return time.Time{}
	}
	return clock.Now().UTC().AddDate(-years, 0, 0)
}
