package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestPermitFieldPresence(t *testing.T) {
	cost := 125000.0
	zero := 0.0

	tests := []struct {
		name      string
		permit    Permit
		hasDate   bool
		hasCost   bool
		hasType   bool
		hasCoords bool
	}{
		{
			name: "fully populated",
			permit: Permit{
				ID:        "6793871-CN",
				Type:      "Building",
				AppliedAt: time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC),
				EstCost:   &cost,
				Geo:       Geo{Lat: 47.62, Lon: -122.34},
			},
			hasDate: true, hasCost: true, hasType: true, hasCoords: true,
		},
		{
			name:   "bare record",
			permit: Permit{ID: "6800001-DM"},
		},
		{
			name:    "zero cost is present",
			permit:  Permit{ID: "6800002-EL", EstCost: &zero},
			hasCost: true,
		},
		{
			name:      "equator longitude is usable",
			permit:    Permit{ID: "6800003-PL", Geo: Geo{Lat: 0, Lon: -122.3}},
			hasCoords: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hasDate, tt.permit.HasDate())
			assert.Equal(t, tt.hasCost, tt.permit.HasCost())
			assert.Equal(t, tt.hasType, tt.permit.HasType())
			assert.Equal(t, tt.hasCoords, tt.permit.HasCoordinates())
		})
	}
}

func TestLoadReportSkipped(t *testing.T) {
	r := LoadReport{
		RowsRead:      10,
		Loaded:        5,
		SkippedBadRow: 3,
		SkippedNoID:   2,
	}

	assert.Equal(t, 5, r.Skipped())
}

func TestNewDataset(t *testing.T) {
	fixedNow := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer SetClock(nil)

	permits := []Permit{{ID: "6793871-CN"}, {ID: "6800001-DM"}}
	report := LoadReport{RowsRead: 3, Loaded: 2, SkippedNoID: 1}

	ds := NewDataset(permits, "building_permits.csv", report)

	assert.Equal(t, fixedNow, ds.LoadedAt)
	assert.Equal(t, "building_permits.csv", ds.Source)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, report, ds.Report)
	assert.Equal(t, permits, ds.Permits)
}

func TestSetClock(t *testing.T) {
	t.Run("set custom clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mockClock := clockwork.NewFakeClockAt(fixedTime)

		SetClock(mockClock)
		assert.Equal(t, fixedTime, clock.Now())

		SetClock(nil) // reset
	})

	t.Run("reset to real clock", func(t *testing.T) {
		fixedTime := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mockClock := clockwork.NewFakeClockAt(fixedTime)

		SetClock(mockClock)
		SetClock(nil)

		now := clock.Now()
		assert.True(t, time.Since(now) < time.Second)
	})
}
