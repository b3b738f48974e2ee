package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mycoleb/seattledionna/internal/domain"
)

func TestBuildGrid(t *testing.T) {
	permits := []domain.Permit{
		{ID: "A", Geo: domain.Geo{Lat: 47.6062, Lon: -122.3321}, EstCost: cost(100000)},
		{ID: "B", Geo: domain.Geo{Lat: 47.6063, Lon: -122.3322}},                       // same cell as A, no cost
		{ID: "C", Geo: domain.Geo{Lat: 47.6262, Lon: -122.3321}, EstCost: cost(50000)}, // four cells north
		{ID: "D"}, // no coordinates
	}

	v := BuildGrid(permits, 0.005)

	assert.Equal(t, 0.005, v.CellDeg)
	assert.Equal(t, 1, v.Excluded)
	assert.Equal(t, 2, v.MaxCount)
	require.Len(t, v.Cells, 2)

	// Southern cell sorts first.
	south := v.Cells[0]
	assert.Equal(t, 9521, south.Row)
	assert.Equal(t, -24467, south.Col)
	assert.Equal(t, 2, south.Count)
	assert.Equal(t, 100000.0, south.TotalCost)
	assert.Equal(t, 1.0, south.Intensity)
	assert.InDelta(t, 47.6075, south.Lat, 1e-9)
	assert.InDelta(t, -122.3325, south.Lon, 1e-9)

	north := v.Cells[1]
	assert.Equal(t, 9525, north.Row)
	assert.Equal(t, -24467, north.Col)
	assert.Equal(t, 1, north.Count)
	assert.Equal(t, 50000.0, north.TotalCost)
	assert.Equal(t, 0.5, north.Intensity)
}

func TestBuildGridBoundary(t *testing.T) {
	// Half-degree cells with exactly representable coordinates: a point on
	// a cell edge belongs to the cell it opens.
	permits := []domain.Permit{
		{ID: "A", Geo: domain.Geo{Lat: 1.0, Lon: 2.0}},
		{ID: "B", Geo: domain.Geo{Lat: -0.75, Lon: -2.0}},
	}

	v := BuildGrid(permits, 0.5)

	require.Len(t, v.Cells, 2)
	assert.Equal(t, -2, v.Cells[0].Row)
	assert.Equal(t, -4, v.Cells[0].Col)
	assert.Equal(t, 2, v.Cells[1].Row)
	assert.Equal(t, 4, v.Cells[1].Col)
}

func TestBuildGridEmpty(t *testing.T) {
	v := BuildGrid(nil, 0.005)
	assert.Empty(t, v.Cells)
	assert.Equal(t, 0, v.MaxCount)
	assert.Equal(t, 0, v.Excluded)
}
