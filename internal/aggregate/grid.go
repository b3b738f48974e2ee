package aggregate

import (
	"math"
	"sort"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// GridCell is one occupied cell of the spatial density view. Row and Col
// index the cell's southwest corner: Row*CellDeg is the southern edge
// latitude and Col*CellDeg the western edge longitude.
type GridCell struct {
	Row, Col  int
	Lat, Lon  float64 // cell center
	Count     int
	TotalCost float64 // sum of present costs in the cell
	Intensity float64 // Count / MaxCount, in (0, 1]
}

// GridView buckets geolocated permits into square cells of CellDeg degrees.
// Only occupied cells appear, sorted south-to-north then west-to-east.
type GridView struct {
	CellDeg  float64
	Cells    []GridCell
	MaxCount int
	Excluded int // records with no usable coordinates
}

// BuildGrid assigns each geolocated permit to the cell containing it. Cell
// edges are half-open: a coordinate exactly on an edge belongs to the cell
// whose southwest corner it touches.
func BuildGrid(permits []domain.Permit, cellDeg float64) GridView {
	view := GridView{CellDeg: cellDeg}

	type key struct{ row, col int }
	cells := make(map[key]*GridCell)

	for _, p := range permits {
		if !p.HasCoordinates() {
			view.Excluded++
			continue
		}
		k := key{
			row: int(math.Floor(p.Geo.Lat / cellDeg)),
			col: int(math.Floor(p.Geo.Lon / cellDeg)),
		}
		c := cells[k]
		if c == nil {
			c = &GridCell{
				Row: k.row,
				Col: k.col,
				Lat: (float64(k.row) + 0.5) * cellDeg,
				Lon: (float64(k.col) + 0.5) * cellDeg,
			}
			cells[k] = c
		}
		c.Count++
		if p.HasCost() {
			c.TotalCost += *p.EstCost
		}
	}
	if len(cells) == 0 {
		return view
	}

	view.Cells = make([]GridCell, 0, len(cells))
	for _, c := range cells {
		if c.Count > view.MaxCount {
			view.MaxCount = c.Count
		}
		view.Cells = append(view.Cells, *c)
	}
	for i := range view.Cells {
		view.Cells[i].Intensity = float64(view.Cells[i].Count) / float64(view.MaxCount)
	}
	sort.Slice(view.Cells, func(i, j int) bool {
		if view.Cells[i].Row != view.Cells[j].Row {
			return view.Cells[i].Row < view.Cells[j].Row
		}
		return view.Cells[i].Col < view.Cells[j].Col
	})
	return view
}
