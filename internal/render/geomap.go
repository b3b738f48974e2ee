package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/domain"
)

var mapTemplate = template.Must(template.ParseFS(templatesFS, "templates/*.tmpl"))

// Seattle city center, the map's initial viewport.
const (
	mapCenterLat = 47.6062
	mapCenterLon = -122.3321
	mapZoom      = 12
)

// heatPoint is one weighted point of the map's heat layer, taken from a grid
// cell center. Intensity is the cell count normalized to 0..1.
type heatPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
	Value     int     `json:"value"`
}

// costMarker is one permit above the high-cost threshold.
type costMarker struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Cost    float64 `json:"cost"`
	Type    string  `json:"type"`
	Address string  `json:"address"`
}

type mapData struct {
	CenterLat  float64
	CenterLon  float64
	Zoom       int
	Threshold  float64
	HeatJSON   template.JS
	MarkerJSON template.JS
}

// writeMap renders the interactive permit map: a density heat layer built
// from the grid view, and red markers for geolocated permits whose cost is
// strictly above the dataset's 95th percentile.
func (r *Renderer) writeMap(w io.Writer, ds domain.Dataset, views aggregate.Views) error {
	cells := topCells(views.Grid, r.heatMaxPoints)
	heat := make([]heatPoint, 0, len(cells))
	for _, c := range cells {
		heat = append(heat, heatPoint{Lat: c.Lat, Lng: c.Lon, Intensity: c.Intensity, Value: c.Count})
	}

	markers := costMarkers(ds, views.Summary)

	heatJSON, err := json.Marshal(heat)
	if err != nil {
		return fmt.Errorf("encode heat points: %w", err)
	}
	markerJSON, err := json.Marshal(markers)
	if err != nil {
		return fmt.Errorf("encode markers: %w", err)
	}

	return mapTemplate.ExecuteTemplate(w, "permits_map.html.tmpl", mapData{
		CenterLat:  mapCenterLat,
		CenterLon:  mapCenterLon,
		Zoom:       mapZoom,
		Threshold:  views.Summary.P95Cost,
		HeatJSON:   template.JS(heatJSON),
		MarkerJSON: template.JS(markerJSON),
	})
}

// topCells caps the heat layer at maxPoints cells, keeping the densest.
// The grid view itself is left untouched.
func topCells(view aggregate.GridView, maxPoints int) []aggregate.GridCell {
	if maxPoints <= 0 || len(view.Cells) <= maxPoints {
		return view.Cells
	}
	cells := make([]aggregate.GridCell, len(view.Cells))
	copy(cells, view.Cells)
	sort.Slice(cells, func(i, j int) bool { return cells[i].Count > cells[j].Count })
	return cells[:maxPoints]
}

// costMarkers selects geolocated permits whose cost is strictly above the
// 95th-percentile threshold. A dataset with no costs yields no markers.
func costMarkers(ds domain.Dataset, summary aggregate.Summary) []costMarker {
	markers := []costMarker{}
	if summary.CostCount == 0 {
		return markers
	}
	for _, p := range ds.Permits {
		if !p.HasCost() || !p.HasCoordinates() {
			continue
		}
		if *p.EstCost > summary.P95Cost {
			markers = append(markers, costMarker{
				Lat:     p.Geo.Lat,
				Lng:     p.Geo.Lon,
				Cost:    *p.EstCost,
				Type:    p.Type,
				Address: p.Address,
			})
		}
	}
	return markers
}
