package render

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mycoleb/seattledionna/internal/aggregate"
)

// writeTimeChart renders the permits-over-time line chart.
func writeTimeChart(w io.Writer, view aggregate.TimeSeriesView) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Building Permits Over Time",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Building Permits Over Time",
			Subtitle: fmt.Sprintf("permit applications per %s", view.Resolution),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "permits"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	labels := make([]string, 0, len(view.Points))
	data := make([]opts.LineData, 0, len(view.Points))
	for _, p := range view.Points {
		labels = append(labels, view.Resolution.Label(p.Start))
		data = append(data, opts.LineData{Value: p.Count})
	}

	line.SetXAxis(labels).
		AddSeries("permits", data).
		SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))

	return line.Render(w)
}

// writeTypeChart renders the permit-type distribution pie chart. Categories
// arrive sorted by count, so the legend reads most common first.
func writeTypeChart(w io.Writer, view aggregate.CategoryView) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Permit Types",
			Width:     "900px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Distribution of Permit Types"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
	)

	data := make([]opts.PieData, 0, len(view.Categories))
	for _, c := range view.Categories {
		data = append(data, opts.PieData{Name: c.Type, Value: c.Count})
	}

	pie.AddSeries("permit types", data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		)

	return pie.Render(w)
}

// writeCostChart renders the cost analysis page: average project cost per
// permit type, and the permit count per cost bracket.
func writeCostChart(w io.Writer, cats aggregate.CategoryView, brackets aggregate.BracketView) error {
	page := components.NewPage()
	page.AddCharts(meanCostBar(cats), bracketBar(brackets))
	return page.Render(w)
}

func meanCostBar(view aggregate.CategoryView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Average Project Cost by Permit Type",
			Subtitle: "permits without a cost are excluded from the mean",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "USD"}),
	)

	cats := make([]aggregate.CategoryStat, len(view.Categories))
	copy(cats, view.Categories)
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].MeanCost != cats[j].MeanCost {
			return cats[i].MeanCost > cats[j].MeanCost
		}
		return cats[i].Type < cats[j].Type
	})

	labels := make([]string, 0, len(cats))
	data := make([]opts.BarData, 0, len(cats))
	for _, c := range cats {
		labels = append(labels, c.Type)
		data = append(data, opts.BarData{Value: roundCents(c.MeanCost)})
	}

	bar.SetXAxis(labels).AddSeries("average cost", data)
	return bar
}

func bracketBar(view aggregate.BracketView) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Permit Count by Cost Bracket"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(view.Brackets))
	data := make([]opts.BarData, 0, len(view.Brackets))
	for _, b := range view.Brackets {
		labels = append(labels, b.Label)
		data = append(data, opts.BarData{Value: b.Count})
	}

	bar.SetXAxis(labels).AddSeries("permits", data)
	return bar
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
