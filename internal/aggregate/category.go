package aggregate

import (
	"sort"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// CategoryStat summarizes one permit category.
type CategoryStat struct {
	Type       string
	Count      int
	CostCount  int     // permits in the category carrying a cost
	TotalCost  float64 // sum of present costs
	MeanCost   float64 // TotalCost / CostCount; 0 when no costs are present
	MedianCost float64 // median of present costs; 0 when none are present
}

// CategoryView counts permits per mapped permit type, sorted by count
// descending with ties broken by name so chart ordering is deterministic.
type CategoryView struct {
	Categories []CategoryStat
	Excluded   int // records with no category
}

// BuildCategories groups permits by their mapped type. Records without a
// type are excluded and counted. Records without a cost still count toward
// their category; they just contribute nothing to its cost statistics.
func BuildCategories(permits []domain.Permit) CategoryView {
	view := CategoryView{}

	stats := make(map[string]*CategoryStat)
	costs := make(map[string][]float64)
	for _, p := range permits {
		if !p.HasType() {
			view.Excluded++
			continue
		}
		s := stats[p.Type]
		if s == nil {
			s = &CategoryStat{Type: p.Type}
			stats[p.Type] = s
		}
		s.Count++
		if p.HasCost() {
			s.CostCount++
			s.TotalCost += *p.EstCost
			costs[p.Type] = append(costs[p.Type], *p.EstCost)
		}
	}

	view.Categories = make([]CategoryStat, 0, len(stats))
	for _, s := range stats {
		if s.CostCount > 0 {
			s.MeanCost = s.TotalCost / float64(s.CostCount)
			cs := costs[s.Type]
			sort.Float64s(cs)
			s.MedianCost = quantile(cs, 0.5)
		}
		view.Categories = append(view.Categories, *s)
	}
	sort.Slice(view.Categories, func(i, j int) bool {
		if view.Categories[i].Count != view.Categories[j].Count {
			return view.Categories[i].Count > view.Categories[j].Count
		}
		return view.Categories[i].Type < view.Categories[j].Type
	})
	return view
}
