package aggregate

import (
	"math"
	"sort"
	"time"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// Summary holds the whole-dataset statistics reported in statistics.md.
type Summary struct {
	TotalPermits int

	DateMin time.Time // zero when no record carries a date
	DateMax time.Time

	CostCount  int // records carrying a cost
	TotalCost  float64
	MeanCost   float64
	MedianCost float64
	P95Cost    float64

	MostCommonType  string // ties broken lexicographically
	MostCommonCount int    // permits of the most common type
	TypeCount       int    // distinct categories
}

// BuildSummary computes dataset-level statistics. Cost figures cover only
// records with a present cost, the date range only records with a date.
func BuildSummary(permits []domain.Permit) Summary {
	s := Summary{TotalPermits: len(permits)}

	var costs []float64
	typeCounts := make(map[string]int)
	for _, p := range permits {
		if p.HasDate() {
			if s.DateMin.IsZero() || p.AppliedAt.Before(s.DateMin) {
				s.DateMin = p.AppliedAt
			}
			if p.AppliedAt.After(s.DateMax) {
				s.DateMax = p.AppliedAt
			}
		}
		if p.HasCost() {
			costs = append(costs, *p.EstCost)
			s.TotalCost += *p.EstCost
		}
		if p.HasType() {
			typeCounts[p.Type]++
		}
	}

	s.CostCount = len(costs)
	if s.CostCount > 0 {
		s.MeanCost = s.TotalCost / float64(s.CostCount)
		sort.Float64s(costs)
		s.MedianCost = quantile(costs, 0.5)
		s.P95Cost = quantile(costs, 0.95)
	}

	s.TypeCount = len(typeCounts)
	for typ, n := range typeCounts {
		if n > s.MostCommonCount || (n == s.MostCommonCount && typ < s.MostCommonType) {
			s.MostCommonCount = n
			s.MostCommonType = typ
		}
	}
	return s
}

// quantile returns the q-quantile of an ascending slice using linear
// interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	h := q * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
