package aggregate

import (
	"math"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// Bracket is one half-open [Lower, Upper) band of the cost distribution.
// The top bracket's Upper is +Inf.
type Bracket struct {
	Lower     float64
	Upper     float64
	Label     string
	Count     int
	TotalCost float64
}

// BracketView distributes permits carrying a cost across fixed
// order-of-magnitude brackets. Every bracket is always present, empty or
// not, so charts keep a stable axis across runs.
type BracketView struct {
	Brackets []Bracket
	Excluded int // records with no usable cost
}

func costBrackets() []Bracket {
	return []Bracket{
		{Lower: 0, Upper: 1e3, Label: "$0-$1K"},
		{Lower: 1e3, Upper: 1e4, Label: "$1K-$10K"},
		{Lower: 1e4, Upper: 1e5, Label: "$10K-$100K"},
		{Lower: 1e5, Upper: 1e6, Label: "$100K-$1M"},
		{Lower: 1e6, Upper: 1e7, Label: "$1M-$10M"},
		{Lower: 1e7, Upper: math.Inf(1), Label: "$10M+"},
	}
}

// BuildBrackets counts permits per cost bracket. A cost exactly on a
// boundary lands in the bracket it opens.
func BuildBrackets(permits []domain.Permit) BracketView {
	view := BracketView{Brackets: costBrackets()}

	for _, p := range permits {
		if !p.HasCost() {
			view.Excluded++
			continue
		}
		cost := *p.EstCost
		for i := range view.Brackets {
			b := &view.Brackets[i]
			if cost >= b.Lower && cost < b.Upper {
				b.Count++
				b.TotalCost += cost
				break
			}
		}
	}
	return view
}
