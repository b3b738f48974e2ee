package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/mycoleb/seattledionna/internal/domain"
)

// Resolution selects the time-bucket granularity of the time-series view.
type Resolution string

const (
	ByDay   Resolution = "day"
	ByMonth Resolution = "month"
	ByYear  Resolution = "year"
)

// ParseResolution converts a user-supplied bucket name to a Resolution.
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day":
		return ByDay, nil
	case "month":
		return ByMonth, nil
	case "year":
		return ByYear, nil
	default:
		return "", fmt.Errorf("unknown time bucket %q (want day, month, or year)", s)
	}
}

// BucketStart truncates t to the inclusive lower bound of its bucket, UTC.
func (r Resolution) BucketStart(t time.Time) time.Time {
	t = t.UTC()
	switch r {
	case ByDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case ByYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the bucket after the one starting at start.
// Buckets are half-open [start, next): a timestamp exactly on a boundary
// belongs to the bucket it starts.
func (r Resolution) Next(start time.Time) time.Time {
	switch r {
	case ByDay:
		return start.AddDate(0, 0, 1)
	case ByYear:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// Label formats a bucket start for chart axes.
func (r Resolution) Label(start time.Time) string {
	switch r {
	case ByDay:
		return start.Format("2006-01-02")
	case ByYear:
		return start.Format("2006")
	default:
		return start.Format("2006-01")
	}
}

// TimePoint is one bucket of the time-series view.
type TimePoint struct {
	Start     time.Time // inclusive bucket start, UTC
	Count     int
	CostCount int     // records in the bucket carrying a cost
	TotalCost float64 // summed over the records carrying one
}

// TimeSeriesView counts permits per time bucket. Points run contiguously
// from the earliest to the latest occupied bucket, ascending, with empty
// buckets in between reported at zero so line charts show the gaps.
type TimeSeriesView struct {
	Resolution Resolution
	Points     []TimePoint
	Excluded   int // records with no usable application date
}

// Total is the sum of counts across all buckets, which equals the number of
// records carrying a usable date.
func (v TimeSeriesView) Total() int {
	total := 0
	for _, p := range v.Points {
		total += p.Count
	}
	return total
}

// BuildTimeSeries buckets permit counts by application date at the given
// resolution. Records without a usable date are excluded and counted.
func BuildTimeSeries(permits []domain.Permit, res Resolution) TimeSeriesView {
	view := TimeSeriesView{Resolution: res}

	buckets := make(map[time.Time]*TimePoint)
	var first, last time.Time
	for _, p := range permits {
		if !p.HasDate() {
			view.Excluded++
			continue
		}
		start := res.BucketStart(p.AppliedAt)
		tp := buckets[start]
		if tp == nil {
			tp = &TimePoint{Start: start}
			buckets[start] = tp
		}
		tp.Count++
		if p.HasCost() {
			tp.CostCount++
			tp.TotalCost += *p.EstCost
		}
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if start.After(last) {
			last = start
		}
	}
	if len(buckets) == 0 {
		return view
	}

	for cur := first; !cur.After(last); cur = res.Next(cur) {
		if tp := buckets[cur]; tp != nil {
			view.Points = append(view.Points, *tp)
			continue
		}
		view.Points = append(view.Points, TimePoint{Start: cur})
	}
	return view
}
