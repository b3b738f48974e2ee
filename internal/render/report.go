package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mycoleb/seattledionna/internal/aggregate"
	"github.com/mycoleb/seattledionna/internal/domain"
)

// writeReport renders statistics.md, the run's Markdown summary.
func writeReport(w io.Writer, ds domain.Dataset, views aggregate.Views) error {
	s := views.Summary
	rep := ds.Report

	var b strings.Builder
	b.WriteString("# Seattle Building Permits Analysis\n\n")
	b.WriteString("## Summary Statistics\n\n")
	fmt.Fprintf(&b, "- Total Permits: %s\n", formatCount(s.TotalPermits))
	fmt.Fprintf(&b, "- Total Project Value: %s\n", formatUSD(s.TotalCost))
	fmt.Fprintf(&b, "- Average Project Value: %s\n", formatUSD(s.MeanCost))
	fmt.Fprintf(&b, "- Median Project Value: %s\n", formatUSD(s.MedianCost))
	fmt.Fprintf(&b, "- 95th Percentile Project Value: %s\n", formatUSD(s.P95Cost))
	if s.MostCommonType != "" {
		fmt.Fprintf(&b, "- Most Common Permit Type: %s (%s permits)\n", s.MostCommonType, formatCount(s.MostCommonCount))
		fmt.Fprintf(&b, "- Distinct Permit Types: %s\n", formatCount(s.TypeCount))
	}
	if !s.DateMin.IsZero() {
		fmt.Fprintf(&b, "- Date Range: %s to %s\n",
			s.DateMin.Format("2006-01-02"), s.DateMax.Format("2006-01-02"))
	}

	b.WriteString("\n## Load Report\n\n")
	fmt.Fprintf(&b, "- Source: %s\n", ds.Source)
	fmt.Fprintf(&b, "- Loaded At: %s\n", ds.LoadedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Rows Read: %s\n", formatCount(rep.RowsRead))
	fmt.Fprintf(&b, "- Records Loaded: %s\n", formatCount(rep.Loaded))
	fmt.Fprintf(&b, "- Rows Skipped: %s\n", formatCount(rep.Skipped()))
	fmt.Fprintf(&b, "- Outside Recency Window: %s\n", formatCount(rep.WindowFiltered))
	fmt.Fprintf(&b, "- Missing Date: %s\n", formatCount(rep.MissingDate))
	fmt.Fprintf(&b, "- Missing Cost: %s\n", formatCount(rep.MissingCost))
	fmt.Fprintf(&b, "- Missing Coordinates: %s\n", formatCount(rep.MissingCoords))

	_, err := io.WriteString(w, b.String())
	return err
}

// formatUSD renders a dollar amount with thousands separators and cents.
func formatUSD(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	return "$" + groupThousands(s[:dot]) + s[dot:]
}

func formatCount(n int) string {
	return groupThousands(strconv.Itoa(n))
}

// groupThousands inserts commas into a plain decimal digit string.
func groupThousands(digits string) string {
	if len(digits) > 0 && digits[0] == '-' {
		return "-" + groupThousands(digits[1:])
	}
	if len(digits) <= 3 {
		return digits
	}
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
