// Command gensample cuts a small fixture CSV from a full Seattle building
// permits export and prints the fixture's expected statistics so test
// assertions can be updated alongside it. It parses rows with the actual
// domain package so the fixture only carries records the pipeline keeps.
//
// Usage:
//
//	go run ./cmd/gensample \
//	  -in ~/Downloads/Building_Permits.csv \
//	  -out internal/adapter/socrata/testdata/permits_sample.csv \
//	  -n 200
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mycoleb/seattledionna/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "full permit CSV export to sample from")
	out := flag.String("out", "", "output path for the fixture CSV")
	n := flag.Int("n", 200, "number of records to keep")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -in, -out")
	}

	header, rows, err := readCSV(*in)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *in, err)
	}

	valid := validRows(header, rows)
	log.Printf("%s: %d rows, %d valid", filepath.Base(*in), len(rows), len(valid))

	sample := sampleRows(valid, *n)
	if err := writeCSV(*out, header, sample); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d rows)", *out, len(sample))

	printStats(header, sample)
	return nil
}

func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("no data rows")
	}
	return rows[0], rows[1:], nil
}

// validRows keeps rows the domain parser accepts, so the fixture never
// carries records the pipeline would skip.
func validRows(header []string, rows [][]string) [][]string {
	idx := columnIndex(header)
	valid := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) < len(header) {
			continue
		}
		if _, err := domain.ParseRecord(toRaw(row, idx), i+2); err != nil {
			continue
		}
		valid = append(valid, row)
	}
	return valid
}

// sampleRows keeps every len(rows)/n-th row so the fixture spans the whole
// export rather than its first weeks.
func sampleRows(rows [][]string, n int) [][]string {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	stride := len(rows) / n
	sample := make([][]string, 0, n)
	for i := 0; i < len(rows) && len(sample) < n; i += stride {
		sample = append(sample, rows[i])
	}
	return sample
}

func writeCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// columnIndex keys the header case-insensitively: snapshots carry
// display-case column names, the SODA endpoint lowercases them.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func toRaw(row []string, idx map[string]int) domain.RawPermitRecord {
	return domain.RawPermitRecord{
		PermitNum:        get(row, idx, "permitnum"),
		PermitTypeMapped: get(row, idx, "permittypemapped"),
		AppliedDate:      get(row, idx, "applieddate"),
		EstProjectCost:   get(row, idx, "estprojectcost"),
		Latitude:         get(row, idx, "latitude"),
		Longitude:        get(row, idx, "longitude"),
		OriginalAddress1: get(row, idx, "originaladdress1"),
	}
}

type typeCount struct {
	name  string
	count int
}

func printStats(header []string, rows [][]string) {
	idx := columnIndex(header)

	var (
		total, missingDate, missingCost, missingCoords int
		totalCost                                      float64
		costCount                                      int
		dateMin, dateMax                               time.Time
	)
	typeCounts := map[string]int{}

	for i, row := range rows {
		permit, err := domain.ParseRecord(toRaw(row, idx), i+2)
		if err != nil {
			continue
		}
		total++
		typeCounts[permit.Type]++
		if permit.HasDate() {
			if dateMin.IsZero() || permit.AppliedAt.Before(dateMin) {
				dateMin = permit.AppliedAt
			}
			if permit.AppliedAt.After(dateMax) {
				dateMax = permit.AppliedAt
			}
		} else {
			missingDate++
		}
		if permit.HasCost() {
			totalCost += *permit.EstCost
			costCount++
		} else {
			missingCost++
		}
		if !permit.HasCoordinates() {
			missingCoords++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", total)
	printTypeBreakdown(typeCounts)
	fmt.Printf("Missing: date=%d cost=%d coords=%d\n", missingDate, missingCost, missingCoords)
	if !dateMin.IsZero() {
		fmt.Printf("Date range: %s to %s\n", dateMin.Format("2006-01-02"), dateMax.Format("2006-01-02"))
	}
	fmt.Printf("Total cost: %.2f over %d records\n", totalCost, costCount)
}

func printTypeBreakdown(counts map[string]int) {
	tc := make([]typeCount, 0, len(counts))
	for name, c := range counts {
		tc = append(tc, typeCount{name, c})
	}
	sort.Slice(tc, func(i, j int) bool { return tc[i].count > tc[j].count })
	fmt.Printf("By type (%d): ", len(tc))
	for _, t := range tc {
		fmt.Printf("%s=%d ", t.name, t.count)
	}
	fmt.Println()
}
