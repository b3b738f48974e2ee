// Command validate checks a Seattle building permits CSV export before it
// is fed to the pipeline. It verifies the schema, row integrity, field
// sanity, and permit-number uniqueness, and exits non-zero when any phase
// fails. The pipeline itself tolerates dirty rows by skipping them; this
// tool exists to see how dirty an export is before trusting a run.
//
// Usage:
//
//	go run ./cmd/validate -csv building_permits.csv
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mycoleb/seattledionna/internal/domain"
)

var requiredColumns = []string{
	"PermitNum",
	"PermitTypeMapped",
	"AppliedDate",
	"EstProjectCost",
	"Latitude",
	"Longitude",
	"OriginalAddress1",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "permit CSV export to check")
	maxErrors := flag.Int("max-errors", 20, "errors to print per phase")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *maxErrors); code != 0 {
		os.Exit(code)
	}
}

func run(path string, maxErrors int) int {
	fmt.Println("=== Permit Export Validation ===")
	fmt.Println()

	header, rows, shapeErrs, err := loadCSV(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	fmt.Printf("%s: %d data rows\n", path, len(rows))

	phases := []*phase{
		validateSchema(header),
		validateRows(rows, shapeErrs),
		validateFields(rows),
		validateDuplicates(rows),
	}

	return report(phases, len(rows), maxErrors)
}

// rawRow is one data row with its ordinal position (header excluded).
type rawRow struct {
	num int
	rec domain.RawPermitRecord
}

func loadCSV(path string) ([]string, []rawRow, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var rows []rawRow
	var shapeErrs []string
	num := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		num++
		if err != nil {
			// The csv error already names the file line.
			shapeErrs = append(shapeErrs, err.Error())
			continue
		}
		rows = append(rows, rawRow{num: num, rec: toRaw(row, idx)})
	}
	if len(rows) == 0 && len(shapeErrs) == 0 {
		return nil, nil, nil, fmt.Errorf("no data rows in %s", path)
	}
	return header, rows, shapeErrs, nil
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

// ── Phase 1: Schema ──

func validateSchema(header []string) *phase {
	p := &phase{name: "Phase 1: Schema (required columns)"}
	// Case-insensitive: snapshots carry display-case names, SODA lowercases.
	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.ToLower(strings.TrimSpace(h))] = true
	}
	for _, col := range requiredColumns {
		if !have[strings.ToLower(col)] {
			p.errorf("missing column %q", col)
		}
	}
	return p
}

// ── Phase 2: Row integrity ──
// CSV shape errors and blank permit numbers: the rows the pipeline skips.

func validateRows(rows []rawRow, shapeErrs []string) *phase {
	p := &phase{name: "Phase 2: Row integrity (shape, permit number)"}
	p.errors = append(p.errors, shapeErrs...)

	for _, r := range rows {
		if strings.TrimSpace(r.rec.PermitNum) == "" {
			p.errorf("row %d: blank PermitNum", r.num)
		}
	}
	return p
}

// ── Phase 3: Field sanity ──
// Values the pipeline would silently coerce to missing, surfaced here.

func validateFields(rows []rawRow) *phase {
	p := &phase{name: "Phase 3: Field sanity (dates, costs, coordinates)"}
	now := time.Now().UTC()

	for _, r := range rows {
		permit, err := domain.ParseRecord(r.rec, r.num)
		if err != nil {
			continue // reported in phase 2
		}

		if strings.TrimSpace(r.rec.AppliedDate) != "" {
			if !permit.HasDate() {
				p.errorf("row %d: unparseable AppliedDate %q", r.num, r.rec.AppliedDate)
			} else if permit.AppliedAt.After(now) {
				p.errorf("row %d: AppliedDate %s is in the future", r.num, permit.AppliedAt.Format("2006-01-02"))
			}
		}

		if strings.TrimSpace(r.rec.EstProjectCost) != "" && !permit.HasCost() {
			p.errorf("row %d: unusable EstProjectCost %q", r.num, r.rec.EstProjectCost)
		}

		checkCoordinates(p, r)
	}
	return p
}

func checkCoordinates(p *phase, r rawRow) {
	lat := strings.TrimSpace(r.rec.Latitude)
	lon := strings.TrimSpace(r.rec.Longitude)
	if lat == "" && lon == "" {
		return
	}
	if lat == "" || lon == "" {
		p.errorf("row %d: one-sided coordinates (lat=%q, lon=%q)", r.num, lat, lon)
		return
	}
	latV, latErr := strconv.ParseFloat(lat, 64)
	lonV, lonErr := strconv.ParseFloat(lon, 64)
	if latErr != nil || lonErr != nil {
		p.errorf("row %d: unparseable coordinates (lat=%q, lon=%q)", r.num, lat, lon)
		return
	}
	if latV < -90 || latV > 90 || lonV < -180 || lonV > 180 {
		p.errorf("row %d: coordinates out of range (%g, %g)", r.num, latV, lonV)
	}
}

// ── Phase 4: Duplicates ──

func validateDuplicates(rows []rawRow) *phase {
	p := &phase{name: "Phase 4: Duplicate permit numbers"}
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		id := strings.TrimSpace(r.rec.PermitNum)
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			p.errorf("row %d: duplicate PermitNum %q (first at row %d)", r.num, id, first)
			continue
		}
		seen[id] = r.num
	}
	return p
}

// ── Reporting ──

func report(phases []*phase, rowCount, maxErrors int) int {
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-48s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows checked: %d\n", rowCount)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == maxErrors {
				fmt.Printf("  ... and %d more\n", len(p.errors)-maxErrors)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nExport looks clean.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}
