package domain

import "fmt"

// LoadError reports that the permit source could not be loaded at all:
// unreachable file or URL, an HTTP error status, or a header that does not
// look like the building-permits schema. A LoadError aborts the run; no
// partial dataset or views are produced.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// RecordError reports a single unusable input row. It never aborts the run:
// the loader skips the row, counts it in the LoadReport, and moves on.
type RecordError struct {
	Row    int // 1-based data row number, excluding the header
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}
