package reconcile

import "fmt"

// RowError is a per-row business rejection. It is reported as a warning and
// never aborts the batch.
type RowError struct {
	// Row is the 1-based position of the row in the submitted batch.
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func rejectRow(row int, format string, args ...any) *RowError {
	return &RowError{Row: row, Reason: fmt.Sprintf(format, args...)}
}
