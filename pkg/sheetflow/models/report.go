package models

import "github.com/google/uuid"

// SheetResult is the outcome for one sheet of a processing run. A
// failed sheet carries its error and contributes zero records.
type SheetResult struct {
	Sheet   string
	Records int
	Err     error
}

// RunReport aggregates per-sheet results for a single processing run.
type RunReport struct {
	RunID   uuid.UUID
	Results []SheetResult
}

// NewRunReport creates a report with a fresh run ID.
func NewRunReport() *RunReport {
	return &RunReport{RunID: uuid.New()}
}

// Add appends one sheet's result.
func (r *RunReport) Add(res SheetResult) {
	r.Results = append(r.Results, res)
}

// TotalRecords sums the records emitted across all sheets.
func (r *RunReport) TotalRecords() int {
	total := 0
	for _, res := range r.Results {
		total += res.Records
	}
	return total
}

// Failed returns the results of sheets that did not process cleanly.
func (r *RunReport) Failed() []SheetResult {
	var out []SheetResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}
