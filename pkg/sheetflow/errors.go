package sheetflow

import (
	"errors"
	"fmt"
)

// ErrConfigMalformed indicates the persisted config document cannot be
// decoded or is missing required fields.
var ErrConfigMalformed = errors.New("malformed config document")

// ErrPersist indicates the config document could not be written.
var ErrPersist = errors.New("cannot persist config document")

// ErrExcludedRows indicates an excluded-row batch failed strict
// validation at config-build time. One bad token rejects the batch.
var ErrExcludedRows = errors.New("invalid excluded rows")

// SheetError is a failure scoped to a single sheet. It isolates one
// sheet's problem so the remaining sheets of a run still process; the
// failed sheet contributes zero records.
type SheetError struct {
	Sheet string
	Stage string // "load", "extract", "write"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func newSheetError(sheet, stage string, err error) *SheetError {
	return &SheetError{Sheet: sheet, Stage: stage, Err: err}
}
