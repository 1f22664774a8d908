package parser

import "github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"

// DefaultMaxScanRows bounds how many leading rows detection examines.
const DefaultMaxScanRows = 20

// dataRowRatio is the share of numeric-or-temporal cells, among
// non-empty cells, above which a row is classified as data.
const dataRowRatio = 0.4

// Boundary is a detected header position: the 1-based row where the
// header span ends and how many rows compose it.
type Boundary struct {
	HeaderRow int
	MergeRows int
}

// DefaultBoundary is the safe fallback when detection cannot run: a
// single header row at the top of the sheet.
func DefaultBoundary() Boundary { return Boundary{HeaderRow: 1, MergeRows: 1} }

// Strategy locates the header boundary within a raw grid prefix.
// Strategies report ok=false when the grid gives them nothing to work
// with, letting the next strategy try.
type Strategy interface {
	Name() string
	Detect(grid Grid, maxScanRows int) (Boundary, bool)
}

// Strategies returns the detection strategies in priority order.
func Strategies() []Strategy {
	return []Strategy{dataRowStrategy{}, maxNonEmptyStrategy{}}
}

// DetectHeader runs the strategies in order and falls back to the
// default boundary when none match. Column-mode callers transpose the
// grid before calling; the logic itself is row-oriented.
func DetectHeader(grid Grid, maxScanRows int) Boundary {
	if maxScanRows <= 0 {
		maxScanRows = DefaultMaxScanRows
	}
	for _, s := range Strategies() {
		if b, ok := s.Detect(grid, maxScanRows); ok {
			return b
		}
	}
	return DefaultBoundary()
}

// dataRowStrategy classifies the first row dominated by numeric or
// temporal cells as the first data row; the header ends just above it.
type dataRowStrategy struct{}

func (dataRowStrategy) Name() string { return "data-row-ratio" }

func (dataRowStrategy) Detect(grid Grid, maxScanRows int) (Boundary, bool) {
	limit := scanLimit(grid, maxScanRows)
	for i := 0; i < limit; i++ {
		nonEmpty, numeric := rowCounts(grid[i])
		if nonEmpty == 0 {
			continue
		}
		if float64(numeric)/float64(nonEmpty) > dataRowRatio {
			if i == 0 {
				// Data in the very first row leaves no room for a
				// header above it; designate row 1 as header anyway.
				return DefaultBoundary(), true
			}
			end := i - 1
			return Boundary{HeaderRow: end + 1, MergeRows: mergeSpan(grid, end)}, true
		}
	}
	return Boundary{}, false
}

// maxNonEmptyStrategy picks the row with the strictly greatest count of
// non-empty cells; the first occurrence wins on ties.
type maxNonEmptyStrategy struct{}

func (maxNonEmptyStrategy) Name() string { return "max-non-empty" }

func (maxNonEmptyStrategy) Detect(grid Grid, maxScanRows int) (Boundary, bool) {
	limit := scanLimit(grid, maxScanRows)
	if limit == 0 {
		return Boundary{}, false
	}
	best, bestCount := 0, -1
	for i := 0; i < limit; i++ {
		nonEmpty, _ := rowCounts(grid[i])
		if nonEmpty > bestCount {
			best, bestCount = i, nonEmpty
		}
	}
	return Boundary{HeaderRow: best + 1, MergeRows: mergeSpan(grid, best)}, true
}

func scanLimit(grid Grid, maxScanRows int) int {
	if len(grid) < maxScanRows {
		return len(grid)
	}
	return maxScanRows
}

// mergeSpan counts contiguous non-empty rows scanning upward from end
// (0-based, inclusive). A fully empty row breaks the header block, so a
// title separated from the header by a blank line is not merged in.
func mergeSpan(grid Grid, end int) int {
	span := 0
	for i := end; i >= 0; i-- {
		nonEmpty, _ := rowCounts(grid[i])
		if nonEmpty == 0 {
			break
		}
		span++
	}
	if span == 0 {
		span = 1
	}
	return span
}

func rowCounts(row []models.CellValue) (nonEmpty, numericOrTemporal int) {
	for _, v := range row {
		if v.IsEmpty() {
			continue
		}
		nonEmpty++
		if v.IsNumeric() || v.IsTemporal() {
			numericOrTemporal++
		}
	}
	return
}
