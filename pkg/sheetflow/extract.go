package sheetflow

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"
)

// ExtractSheet reads one sheet according to its persisted config and
// returns the cleaned columns, data rows and metadata string. Failures
// are wrapped in a SheetError so the caller can isolate them per sheet.
func ExtractSheet(f *excelize.File, sheetName string, cfg models.SheetConfig, mode models.HeaderMode, logger *zap.Logger) (*models.ExtractedSheet, error) {
	grid, err := parser.LoadGrid(f, sheetName)
	if err != nil {
		return nil, newSheetError(sheetName, "load", err)
	}
	if mode == models.HeaderModeColumn {
		grid = grid.Transpose()
	}
	if len(grid) == 0 {
		return &models.ExtractedSheet{Name: sheetName}, nil
	}

	headerRow := cfg.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	mergeRows := cfg.MergeRows
	if mergeRows < 1 {
		mergeRows = 1
	}
	if mergeRows > headerRow {
		mergeRows = headerRow
	}
	if len(grid) < headerRow {
		return nil, newSheetError(sheetName, "extract",
			fmt.Errorf("header row %d beyond sheet end (%d rows)", headerRow, len(grid)))
	}

	// Header span occupies 1-based rows [headerRow-mergeRows+1,
	// headerRow]. Rows before it are metadata, rows after it are data.
	spanStart := headerRow - mergeRows
	metaRows := grid[:spanStart]
	headerRows := grid[spanStart:headerRow]

	// Fully blank raw rows vanish from the data block before anything
	// else, so original row numbers for exclusion count only visible
	// rows, the same numbering the configuration phase showed the user.
	dataRows := dropBlankRows(grid[headerRow:])

	// Columns entirely empty across the metadata+header block are
	// formatting artifacts (blank spacers), dropped everywhere. Sparse
	// data columns below the header are untouched.
	keep := keptColumns(grid[:headerRow], grid.Width())

	columns, srcIdx := mergeHeaders(headerRows, keep)

	rows := projectRows(dataRows, srcIdx)
	coerceWholeColumns(rows, len(columns))
	rows = applyExclusions(rows, cfg.ExcludedRows, headerRow, sheetName, logger)
	rows = pruneEmptyRows(rows)

	return &models.ExtractedSheet{
		Name:     sheetName,
		Columns:  columns,
		Rows:     rows,
		Metadata: buildMetadata(metaRows, keep),
	}, nil
}

// keptColumns reports, per column position, whether the metadata+header
// block holds at least one non-empty cell there.
func keptColumns(block parser.Grid, width int) []bool {
	keep := make([]bool, width)
	for _, row := range block {
		for c, v := range row {
			if !v.IsEmpty() {
				keep[c] = true
			}
		}
	}
	return keep
}

// Pandas-style auto names occasionally survive in configs produced by
// other tooling; treat them as unnamed.
func isPlaceholderName(name string) bool {
	return strings.HasPrefix(name, "Unnamed:")
}

// mergeHeaders joins the header span into one name per kept column,
// trimming each cell and joining with " - ". A single-row span yields
// the cell text as-is. Positions whose merged name resolves empty stay
// nameless and are dropped from the data.
func mergeHeaders(headerRows parser.Grid, keep []bool) (columns []string, srcIdx []int) {
	for c, kept := range keep {
		if !kept {
			continue
		}
		var parts []string
		for _, row := range headerRows {
			var v models.CellValue
			if c < len(row) {
				v = row[c]
			}
			text := strings.TrimSpace(v.String())
			if text == "" || isPlaceholderName(text) {
				continue
			}
			parts = append(parts, text)
		}
		name := strings.TrimSpace(strings.Join(parts, " - "))
		if name == "" || isPlaceholderName(name) {
			continue
		}
		columns = append(columns, name)
		srcIdx = append(srcIdx, c)
	}
	return columns, srcIdx
}

// projectRows narrows each data row to the kept, named columns.
func projectRows(dataRows parser.Grid, srcIdx []int) [][]models.CellValue {
	rows := make([][]models.CellValue, len(dataRows))
	for i, src := range dataRows {
		row := make([]models.CellValue, len(srcIdx))
		for j, c := range srcIdx {
			if c < len(src) {
				row[j] = src[c]
			}
		}
		rows[i] = row
	}
	return rows
}

// coerceWholeColumns casts a column to integers when every present
// value is numeric and every real among them is a whole number. Columns
// with any fractional or non-numeric value are left as-is; there is no
// warning for a column that fails the cast.
func coerceWholeColumns(rows [][]models.CellValue, ncols int) {
	for c := 0; c < ncols; c++ {
		hasReal := false
		castable := true
		for _, row := range rows {
			switch v := row[c]; v.Kind {
			case models.KindNull, models.KindInteger:
			case models.KindReal:
				hasReal = true
				if !v.IsWholeReal() {
					castable = false
				}
			default:
				castable = false
			}
			if !castable {
				break
			}
		}
		if !hasReal || !castable {
			continue
		}
		for i := range rows {
			if rows[i][c].Kind == models.KindReal {
				rows[i][c] = models.IntegerValue(int64(rows[i][c].Real))
			}
		}
	}
}

// expandExcludedRows resolves the excluded-row specs into original row
// numbers. Malformed tokens are skipped with a warning; this side stays
// lenient on purpose while config building validates strictly.
func expandExcludedRows(specs []models.RowSpec, sheetName string, logger *zap.Logger) map[int]struct{} {
	out := make(map[int]struct{})
	for _, spec := range specs {
		start, end, err := spec.Range()
		if err != nil {
			logger.Warn("skipping unparseable excluded row",
				zap.String("sheet", sheetName),
				zap.String("token", spec.Raw),
				zap.Error(err))
			continue
		}
		for n := start; n <= end; n++ {
			out[n] = struct{}{}
		}
	}
	return out
}

// applyExclusions drops the data rows named by the config. Original row
// numbers map to data indices via original - (headerRow + 1); indices
// outside the data block are already absent and silently ignored.
func applyExclusions(rows [][]models.CellValue, specs []models.RowSpec, headerRow int, sheetName string, logger *zap.Logger) [][]models.CellValue {
	if len(specs) == 0 {
		return rows
	}
	drop := make(map[int]struct{})
	for original := range expandExcludedRows(specs, sheetName, logger) {
		idx := original - (headerRow + 1)
		if idx >= 0 && idx < len(rows) {
			drop[idx] = struct{}{}
		}
	}
	if len(drop) == 0 {
		logger.Info("no excluded rows fall within the data block",
			zap.String("sheet", sheetName))
		return rows
	}
	out := make([][]models.CellValue, 0, len(rows)-len(drop))
	for i, row := range rows {
		if _, ok := drop[i]; ok {
			continue
		}
		out = append(out, row)
	}
	logger.Info("excluded rows removed",
		zap.String("sheet", sheetName),
		zap.Int("count", len(rows)-len(out)))
	return out
}

// dropBlankRows removes rows with no content anywhere in the raw grid.
func dropBlankRows(rows parser.Grid) parser.Grid {
	out := make(parser.Grid, 0, len(rows))
	for _, row := range rows {
		blank := true
		for _, v := range row {
			if !v.IsEmpty() {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// pruneEmptyRows drops data rows that are empty across all kept
// columns. Blank raw rows are gone by now; this catches rows whose only
// content sat in dropped columns.
func pruneEmptyRows(rows [][]models.CellValue) [][]models.CellValue {
	out := make([][]models.CellValue, 0, len(rows))
	for _, row := range rows {
		empty := true
		for _, v := range row {
			if !v.IsEmpty() {
				empty = false
				break
			}
		}
		if !empty {
			out = append(out, row)
		}
	}
	return out
}

// buildMetadata collapses the pre-header block into one descriptive
// string: non-empty cells joined by single spaces within a row, rows
// that survive joined by " | ". Newlines inside cells flatten to spaces.
func buildMetadata(metaRows parser.Grid, keep []bool) string {
	var lines []string
	for _, row := range metaRows {
		var cells []string
		for c, v := range row {
			if c < len(keep) && !keep[c] {
				continue
			}
			text := strings.TrimSpace(strings.ReplaceAll(v.String(), "\n", " "))
			if text == "" {
				continue
			}
			cells = append(cells, text)
		}
		if line := strings.Join(cells, " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " | ")
}
