package parser

import (
	"github.com/xuri/excelize/v2"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
)

// Grid is a sheet's raw cells: outer slice rows, inner slice columns.
// Rows may be ragged; missing trailing cells read as null.
type Grid [][]models.CellValue

// LoadGrid reads a whole sheet into memory as typed cell values.
func LoadGrid(f *excelize.File, sheetName string) (Grid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]models.CellValue, len(row))
		for j, raw := range row {
			cells[j] = models.ParseCell(raw)
		}
		grid[i] = cells
	}
	return grid, nil
}

// Width returns the widest row length.
func (g Grid) Width() int {
	w := 0
	for _, row := range g {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Cell returns the value at (row, col), null when out of range.
func (g Grid) Cell(row, col int) models.CellValue {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return models.NullValue()
	}
	return g[row][col]
}

// Transpose flips rows and columns, padding ragged rows with nulls so
// every original column becomes a complete row.
func (g Grid) Transpose() Grid {
	width := g.Width()
	if width == 0 {
		return nil
	}
	out := make(Grid, width)
	for c := 0; c < width; c++ {
		row := make([]models.CellValue, len(g))
		for r := range g {
			if c < len(g[r]) {
				row[r] = g[r][c]
			}
		}
		out[c] = row
	}
	return out
}
