// Package parser reads raw workbook grids and infers header boundaries.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrSourceNotFound indicates the workbook path does not exist.
var ErrSourceNotFound = errors.New("source workbook not found")

// ErrUnsupportedFormat indicates the file extension is not a recognized
// spreadsheet type.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// Extensions excelize can open. The legacy binary .xls format is not
// OOXML and cannot be read, so it is rejected as unsupported.
var supportedExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// ListSheets returns the workbook's sheet names in workbook order.
func ListSheets(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
