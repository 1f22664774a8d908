package sheetflow

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"
)

// Override supplies a manual header boundary for one sheet, bypassing
// automatic detection.
type Override struct {
	HeaderRow    int
	MergeRows    int
	ExcludedRows []models.RowSpec
}

// BuildConfig analyzes every sheet of the input workbook and assembles
// the config document shared with the extraction phase. Sheets with an
// entry in overrides skip detection; their excluded rows are validated
// strictly and any violation fails the build.
func BuildConfig(inputPath string, mode models.HeaderMode, overrides map[string]Override, opts Options, logger *zap.Logger) (*models.WorkbookConfig, error) {
	names, err := parser.ListSheets(inputPath)
	if err != nil {
		return nil, err
	}
	logger.Info("workbook opened", zap.String("input", inputPath), zap.Int("sheets", len(names)))

	f, err := excelize.OpenFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	cfg := &models.WorkbookConfig{InputFile: inputPath, HeaderMode: mode}
	for _, name := range names {
		logger.Info("analyzing sheet", zap.String("sheet", name))
		var sc models.SheetConfig
		if ov, ok := overrides[name]; ok {
			sc, err = applyOverride(name, ov, logger)
			if err != nil {
				return nil, err
			}
		} else {
			sc = detectSheetConfig(f, name, mode, opts, logger)
		}
		cfg.Sheets.Set(name, sc)
	}
	return cfg, nil
}

// detectSheetConfig runs header detection for one sheet. A load failure
// is reported and falls back to the default single-row header.
func detectSheetConfig(f *excelize.File, name string, mode models.HeaderMode, opts Options, logger *zap.Logger) models.SheetConfig {
	boundary := parser.DefaultBoundary()
	grid, err := parser.LoadGrid(f, name)
	if err != nil {
		logger.Warn("header detection failed, defaulting to first row",
			zap.String("sheet", name), zap.Error(err))
	} else {
		if mode == models.HeaderModeColumn {
			grid = grid.Transpose()
		}
		boundary = parser.DetectHeader(grid, opts.MaxScanRows)
		logger.Info("header detected",
			zap.String("sheet", name),
			zap.Int("header_row", boundary.HeaderRow),
			zap.Int("merge_rows", boundary.MergeRows))
	}
	return models.SheetConfig{
		HeaderRow:    boundary.HeaderRow,
		MergeRows:    boundary.MergeRows,
		ExcludedRows: []models.RowSpec{},
	}
}

// applyOverride normalizes a caller-supplied boundary. A merge count
// exceeding the header row is clamped with a warning; excluded rows are
// validated strictly.
func applyOverride(name string, ov Override, logger *zap.Logger) (models.SheetConfig, error) {
	headerRow := ov.HeaderRow
	if headerRow < 1 {
		headerRow = 1
	}
	mergeRows := ov.MergeRows
	if mergeRows < 1 {
		mergeRows = 1
	}
	if mergeRows > headerRow {
		logger.Warn("merge rows exceed header row, clamping",
			zap.String("sheet", name),
			zap.Int("merge_rows", mergeRows),
			zap.Int("header_row", headerRow))
		mergeRows = headerRow
	}
	excluded := ov.ExcludedRows
	if excluded == nil {
		excluded = []models.RowSpec{}
	}
	if err := ValidateExcludedRows(excluded, headerRow); err != nil {
		return models.SheetConfig{}, fmt.Errorf("sheet %q: %w", name, err)
	}
	return models.SheetConfig{
		HeaderRow:    headerRow,
		MergeRows:    mergeRows,
		ExcludedRows: excluded,
	}, nil
}

// ValidateExcludedRows applies the strict config-build rules: every
// token must parse as an integer or an a-b range with a <= b, and every
// resulting row must sit strictly below the header row. The first
// violation rejects the entire batch.
//
// The extraction phase deliberately does not reuse this: it skips bad
// tokens with a warning and accepts whatever the persisted config says.
func ValidateExcludedRows(specs []models.RowSpec, headerRow int) error {
	for _, spec := range specs {
		start, _, err := spec.Range()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExcludedRows, err)
		}
		if start <= headerRow {
			return fmt.Errorf("%w: row %d does not follow header row %d", ErrExcludedRows, start, headerRow)
		}
	}
	return nil
}

// SaveConfig persists the config document as one indented JSON file.
func SaveConfig(cfg *models.WorkbookConfig, path string) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

// LoadConfig reads and validates a persisted config document. A missing
// header_mode defaults to row orientation.
func LoadConfig(path string) (*models.WorkbookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg models.WorkbookConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}
	if cfg.HeaderMode == "" {
		cfg.HeaderMode = models.HeaderModeRow
	}
	if _, err := models.ParseHeaderMode(string(cfg.HeaderMode)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigMalformed, err)
	}
	if cfg.InputFile == "" || cfg.Sheets.Len() == 0 {
		return nil, fmt.Errorf("%w: input_file and sheets are required", ErrConfigMalformed)
	}
	return &cfg, nil
}
