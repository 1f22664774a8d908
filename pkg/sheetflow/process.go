package sheetflow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/output"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"
)

// ProcessWorkbook runs the extraction phase for every sheet named by
// the config, in config order, writing record streams into outDir.
// Per-sheet failures are collected in the report; only structural
// problems (missing workbook, unwritable output dir) abort the run.
func ProcessWorkbook(cfg *models.WorkbookConfig, outDir string, opts Options, logger *zap.Logger) (*models.RunReport, error) {
	report := models.NewRunReport()
	logger = logger.With(zap.String("run_id", report.RunID.String()))
	logger.Info("processing workbook",
		zap.String("input", cfg.InputFile),
		zap.String("header_mode", string(cfg.HeaderMode)),
		zap.Int("sheets", cfg.Sheets.Len()))

	if _, err := os.Stat(cfg.InputFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", parser.ErrSourceNotFound, cfg.InputFile)
	}
	f, err := excelize.OpenFile(cfg.InputFile)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(cfg.InputFile), filepath.Ext(cfg.InputFile))
	for _, name := range cfg.Sheets.Names() {
		sc, _ := cfg.Sheets.Get(name)
		result := processSheet(f, name, sc, cfg.HeaderMode, base, outDir, opts, logger)
		report.Add(result)
		if result.Err != nil {
			logger.Warn("sheet skipped", zap.String("sheet", name), zap.Error(result.Err))
			continue
		}
		logger.Info("sheet processed", zap.String("sheet", name), zap.Int("records", result.Records))
	}

	logger.Info("processing complete",
		zap.Int("sheets", len(report.Results)),
		zap.Int("failed", len(report.Failed())),
		zap.Int("total_records", report.TotalRecords()))
	return report, nil
}

func processSheet(f *excelize.File, name string, sc models.SheetConfig, mode models.HeaderMode, base, outDir string, opts Options, logger *zap.Logger) models.SheetResult {
	sheet, err := ExtractSheet(f, name, sc, mode, logger)
	if err != nil {
		return models.SheetResult{Sheet: name, Err: err}
	}
	records := sheet.Records()
	if len(records) == 0 {
		logger.Info("sheet empty after cleaning", zap.String("sheet", name))
		return models.SheetResult{Sheet: name}
	}

	var n int
	if opts.SeparatedOutput {
		n, err = output.WriteSeparated(outDir, name, records)
	} else {
		n, err = output.WriteCombined(outDir, base, name, records)
	}
	if err != nil {
		return models.SheetResult{Sheet: name, Err: newSheetError(name, "write", err)}
	}
	return models.SheetResult{Sheet: name, Records: n}
}
