package sheetflow

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"
)

func readJSONL(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		out = append(out, rec)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestProcessWorkbookEndToEnd(t *testing.T) {
	// Full two-phase flow: build and persist the config, reload it,
	// process, and read the emitted record stream back.
	input := saveFixture(t, []string{"Sales"}, map[string][][]interface{}{
		"Sales": {
			{"Report 2024-01-01"},
			{nil},
			{"Region", "Sales", "Qty"},
			{"North", 100, 5},
			{"South", 200, 7},
		},
	})

	cfg, err := BuildConfig(input, models.HeaderModeRow, nil, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(cfg, configPath))
	loaded, err := LoadConfig(configPath)
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "out")
	report, err := ProcessWorkbook(loaded, outDir, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalRecords())
	assert.Empty(t, report.Failed())

	base := "book_Sales.jsonl"
	records := readJSONL(t, filepath.Join(outDir, base))
	require.Len(t, records, 2)
	assert.Equal(t, "North", records[0]["Region"])
	// JSON numbers decode as float64 on the way back.
	assert.Equal(t, float64(100), records[0]["Sales"])
	assert.Equal(t, "Report 2024-01-01", records[0]["ExtraInfo"])
	assert.Equal(t, "South", records[1]["Region"])
}

func TestProcessWorkbookSeparatedOutput(t *testing.T) {
	input := saveFixture(t, []string{"My Sales"}, map[string][][]interface{}{
		"My Sales": {
			{"Region", "Qty"},
			{"North", 5},
			{"South", 7},
		},
	})

	cfg, err := BuildConfig(input, models.HeaderModeRow, nil, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "out")
	opts := DefaultOptions()
	opts.SeparatedOutput = true
	report, err := ProcessWorkbook(cfg, outDir, opts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalRecords())

	for _, name := range []string{"My_Sales_0.json", "My_Sales_1.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestProcessWorkbookSheetIsolation(t *testing.T) {
	// A sheet named in the config but absent from the workbook fails
	// alone; the remaining sheets still produce records.
	input := saveFixture(t, []string{"Good"}, map[string][][]interface{}{
		"Good": {
			{"Region", "Qty"},
			{"North", 5},
		},
	})

	cfg := &models.WorkbookConfig{InputFile: input, HeaderMode: models.HeaderModeRow}
	cfg.Sheets.Set("Ghost", models.SheetConfig{HeaderRow: 1, MergeRows: 1, ExcludedRows: []models.RowSpec{}})
	cfg.Sheets.Set("Good", models.SheetConfig{HeaderRow: 1, MergeRows: 1, ExcludedRows: []models.RowSpec{}})

	outDir := filepath.Join(t.TempDir(), "out")
	report, err := ProcessWorkbook(cfg, outDir, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, report.Results, 2)
	failed := report.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "Ghost", failed[0].Sheet)
	assert.Equal(t, 1, report.TotalRecords())
}

func TestProcessWorkbookMissingWorkbook(t *testing.T) {
	cfg := &models.WorkbookConfig{
		InputFile:  filepath.Join(t.TempDir(), "gone.xlsx"),
		HeaderMode: models.HeaderModeRow,
	}
	cfg.Sheets.Set("S", models.SheetConfig{HeaderRow: 1, MergeRows: 1, ExcludedRows: []models.RowSpec{}})

	_, err := ProcessWorkbook(cfg, t.TempDir(), DefaultOptions(), zap.NewNop())
	assert.ErrorIs(t, err, parser.ErrSourceNotFound)
}

func TestProcessWorkbookRunID(t *testing.T) {
	input := saveFixture(t, []string{"S"}, map[string][][]interface{}{
		"S": {{"Col"}, {"val"}},
	})
	cfg, err := BuildConfig(input, models.HeaderModeRow, nil, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)

	r1, err := ProcessWorkbook(cfg, filepath.Join(t.TempDir(), "a"), DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	r2, err := ProcessWorkbook(cfg, filepath.Join(t.TempDir(), "b"), DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	assert.NotEqual(t, r1.RunID, r2.RunID)
}
