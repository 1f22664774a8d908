package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowSpecRange(t *testing.T) {
	start, end, err := SingleRow(7).Range()
	require.NoError(t, err)
	assert.Equal(t, 7, start)
	assert.Equal(t, 7, end)

	start, end, err = RowRange(18, 134).Range()
	require.NoError(t, err)
	assert.Equal(t, 18, start)
	assert.Equal(t, 134, end)

	_, _, err = RowSpec{Raw: "abc"}.Range()
	assert.Error(t, err)

	_, _, err = RowSpec{Raw: "9-x"}.Range()
	assert.Error(t, err)

	_, _, err = RowSpec{Raw: "10-5"}.Range()
	assert.Error(t, err)
}

func TestRowSpecWireShape(t *testing.T) {
	// Single rows serialize as numbers, ranges as strings.
	data, err := json.Marshal([]RowSpec{SingleRow(7), RowRange(9, 11)})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "9-11"]`, string(data))

	var specs []RowSpec
	require.NoError(t, json.Unmarshal([]byte(`[7, "9-11"]`), &specs))
	require.Len(t, specs, 2)
	assert.Equal(t, "7", specs[0].Raw)
	assert.Equal(t, "9-11", specs[1].Raw)
}

func TestRowSpecUnmarshalKeepsBadTokens(t *testing.T) {
	// Malformed tokens load without error; validity is the consumer's
	// concern, strict at build time and lenient at extraction time.
	var specs []RowSpec
	require.NoError(t, json.Unmarshal([]byte(`["oops", "3-"]`), &specs))
	require.Len(t, specs, 2)
	_, _, err := specs[0].Range()
	assert.Error(t, err)
}

func TestSheetConfigsPreserveOrder(t *testing.T) {
	var sheets SheetConfigs
	sheets.Set("Zebra", SheetConfig{HeaderRow: 2, MergeRows: 1, ExcludedRows: []RowSpec{}})
	sheets.Set("Alpha", SheetConfig{HeaderRow: 1, MergeRows: 1, ExcludedRows: []RowSpec{}})
	sheets.Set("Middle", SheetConfig{HeaderRow: 3, MergeRows: 2, ExcludedRows: []RowSpec{}})

	data, err := json.Marshal(sheets)
	require.NoError(t, err)

	var decoded SheetConfigs
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []string{"Zebra", "Alpha", "Middle"}, decoded.Names())

	cfg, ok := decoded.Get("Middle")
	require.True(t, ok)
	assert.Equal(t, 3, cfg.HeaderRow)
	assert.Equal(t, 2, cfg.MergeRows)
}

func TestWorkbookConfigRoundTrip(t *testing.T) {
	cfg := WorkbookConfig{
		InputFile:  "data/report.xlsx",
		HeaderMode: HeaderModeRow,
	}
	cfg.Sheets.Set("Sales", SheetConfig{
		HeaderRow:    3,
		MergeRows:    2,
		ExcludedRows: []RowSpec{SingleRow(7), RowRange(18, 134)},
	})
	cfg.Sheets.Set("Inventory", SheetConfig{
		HeaderRow:    1,
		MergeRows:    1,
		ExcludedRows: []RowSpec{},
	})

	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	var decoded WorkbookConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, cfg, decoded)
}

func TestParseHeaderMode(t *testing.T) {
	mode, err := ParseHeaderMode("row")
	require.NoError(t, err)
	assert.Equal(t, HeaderModeRow, mode)

	mode, err = ParseHeaderMode("column")
	require.NoError(t, err)
	assert.Equal(t, HeaderModeColumn, mode)

	_, err = ParseHeaderMode("diagonal")
	assert.Error(t, err)
}
