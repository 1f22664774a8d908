package models

// ExtraInfoField is the synthesized record field carrying the sheet's
// metadata string.
const ExtraInfoField = "ExtraInfo"

// ExtractedSheet is the cleaned output of one sheet: resolved column
// names, data rows aligned with those columns, and the collapsed
// pre-header metadata string.
type ExtractedSheet struct {
	Name     string
	Columns  []string
	Rows     [][]CellValue
	Metadata string
}

// Record is one flat output row, column name to JSON-ready scalar.
type Record map[string]interface{}

// Records renders the sheet's rows into flat records. The metadata
// string is attached as ExtraInfo when non-empty.
func (s *ExtractedSheet) Records() []Record {
	records := make([]Record, 0, len(s.Rows))
	for _, row := range s.Rows {
		rec := make(Record, len(s.Columns)+1)
		for i, col := range s.Columns {
			if i < len(row) {
				rec[col] = row[i].Render()
			} else {
				rec[col] = nil
			}
		}
		if s.Metadata != "" {
			rec[ExtraInfoField] = s.Metadata
		}
		records = append(records, rec)
	}
	return records
}
