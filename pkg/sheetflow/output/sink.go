// Package output writes extracted records to disk as newline-delimited
// JSON or as one file per record.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/models"
)

var unsafeChars = regexp.MustCompile(`[^\w-]`)

// SanitizeSheetName makes a sheet name safe for use in a filename:
// trimmed, spaces replaced with underscores, everything outside word
// characters and hyphens dropped.
func SanitizeSheetName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
	return unsafeChars.ReplaceAllString(name, "")
}

// WriteCombined writes every record of a sheet to a single JSONL file,
// one JSON object per line, and returns the record count.
func WriteCombined(dir, workbookBase, sheetName string, records []models.Record) (int, error) {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.jsonl", workbookBase, SanitizeSheetName(sheetName)))
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return 0, err
		}
	}
	return len(records), nil
}

// WriteSeparated writes one JSON file per record, named by the
// sanitized sheet name plus a zero-based record index, and returns the
// record count.
func WriteSeparated(dir, sheetName string, records []models.Record) (int, error) {
	base := SanitizeSheetName(sheetName)
	for i, rec := range records {
		data, err := marshalRecord(rec)
		if err != nil {
			return i, err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.json", base, i))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return i, err
		}
	}
	return len(records), nil
}

func marshalRecord(rec models.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
