// Package sheetflow turns irregular spreadsheet workbooks into ordered
// streams of flat records, in two phases: a configuration phase that
// infers each sheet's header boundary and persists it, and an
// extraction phase that replays that boundary to emit records.
package sheetflow

import "github.com/sheetflow-io/sheetflow-go/pkg/sheetflow/parser"

// Options configures detection and processing behavior.
type Options struct {
	// MaxScanRows bounds how many leading rows header detection
	// examines. Zero means parser.DefaultMaxScanRows.
	MaxScanRows int
	// SeparatedOutput writes one file per record instead of one JSONL
	// file per sheet.
	SeparatedOutput bool
}

// DefaultOptions returns the default processing options.
func DefaultOptions() Options {
	return Options{MaxScanRows: parser.DefaultMaxScanRows}
}
