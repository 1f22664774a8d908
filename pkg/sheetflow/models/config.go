package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// HeaderMode selects which grid dimension carries the header.
type HeaderMode string

const (
	// HeaderModeRow treats sheet rows as the header dimension.
	HeaderModeRow HeaderMode = "row"
	// HeaderModeColumn transposes the sheet so its original columns
	// become candidate header rows.
	HeaderModeColumn HeaderMode = "column"
)

// ParseHeaderMode validates a header mode string.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch HeaderMode(s) {
	case HeaderModeRow, HeaderModeColumn:
		return HeaderMode(s), nil
	}
	return "", fmt.Errorf("invalid header mode %q (must be %q or %q)", s, HeaderModeRow, HeaderModeColumn)
}

// RowSpec is one excluded-row entry: either a single original row
// number or an inclusive "a-b" range. The token is kept verbatim so the
// extraction phase can stay lenient about entries the config-build
// phase never validated.
type RowSpec struct {
	Raw string
}

// SingleRow builds a RowSpec for one original row number.
func SingleRow(n int) RowSpec { return RowSpec{Raw: strconv.Itoa(n)} }

// RowRange builds a RowSpec for the inclusive range [start, end].
func RowRange(start, end int) RowSpec {
	return RowSpec{Raw: fmt.Sprintf("%d-%d", start, end)}
}

// Range resolves the spec into an inclusive [start, end] pair.
func (r RowSpec) Range() (start, end int, err error) {
	raw := strings.TrimSpace(r.Raw)
	if n, convErr := strconv.Atoi(raw); convErr == nil {
		return n, n, nil
	}
	left, right, ok := strings.Cut(raw, "-")
	if !ok {
		return 0, 0, fmt.Errorf("malformed row token %q", r.Raw)
	}
	start, errA := strconv.Atoi(strings.TrimSpace(left))
	end, errB := strconv.Atoi(strings.TrimSpace(right))
	if errA != nil || errB != nil {
		return 0, 0, fmt.Errorf("malformed row range %q", r.Raw)
	}
	if start > end {
		return 0, 0, fmt.Errorf("row range %q runs backwards", r.Raw)
	}
	return start, end, nil
}

// MarshalJSON writes single rows as JSON numbers and ranges as strings,
// matching the config document shape.
func (r RowSpec) MarshalJSON() ([]byte, error) {
	if _, err := strconv.Atoi(strings.TrimSpace(r.Raw)); err == nil {
		return []byte(strings.TrimSpace(r.Raw)), nil
	}
	return json.Marshal(r.Raw)
}

// UnmarshalJSON accepts any scalar token. Validity is checked later:
// strictly when building a config, leniently when expanding one.
func (r *RowSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Raw = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		r.Raw = n.String()
		return nil
	}
	r.Raw = string(data)
	return nil
}

// SheetConfig is the persisted header boundary for one sheet.
type SheetConfig struct {
	// HeaderRow is the 1-based row where the header span ends.
	HeaderRow int `json:"header_row"`
	// MergeRows is the number of rows composing the header span.
	MergeRows int `json:"merge_rows"`
	// ExcludedRows lists original row numbers (or ranges) to drop from
	// the data block.
	ExcludedRows []RowSpec `json:"excluded_rows"`
}

// SheetConfigs is an insertion-ordered sheet name to SheetConfig map.
// JSON object key order is preserved on both marshal and unmarshal so
// the processing phase walks sheets in the order the config lists them.
type SheetConfigs struct {
	names   []string
	configs map[string]SheetConfig
}

// Set stores a sheet config, appending the name on first insert.
func (s *SheetConfigs) Set(name string, cfg SheetConfig) {
	if s.configs == nil {
		s.configs = make(map[string]SheetConfig)
	}
	if _, ok := s.configs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.configs[name] = cfg
}

// Get looks up a sheet config by name.
func (s SheetConfigs) Get(name string) (SheetConfig, bool) {
	cfg, ok := s.configs[name]
	return cfg, ok
}

// Names returns the sheet names in insertion order.
func (s SheetConfigs) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of sheets.
func (s SheetConfigs) Len() int { return len(s.names) }

// MarshalJSON emits a JSON object whose keys follow insertion order.
func (s SheetConfigs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.configs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (s *SheetConfigs) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sheets: expected JSON object, got %v", tok)
	}
	s.names = nil
	s.configs = make(map[string]SheetConfig)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sheets: unexpected key token %v", keyTok)
		}
		var cfg SheetConfig
		if err := dec.Decode(&cfg); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		s.Set(name, cfg)
	}
	_, err = dec.Token()
	return err
}

// WorkbookConfig is the persisted contract between the configuration
// phase and the extraction phase. It is written once and treated as
// read-only afterward.
type WorkbookConfig struct {
	InputFile  string       `json:"input_file"`
	HeaderMode HeaderMode   `json:"header_mode"`
	Sheets     SheetConfigs `json:"sheets"`
}
