// Package models defines data structures for workbook extraction.
package models

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a CellValue.
type Kind int

const (
	// KindNull is an empty cell.
	KindNull Kind = iota
	// KindInteger is a whole-number cell.
	KindInteger
	// KindReal is a floating-point cell.
	KindReal
	// KindText is a plain text cell.
	KindText
	// KindDate is a calendar-date cell with no time component.
	KindDate
	// KindTime is a time-of-day cell with no date component.
	KindTime
	// KindDateTime is a combined date-and-time cell.
	KindDateTime
)

// CellValue is a tagged variant for a single spreadsheet cell.
// The zero value is the null cell.
type CellValue struct {
	Kind Kind
	Int  int64
	Real float64
	Text string
	// TS carries the temporal payload for Date, Time and DateTime kinds.
	TS time.Time
}

// NullValue returns an empty cell value.
func NullValue() CellValue { return CellValue{} }

// IntegerValue returns a whole-number cell value.
func IntegerValue(i int64) CellValue { return CellValue{Kind: KindInteger, Int: i} }

// RealValue returns a floating-point cell value.
func RealValue(f float64) CellValue { return CellValue{Kind: KindReal, Real: f} }

// TextValue returns a plain-text cell value.
func TextValue(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

// DateValue returns a date-only cell value.
func DateValue(t time.Time) CellValue { return CellValue{Kind: KindDate, TS: t} }

// TimeValue returns a time-only cell value.
func TimeValue(t time.Time) CellValue { return CellValue{Kind: KindTime, TS: t} }

// DateTimeValue returns a combined date-and-time cell value.
func DateTimeValue(t time.Time) CellValue { return CellValue{Kind: KindDateTime, TS: t} }

// Candidate layouts for the formatted strings excelize returns for
// styled cells. Ordered most to least specific.
var (
	dateTimeLayouts = []string{
		"2006-01-02 15:04:05",
		"2006/01/02 15:04:05",
		"01-02-06 15:04:05",
		"1/2/06 15:04",
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006/01/02",
		"01-02-06",
		"1/2/2006",
	}
	timeLayouts = []string{
		"15:04:05",
		"15:04",
		"3:04:05 PM",
		"3:04 PM",
	}
)

// ParseCell interprets a raw cell string as a typed value: empty,
// integer, real, a known temporal layout, or plain text.
func ParseCell(raw string) CellValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NullValue()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// NaN and Inf have no JSON representation; keep the text.
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			return RealValue(f)
		}
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateTimeValue(t)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateValue(t)
		}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue(t)
		}
	}
	return TextValue(s)
}

// IsEmpty reports whether the cell holds no value.
func (v CellValue) IsEmpty() bool { return v.Kind == KindNull }

// IsNumeric reports whether the cell holds an integer or real number.
func (v CellValue) IsNumeric() bool {
	return v.Kind == KindInteger || v.Kind == KindReal
}

// IsTemporal reports whether the cell holds a date, time or datetime.
func (v CellValue) IsTemporal() bool {
	return v.Kind == KindDate || v.Kind == KindTime || v.Kind == KindDateTime
}

// IsWholeReal reports whether the cell is a real number with no
// fractional part that fits an int64.
func (v CellValue) IsWholeReal() bool {
	return v.Kind == KindReal &&
		v.Real == math.Trunc(v.Real) &&
		v.Real >= math.MinInt64 && v.Real <= math.MaxInt64
}

// String renders the cell as text. Null cells render empty.
func (v CellValue) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindReal:
		return strconv.FormatFloat(v.Real, 'f', -1, 64)
	case KindText:
		return v.Text
	case KindDate:
		return v.TS.Format("2006-01-02")
	case KindTime:
		return v.TS.Format("15:04:05")
	case KindDateTime:
		return v.formatDateTime()
	}
	return ""
}

// Render returns the JSON-ready scalar for the cell. Datetimes at
// exactly midnight collapse to a date-only string.
func (v CellValue) Render() interface{} {
	switch v.Kind {
	case KindNull:
		return nil
	case KindInteger:
		return v.Int
	case KindReal:
		return v.Real
	case KindText:
		return v.Text
	case KindDate:
		return v.TS.Format("2006-01-02")
	case KindTime:
		return v.TS.Format("15:04:05")
	case KindDateTime:
		return v.formatDateTime()
	}
	return nil
}

func (v CellValue) formatDateTime() string {
	h, m, s := v.TS.Clock()
	if h == 0 && m == 0 && s == 0 && v.TS.Nanosecond() == 0 {
		return v.TS.Format("2006-01-02")
	}
	return v.TS.Format("2006-01-02T15:04:05")
}
