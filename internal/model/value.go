package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which member of a Value is populated.
type Kind string

const (
	// KindNull marks an absent or empty cell.
	KindNull Kind = "null"
	// KindString marks a text cell.
	KindString Kind = "string"
	// KindNumber marks a numeric cell. The number may be NaN when the source text was not numeric.
	KindNumber Kind = "number"
	// KindBoolean marks a true/false cell.
	KindBoolean Kind = "boolean"
	// KindDate marks a timestamp cell.
	KindDate Kind = "date"
)

// ISOLayout is the timestamp layout used whenever a date value is rendered as text.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Value is a single typed spreadsheet cell.
type Value struct {
	Time time.Time
	Kind Kind
	Str  string
	Num  float64
	Bool bool
}

// Null returns the empty value.
func Null() Value { return Value{Kind: KindNull} }

// String returns a text value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// Date returns a timestamp value.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// IsNull reports whether the value is absent. The zero Value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull || v.Kind == ""
}

// IsDate reports whether the value holds a timestamp.
func (v Value) IsDate() bool {
	return v.Kind == KindDate
}

// Text renders the value the way it is shown in tables and exports.
// Null renders as the empty string and dates render as ISO-8601 in UTC.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		if math.IsNaN(v.Num) {
			return "NaN"
		}
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Time.UTC().Format(ISOLayout)
	default:
		return ""
	}
}

// Float returns the numeric reading of the value. Text is parsed after
// stripping thousands separators; anything non-finite reads as zero.
func (v Value) Float() float64 {
	var f float64
	switch v.Kind {
	case KindNumber:
		f = v.Num
	case KindBoolean:
		if v.Bool {
			f = 1
		}
	case KindString:
		s := strings.TrimSpace(strings.ReplaceAll(v.Str, ",", ""))
		if s == "" {
			return 0
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Truthy reports whether the value is true or a string that reads as yes.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindBoolean:
		return v.Bool
	case KindNumber:
		return v.Num == 1
	case KindString:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "yes", "1", "y":
			return true
		}
	}
	return false
}
