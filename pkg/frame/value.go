package frame

import (
	"math"
	"strconv"
	"strings"
)

// Kind is the primitive kind held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "missing"
	}
}

// Value is a single table cell. The zero Value is missing.
// Values are comparable and can be used as map keys.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// NA is the missing value.
var NA = Value{}

// Number returns a numeric Value. NaN becomes NA.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return NA
	}
	if f == 0 {
		f = 0 // fold -0
	}
	return Value{kind: KindNumber, num: f}
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
}

// IsMissingToken reports whether s is one of the textual spellings of a missing cell.
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.TrimSpace(s)]
	return ok
}

// Parse turns raw text into a Value: missing tokens become NA, anything
// that parses as a float becomes a Number, the rest stays a String.
func Parse(s string) Value {
	if IsMissingToken(s) {
		return NA
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return Number(f)
	}
	return String(s)
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) IsNumber() bool { return v.kind == KindNumber }
func (v Value) IsString() bool { return v.kind == KindString }

// Float returns the numeric payload and whether v is a Number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return math.NaN(), false
	}
	return v.num, true
}

// String formats the value the way it is written to CSV and used in
// generated column names.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Compare orders values: missing < numbers < strings; numbers by value,
// strings lexicographically.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
	case KindString:
		return strings.Compare(a.str, b.str)
	}
	return 0
}
