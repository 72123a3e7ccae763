package report

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RawRecord is a single student row as returned by the record store.
// Field names are free text chosen by whoever built the sheet, so access goes
// through Lookup and Has instead of direct indexing.
type RawRecord map[string]any

// Has reports whether column is a key of the record. A key holding a null
// value still counts as present.
func (r RawRecord) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Lookup returns the value of the first alias that is present with a non-nil
// value. Aliases after the first match are not consulted.
func (r RawRecord) Lookup(aliases ...string) (any, bool) {
	for _, alias := range aliases {
		if v, ok := r[alias]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// LookupNumber resolves aliases and coerces the result with SafeNumber.
// Absent values give 0.
func (r RawRecord) LookupNumber(aliases ...string) float64 {
	v, ok := r.Lookup(aliases...)
	if !ok {
		return 0
	}
	return SafeNumber(v)
}

// ============================================================================
// Numeric coercion
// ============================================================================

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// SafeNumber converts a raw cell into a float. It never fails: nil, empty
// strings, booleans and text without a leading number all become 0. Strings
// are read up to the end of their leading decimal number, so "12.5 pts" is
// 12.5.
func SafeNumber(value any) float64 {
	var f float64
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case string:
		f = parseLeadingNumber(v)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseLeadingNumber(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// formatCell renders an identity-like cell as text. Whole numbers drop the
// fractional part so 42.0 prints as "42".
func formatCell(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// isBlank reports whether an identity value counts as missing: nil, an empty
// string, false, zero, NaN, or a type formatCell cannot render.
func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case int32:
		return v == 0
	case int64:
		return v == 0
	default:
		return formatCell(value) == ""
	}
}
