package report

import (
	"regexp"
	"strconv"
	"strings"
)

// Column names carry their own denominators, e.g. "Assign 1 Grade(3 marks)"
// or "Midterm(Scaled - 15 marks)". The first pattern that matches wins.
var maxMarksPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\((\d+)\s*marks?\)`),
	regexp.MustCompile(`(?i)\(Scaled\s*-\s*(\d+)\s*marks?\)`),
	regexp.MustCompile(`(?i)(\d+)\s*marks?`),
}

type maxMarksKeyword struct {
	substr string
	marks  float64
}

// Fallbacks for columns without a numeric hint. Matching is case-sensitive
// and ordered.
var maxMarksKeywords = []maxMarksKeyword{
	{"Assign", 3},
	{"Quiz", 15},
	{"Midterm", 15},
	{"bonus", 5},
}

// ExtractMaxMarks returns the denominator for a subject column. A configured
// value wins outright, zero included. Otherwise the column name is searched
// for a marks hint, then for a known keyword. 0 means undeterminable.
func ExtractMaxMarks(column string, configured *float64) float64 {
	if configured != nil {
		return *configured
	}

	for _, pattern := range maxMarksPatterns {
		m := pattern.FindStringSubmatch(column)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return float64(n)
	}

	for _, kw := range maxMarksKeywords {
		if strings.Contains(column, kw.substr) {
			return kw.marks
		}
	}

	return 0
}
