package report

import "strings"

// LetterGrade is a letter on the A+..F scale.
type LetterGrade string

const (
	GradeAPlus LetterGrade = "A+"
	GradeA     LetterGrade = "A"
	GradeBPlus LetterGrade = "B+"
	GradeB     LetterGrade = "B"
	GradeCPlus LetterGrade = "C+"
	GradeC     LetterGrade = "C"
	GradeDPlus LetterGrade = "D+"
	GradeD     LetterGrade = "D"
	GradeF     LetterGrade = "F"
)

// PassStatus is the pass/fail verdict for a row.
type PassStatus string

const (
	StatusPassed PassStatus = "Passed"
	StatusFailed PassStatus = "Failed"
)

// Badge is the coarse style bucket of a letter grade.
type Badge string

const (
	BadgeA Badge = "a"
	BadgeB Badge = "b"
	BadgeC Badge = "c"
	BadgeD Badge = "d"
)

// PassThreshold is the lowest passing percentage. It is also the lower bound
// of the D band, so every grade except F passes.
const PassThreshold = 50.0

type gradeBand struct {
	min   float64
	grade LetterGrade
}

// gradeBands is evaluated top-down; the first band whose lower bound is met
// wins.
var gradeBands = []gradeBand{
	{90, GradeAPlus},
	{85, GradeA},
	{80, GradeBPlus},
	{75, GradeB},
	{70, GradeCPlus},
	{65, GradeC},
	{60, GradeDPlus},
	{PassThreshold, GradeD},
}

// Percentage returns marks/maxMarks*100, or 0 when maxMarks is not positive.
// The result is not rounded.
func Percentage(marks, maxMarks float64) float64 {
	if maxMarks <= 0 {
		return 0
	}
	return (marks / maxMarks) * 100
}

// LetterGradeFor maps a percentage onto the letter scale.
func LetterGradeFor(percentage float64) LetterGrade {
	for _, band := range gradeBands {
		if percentage >= band.min {
			return band.grade
		}
	}
	return GradeF
}

// PassStatusFor returns Passed at or above PassThreshold.
func PassStatusFor(percentage float64) PassStatus {
	if percentage >= PassThreshold {
		return StatusPassed
	}
	return StatusFailed
}

// BadgeFor collapses a letter grade into one of four style buckets.
// D and F share the last bucket.
func BadgeFor(grade LetterGrade) Badge {
	switch {
	case strings.HasPrefix(string(grade), "A"):
		return BadgeA
	case strings.HasPrefix(string(grade), "B"):
		return BadgeB
	case strings.HasPrefix(string(grade), "C"):
		return BadgeC
	default:
		return BadgeD
	}
}
