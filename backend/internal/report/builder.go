package report

import (
	"strings"
)

const (
	UnknownStudentID = "Unknown"
	UnknownInitials  = "??"
	UnknownRank      = "N/A"
)

// Identity is how the student is shown on the report.
type Identity struct {
	ID       string `json:"id"`
	Initials string `json:"initials"`
}

// GradeRow is one computed line of a report.
type GradeRow struct {
	Code          string      `json:"code,omitempty"`
	Label         string      `json:"label"`
	Column        string      `json:"column"`
	MarksObtained float64     `json:"marks_obtained"`
	MaxMarks      float64     `json:"max_marks"`
	Percentage    float64     `json:"percentage"`
	Grade         LetterGrade `json:"grade"`
	Badge         Badge       `json:"badge"`
	Status        PassStatus  `json:"status"`
	Passed        bool        `json:"passed"`
}

// Report is the complete output for one record.
type Report struct {
	Identity     Identity   `json:"identity"`
	Rows         []GradeRow `json:"rows"`
	OverallValue float64    `json:"overall_value"`
	Rank         string     `json:"rank"`

	// NoData is set when none of the configured subject columns exist in the
	// record.
	NoData bool `json:"no_data"`
}

// Builder folds raw records into reports using a fixed layout.
type Builder struct {
	cfg *Config
}

// NewBuilder returns a Builder for cfg. The config must not be modified
// afterwards.
func NewBuilder(cfg *Config) *Builder {
	return &Builder{cfg: cfg}
}

// Config returns the layout the builder was created with.
func (b *Builder) Config() *Config {
	return b.cfg
}

// Build computes a report. Subjects whose column is missing from the record
// are skipped; rows keep the configured order.
func (b *Builder) Build(rec RawRecord) *Report {
	rep := &Report{
		Identity:     b.identity(rec),
		Rows:         make([]GradeRow, 0, len(b.cfg.Subjects)),
		OverallValue: b.overall(rec),
		Rank:         b.rank(rec),
	}

	for _, spec := range b.cfg.Subjects {
		if !rec.Has(spec.Column) {
			continue
		}
		rep.Rows = append(rep.Rows, BuildRow(spec, rec[spec.Column]))
	}

	rep.NoData = len(rep.Rows) == 0
	return rep
}

// BuildRow computes a single row from a subject and its raw cell.
func BuildRow(spec SubjectSpec, cell any) GradeRow {
	marks := SafeNumber(cell)
	maxMarks := spec.MaxMarksFor()
	pct := Percentage(marks, maxMarks)
	grade := LetterGradeFor(pct)
	status := PassStatusFor(pct)

	return GradeRow{
		Code:          spec.Code,
		Label:         spec.DisplayName(),
		Column:        spec.Column,
		MarksObtained: marks,
		MaxMarks:      maxMarks,
		Percentage:    pct,
		Grade:         grade,
		Badge:         BadgeFor(grade),
		Status:        status,
		Passed:        status == StatusPassed,
	}
}

func (b *Builder) identity(rec RawRecord) Identity {
	v, ok := rec.Lookup(b.cfg.StudentIDColumns...)
	if !ok || isBlank(v) {
		return Identity{ID: UnknownStudentID, Initials: UnknownInitials}
	}

	return Identity{ID: formatCell(v), Initials: Initials(v)}
}

func (b *Builder) overall(rec RawRecord) float64 {
	if len(b.cfg.TotalColumns) == 0 {
		return b.cfg.OverallDefault
	}
	return rec.LookupNumber(b.cfg.TotalColumns...)
}

func (b *Builder) rank(rec RawRecord) string {
	v, ok := rec.Lookup(b.cfg.RankColumns...)
	if !ok {
		return UnknownRank
	}
	if s := formatCell(v); s != "" {
		return s
	}
	return UnknownRank
}

// Initials returns the first two characters of a textual id, upper-cased.
// Non-text ids have no initials.
func Initials(id any) string {
	s, ok := id.(string)
	if !ok || s == "" {
		return UnknownInitials
	}
	runes := []rune(s)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}
