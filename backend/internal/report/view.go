package report

import (
	"fmt"
	"strconv"
)

// NoDataMessage is shown instead of an empty table.
const NoDataMessage = "No data found for configured columns."

// RowView is a GradeRow formatted for display.
type RowView struct {
	Label       string
	Marks       string
	MaxMarks    string
	Percentage  string
	Grade       string
	BadgeClass  string
	Status      string
	StatusClass string
	Passed      bool
}

// View is a Report formatted for display.
type View struct {
	Name      string
	StudentID string
	Initials  string
	RankLabel string
	Overall   string
	Rows      []RowView
	NoData    bool
}

// NewView formats rep. Rounding happens here and nowhere else.
func NewView(rep *Report) View {
	v := View{
		Name:      "Student " + rep.Identity.ID,
		StudentID: rep.Identity.ID,
		Initials:  rep.Identity.Initials,
		RankLabel: "Rank: " + rep.Rank,
		Overall:   FormatNumber(rep.OverallValue),
		NoData:    rep.NoData,
		Rows:      make([]RowView, 0, len(rep.Rows)),
	}

	for _, row := range rep.Rows {
		statusClass := "text-danger"
		if row.Passed {
			statusClass = "text-success"
		}
		v.Rows = append(v.Rows, RowView{
			Label:       row.Label,
			Marks:       FormatOneDecimal(row.MarksObtained),
			MaxMarks:    FormatNumber(row.MaxMarks),
			Percentage:  FormatOneDecimal(row.Percentage) + "%",
			Grade:       string(row.Grade),
			BadgeClass:  "grade-" + string(row.Badge),
			Status:      string(row.Status),
			StatusClass: statusClass,
			Passed:      row.Passed,
		})
	}

	return v
}

// FormatOneDecimal renders v with exactly one decimal place.
func FormatOneDecimal(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// FormatNumber renders v without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
