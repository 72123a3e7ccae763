package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gradelookup/backend/internal/report"
)

var (
	primary     = lipgloss.Color("#3f51b5")
	muted       = lipgloss.Color("#6c757d")
	success     = lipgloss.Color("#2e7d32")
	destructive = lipgloss.Color("#c62828")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary)
	mutedStyle  = lipgloss.NewStyle().Foreground(muted)
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1)

	statusStyles = map[string]lipgloss.Style{
		"text-success": lipgloss.NewStyle().Foreground(success),
		"text-danger":  lipgloss.NewStyle().Foreground(destructive),
	}

	badgeStyles = map[string]lipgloss.Style{
		"grade-a": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2e7d32")),
		"grade-b": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1565c0")),
		"grade-c": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f9a825")),
		"grade-d": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c62828")),
	}
)

type column struct {
	title string
	width int
}

var reportColumns = []column{
	{"Subject", 24},
	{"Marks", 7},
	{"Max", 5},
	{"Percent", 9},
	{"Grade", 6},
	{"Status", 8},
}

var layoutColumns = []column{
	{"Code", 6},
	{"Subject", 24},
	{"Column", 38},
	{"Max", 5},
}

func renderRow(cols []column, styles []lipgloss.Style, values []string) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = styles[i].Inherit(cellStyle).Width(col.width).Render(values[i])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderHeader(cols []column) string {
	styles := make([]lipgloss.Style, len(cols))
	titles := make([]string, len(cols))
	for i, col := range cols {
		styles[i] = headerStyle
		titles[i] = col.title
	}
	return renderRow(cols, styles, titles)
}

// renderView draws a report the way the results page lays it out.
func renderView(v report.View) string {
	var b strings.Builder

	card := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("["+v.Initials+"] "+v.Name),
		mutedStyle.Render("ID: "+v.StudentID+"   "+v.RankLabel),
		"Overall: "+v.Overall,
	)
	b.WriteString(cardStyle.Render(card))
	b.WriteString("\n\n")
	b.WriteString(renderHeader(reportColumns))
	b.WriteString("\n")

	if v.NoData {
		b.WriteString(mutedStyle.Render(report.NoDataMessage))
		b.WriteString("\n")
		return b.String()
	}

	plain := lipgloss.NewStyle()
	for _, row := range v.Rows {
		styles := []lipgloss.Style{plain, plain, plain, plain, badgeStyles[row.BadgeClass], statusStyles[row.StatusClass]}
		b.WriteString(renderRow(reportColumns, styles, []string{
			row.Label, row.Marks, row.MaxMarks, row.Percentage, row.Grade, row.Status,
		}))
		b.WriteString("\n")
	}
	return b.String()
}

// renderLayout lists the configured subjects with their resolved maximums.
func renderLayout(cfg *report.Config) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Report layout"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("ID columns: " + strings.Join(cfg.StudentIDColumns, ", ")))
	b.WriteString("\n\n")
	b.WriteString(renderHeader(layoutColumns))
	b.WriteString("\n")

	plain := lipgloss.NewStyle()
	styles := []lipgloss.Style{plain, plain, mutedStyle, plain}
	for _, spec := range cfg.Subjects {
		b.WriteString(renderRow(layoutColumns, styles, []string{
			spec.Code,
			spec.DisplayName(),
			spec.Column,
			report.FormatNumber(spec.MaxMarksFor()),
		}))
		b.WriteString("\n")
	}
	return b.String()
}
