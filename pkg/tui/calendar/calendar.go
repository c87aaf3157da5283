// Package calendar renders month grids for the terminal UI.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
)

// Day describes a single day rendered in the calendar.
type Day struct {
	Day        int
	Marked     bool
	IsToday    bool
	IsSelected bool
}

// Options controls calendar styling.
type Options struct {
	TitleStyle    lipgloss.Style
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	MarkedStyle   lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowTitle     bool
	ShowHeader    bool
}

const header = "Su Mo Tu We Th Fr Sa"

// Width is the printable width of a rendered month.
const Width = len(header)

// Render produces a multi-line calendar string for the given month.
func Render(month time.Time, days []Day, opts Options) string {
	if month.IsZero() {
		return ""
	}

	first := FirstOf(month)
	daysInMonth := DaysIn(month)

	byDay := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= daysInMonth {
			byDay[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowTitle {
		lines = append(lines, opts.TitleStyle.Width(Width).Align(lipgloss.Center).Render(first.Format("January 2006")))
	}
	if opts.ShowHeader {
		lines = append(lines, opts.HeaderStyle.Render(header))
	}

	startOffset := int(first.Weekday())
	totalCells := startOffset + daysInMonth
	rows := (totalCells + 6) / 7

	for row := 0; row < rows; row++ {
		var cells []string
		for col := 0; col < 7; col++ {
			day := row*7 + col - startOffset + 1
			if day < 1 || day > daysInMonth {
				cells = append(cells, opts.EmptyStyle.Render("  "))
				continue
			}
			cells = append(cells, renderDay(byDay[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	text := fmt.Sprintf("%2d", day)

	style := opts.EmptyStyle
	if info.Marked {
		style = opts.MarkedStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(text)
}

// Days builds the day list for month: marked days, today when now falls in
// month, and the selected day (0 for none).
func Days(month time.Time, marked map[int]bool, selected int, now time.Time) []Day {
	today := 0
	if month.Year() == now.Year() && month.Month() == now.Month() {
		today = now.Day()
	}
	n := DaysIn(month)
	days := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, Day{
			Day:        d,
			Marked:     marked[d],
			IsToday:    d == today,
			IsSelected: d == selected,
		})
	}
	return days
}

// FirstOf returns midnight of the first day of month.
func FirstOf(month time.Time) time.Time {
	return time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
}

// DaysIn returns the number of days in a month.
func DaysIn(month time.Time) int {
	return FirstOf(month).AddDate(0, 1, -1).Day()
}

// Shift moves month by n months, landing on the first of the month.
func Shift(month time.Time, n int) time.Time {
	return FirstOf(month).AddDate(0, n, 0)
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	title := lipgloss.NewStyle().Bold(true)
	hdr := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	marked := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	today := lipgloss.NewStyle().Underline(true)
	selected := lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0"))
	return Options{
		TitleStyle:    title,
		HeaderStyle:   hdr,
		EmptyStyle:    empty,
		MarkedStyle:   marked,
		TodayStyle:    today,
		SelectedStyle: selected,
		ShowTitle:     true,
		ShowHeader:    true,
	}
}
