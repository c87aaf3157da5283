package tui

import (
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/portal/pkg/app"
	"tableflip.dev/portal/pkg/tui/calendar"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	focused lipgloss.Style
	faint   lipgloss.Style
	err     lipgloss.Style
	ok      lipgloss.Style
	cursor  lipgloss.Style
	done    lipgloss.Style
	late    lipgloss.Style
	badge   lipgloss.Style
	panel   lipgloss.Style
	footer  lipgloss.Style
	cal     calendar.Options
}

func stylesFor(theme app.Theme) styles {
	accent := lipgloss.Color("63")
	text := lipgloss.Color("236")
	if theme == app.ThemeDark {
		accent = lipgloss.Color("212")
		text = lipgloss.Color("252")
	}
	cal := calendar.DefaultOptions()
	cal.MarkedStyle = cal.MarkedStyle.Foreground(accent)
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		label:   lipgloss.NewStyle().Foreground(text),
		focused: lipgloss.NewStyle().Bold(true).Foreground(accent),
		faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("204")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		cursor:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		done:    lipgloss.NewStyle().Faint(true).Strikethrough(true),
		late:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		badge:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(accent).Padding(0, 1),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1),
		footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		cal:     cal,
	}
}
