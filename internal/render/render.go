// Package render draws planner views for the terminal with lipgloss.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HendryAvila/impacthub/internal/daily"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/progress"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

const barWidth = 20

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// Dashboard renders the counters and one progress bar per pillar.
func Dashboard(s progress.Summary) string {
	stats := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Active projects", fmt.Sprint(s.ActiveProjects)),
		stat("Open tasks", fmt.Sprint(s.OpenTasks)),
		stat("Week events", fmt.Sprint(s.WeekEvents)),
		stat("Overall", fmt.Sprintf("%.0f%%", s.OverallProgress)),
	)

	rows := []string{titleStyle.Render("Strategic pillars")}
	for _, p := range s.Pillars {
		color := lipgloss.Color(p.Pillar.Color)
		name := lipgloss.NewStyle().Foreground(color).Render(p.Pillar.Title)
		rows = append(rows, fmt.Sprintf("%s  %s %3d%%  %s",
			bar(p.Progress, color), name, p.Progress,
			mutedStyle.Render(fmt.Sprintf("(%d projects)", p.Projects))))
	}
	if s.Unassigned > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("%d projects without a pillar", s.Unassigned)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, stats, boxStyle.Render(strings.Join(rows, "\n")))
}

func stat(label, value string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		mutedStyle.Render(label),
		titleStyle.Render(value),
	))
}

func bar(pct int, color lipgloss.Color) string {
	filled := pct * barWidth / 100
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}

// Week renders one column per weekday listing that day's events in time
// order. Empty slots are not drawn.
func Week(label string, days []string, events []hub.CalendarEvent) string {
	cols := make([]string, 0, len(days))
	for _, day := range days {
		lines := []string{titleStyle.Render(day)}
		dayEvents := schedule.EventsForDay(events, day)
		if len(dayEvents) == 0 {
			lines = append(lines, mutedStyle.Render("free"))
		}
		for _, e := range dayEvents {
			color := lipgloss.Color(schedule.EventColor(e.Type))
			lines = append(lines,
				lipgloss.NewStyle().Foreground(color).Render(e.StartTime+"-"+e.EndTime),
				e.Title,
			)
		}
		cols = append(cols, boxStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Week of "+label),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
	)
}

// Hopper renders the unscheduled task list.
func Hopper(tasks []hub.Task) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("Hopper is empty.")
	}
	lines := []string{titleStyle.Render(fmt.Sprintf("Hopper (%d)", len(tasks)))}
	for _, t := range tasks {
		due := t.DueDate
		if due == "" {
			due = "no due date"
		}
		mark := " "
		if t.Scheduled {
			mark = "•"
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", mark, t.Label(),
			mutedStyle.Render(fmt.Sprintf("[%s, %dm]", t.Type, t.Duration)),
			mutedStyle.Render(due)))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Daily renders the daily log for review before committing.
func Daily(today string, items []daily.Item) string {
	lines := []string{titleStyle.Render("Daily update " + today)}
	if len(items) == 0 {
		lines = append(lines, mutedStyle.Render("Nothing to report yet."))
	}
	for _, it := range items {
		when := it.Time
		if when == "" {
			when = "done"
		}
		lines = append(lines, fmt.Sprintf("%-5s %s %s", when, it.Title, mutedStyle.Render("("+it.Type+")")))
		if it.Comments != "" {
			lines = append(lines, "      "+it.Comments)
		}
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
