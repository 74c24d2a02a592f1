// Package schedule implements the weekly planner grid: a fixed set of
// weekday columns and 15-minute rows, a movable week anchor, slot lookups,
// and turning a task into a calendar event by dropping it on a slot.
package schedule

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/HendryAvila/impacthub/internal/clocktime"
	"github.com/HendryAvila/impacthub/internal/hub"
)

var (
	// ErrTaskNotFound is returned when scheduling an id that is not a task.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidSlot is returned for a (day, time) that is not on the grid.
	ErrInvalidSlot = errors.New("not a slot on the weekly grid")
)

// Grid bounds.
const (
	FirstHour   = 8
	LastHour    = 18
	SlotMinutes = 15
)

// Weekdays are the grid columns, Monday first.
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// Grid is the immutable weekly layout: 5 days × 41 slots (08:00..18:00).
type Grid struct {
	days  []string
	slots []string
}

// NewGrid builds the standard grid.
func NewGrid() Grid {
	return Grid{
		days:  slices.Clone(Weekdays),
		slots: clocktime.Slots(FirstHour, LastHour, SlotMinutes),
	}
}

// Days returns the column names.
func (g Grid) Days() []string { return slices.Clone(g.days) }

// Slots returns the row start times.
func (g Grid) Slots() []string { return slices.Clone(g.slots) }

// Contains reports whether (day, at) is a cell of the grid.
func (g Grid) Contains(day, at string) bool {
	return slices.Contains(g.days, day) && slices.Contains(g.slots, at)
}

// Current returns the cell containing now, with minutes floored to the
// slot size. ok is false outside grid hours or on weekends.
func (g Grid) Current(now time.Time) (day, at string, ok bool) {
	day = now.Weekday().String()[:3]
	at = clocktime.FormatClock(now.Hour()*60 + now.Minute()/SlotMinutes*SlotMinutes)
	return day, at, g.Contains(day, at)
}

// Scheduler holds the grid and the mutable week anchor.
type Scheduler struct {
	grid   Grid
	anchor time.Time
}

// NewScheduler anchors the grid on the week containing now.
func NewScheduler(now time.Time) *Scheduler {
	return &Scheduler{grid: NewGrid(), anchor: clocktime.WeekStart(now)}
}

// Grid returns the immutable layout.
func (s *Scheduler) Grid() Grid { return s.grid }

// WeekStart returns the Monday currently shown.
func (s *Scheduler) WeekStart() time.Time { return s.anchor }

// Advance moves the anchor by n weeks and returns the new Monday.
func (s *Scheduler) Advance(n int) time.Time {
	s.anchor = clocktime.AdvanceWeek(s.anchor, n)
	return s.anchor
}

// Label renders the Monday–Friday span of the anchored week.
func (s *Scheduler) Label() string { return clocktime.WeekLabel(s.anchor) }

// DateOf returns the calendar date of a weekday column in the anchored week.
func (s *Scheduler) DateOf(day string) (time.Time, bool) {
	return DateOf(s.anchor, day)
}

// DateOf maps a weekday column onto the week starting at monday.
func DateOf(monday time.Time, day string) (time.Time, bool) {
	idx := slices.Index(Weekdays, day)
	if idx < 0 {
		return time.Time{}, false
	}
	return monday.AddDate(0, 0, idx), true
}

// EventsForSlot returns every event starting exactly at (day, at).
// Slots are not exclusive.
func EventsForSlot(events []hub.CalendarEvent, day, at string) []hub.CalendarEvent {
	var out []hub.CalendarEvent
	for _, e := range events {
		if e.Day == day && e.StartTime == at {
			out = append(out, e)
		}
	}
	return out
}

// EventsForDay returns a day's events ordered by start time.
func EventsForDay(events []hub.CalendarEvent, day string) []hub.CalendarEvent {
	var out []hub.CalendarEvent
	for _, e := range events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := clocktime.ParseClock(out[i].StartTime)
		b, _ := clocktime.ParseClock(out[j].StartTime)
		return a < b
	})
	return out
}

// FromTask builds the event a task becomes when dropped on (day, at) and
// marks the task scheduled. The task itself stays where it is.
func FromTask(task *hub.Task, day, at string, id hub.ID) hub.CalendarEvent {
	duration := task.Duration
	if duration <= 0 {
		duration = hub.DefaultDuration
	}
	eventType := task.Type
	if eventType == "" {
		eventType = hub.DefaultTaskType
	}

	task.Scheduled = true

	return hub.CalendarEvent{
		ID:              id,
		Title:           task.Label(),
		Day:             day,
		StartTime:       at,
		EndTime:         clocktime.AddMinutes(at, duration),
		Duration:        duration,
		Type:            eventType,
		LinkedTaskID:    task.ID,
		LinkedProjectID: task.ProjectID,
	}
}

// Schedule places a copy of the task on the grid and appends the new event
// to the state. An end time past midnight wraps without a day rollover.
func Schedule(st *hub.State, g Grid, taskID hub.ID, day, at string, id hub.ID) (hub.CalendarEvent, error) {
	if !g.Contains(day, at) {
		return hub.CalendarEvent{}, fmt.Errorf("%w: %s %s", ErrInvalidSlot, day, at)
	}
	task := st.Task(taskID)
	if task == nil {
		return hub.CalendarEvent{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	event := FromTask(task, day, at, id)
	st.CalendarEvents = append(st.CalendarEvents, event)
	return event, nil
}

// EventColor is the display colour for an event type.
func EventColor(eventType string) string {
	switch eventType {
	case "meeting":
		return "#f59e0b"
	case "strategy":
		return "#0891b2"
	case "project":
		return "#7c3aed"
	default:
		return "#3b82f6"
	}
}
