// Package clocktime holds the pure time arithmetic used by the planner:
// wall-clock "HH:MM" addition, week anchoring, and date formatting.
//
// Clock times are plain strings because that is how the persisted document
// stores them. None of these functions panic on malformed input.
package clocktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every date field
// in the document (dueDate, completedDate, startDate, ...).
const DateLayout = "2006-01-02"

// minutesPerDay bounds clock arithmetic. Results wrap silently at midnight.
const minutesPerDay = 24 * 60

// ParseClock converts "HH:MM" into minutes past midnight. The boolean is
// false when either component is not a number; the returned minutes still
// count the unparseable component as zero.
func ParseClock(hhmm string) (int, bool) {
	hs, ms, found := strings.Cut(strings.TrimSpace(hhmm), ":")
	h, errH := strconv.Atoi(hs)
	m, errM := strconv.Atoi(ms)
	ok := found && errH == nil && errM == nil
	if errH != nil {
		h = 0
	}
	if errM != nil {
		m = 0
	}
	return h*60 + m, ok
}

// FormatClock renders minutes past midnight as zero-padded "HH:MM",
// wrapping into the 0..23:59 range.
func FormatClock(minutes int) string {
	total := ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// AddMinutes adds minutes to a wall-clock time. A result past 24:00 wraps
// to the early morning with no day rollover signal; callers scheduling near
// midnight must account for that themselves.
func AddMinutes(hhmm string, minutes int) string {
	start, _ := ParseClock(hhmm)
	return FormatClock(start + minutes)
}

// WeekStart returns midnight of the Monday of the week containing t, in t's
// location. Sunday belongs to the week that started six days earlier.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := 1 - int(day.Weekday())
	if day.Weekday() == time.Sunday {
		offset = -6
	}
	return day.AddDate(0, 0, offset)
}

// AdvanceWeek shifts a week anchor by n weeks (negative goes back).
func AdvanceWeek(anchor time.Time, n int) time.Time {
	return anchor.AddDate(0, 0, 7*n)
}

// WeekLabel renders the Monday–Friday span of the anchored week,
// e.g. "05 Oct 2026 - 09 Oct 2026".
func WeekLabel(anchor time.Time) string {
	end := anchor.AddDate(0, 0, 4)
	return anchor.Format("02 Jan 2006") + " - " + end.Format("02 Jan 2006")
}

// DateString formats t as an ISO calendar date.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// Slots lists wall-clock times from startHour:00 through endHour:00
// inclusive, every stepMinutes.
func Slots(startHour, endHour, stepMinutes int) []string {
	if stepMinutes <= 0 || endHour < startHour {
		return nil
	}
	var slots []string
	for m := startHour * 60; m <= endHour*60; m += stepMinutes {
		slots = append(slots, FormatClock(m))
	}
	return slots
}
