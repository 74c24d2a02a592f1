// Package gcal publishes the weekly grid to Google Calendar.
//
// Grid events only carry a weekday name and a clock time, so export is
// always relative to a concrete week: each event is placed on the date of
// its weekday within the week starting at the given Monday.
package gcal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/HendryAvila/impacthub/internal/clocktime"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// Private extended property keys stamped on exported events.
const (
	EventIDKey   = "impacthub_event_id"
	ProjectIDKey = "impacthub_project_id"
)

// ErrNotOnGrid is returned for events whose day is not a grid weekday.
var ErrNotOnGrid = errors.New("gcal: event day is not a weekday")

// Convert maps a grid event onto the week starting at monday in loc.
// An end time at or before the start (a wrap past midnight) is replaced by
// start plus the event duration. A nil loc means local time.
func Convert(ev hub.CalendarEvent, monday time.Time, loc *time.Location) (*calendar.Event, error) {
	if loc == nil {
		loc = time.Local
	}
	day, ok := schedule.DateOf(monday, ev.Day)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotOnGrid, ev.Day)
	}
	startMin, _ := clocktime.ParseClock(ev.StartTime)
	endMin, _ := clocktime.ParseClock(ev.EndTime)

	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	start := date.Add(time.Duration(startMin) * time.Minute)
	end := date.Add(time.Duration(endMin) * time.Minute)
	if !end.After(start) {
		duration := ev.Duration
		if duration <= 0 {
			duration = hub.DefaultDuration
		}
		end = start.Add(time.Duration(duration) * time.Minute)
	}

	private := map[string]string{EventIDKey: string(ev.ID)}
	if ev.LinkedProjectID != "" {
		private[ProjectIDKey] = string(ev.LinkedProjectID)
	}

	return &calendar.Event{
		Summary:     ev.Title,
		Description: describe(ev),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: zoneName(loc)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: zoneName(loc)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: private,
		},
	}, nil
}

func describe(ev hub.CalendarEvent) string {
	var b strings.Builder
	if ev.Type != "" {
		fmt.Fprintf(&b, "Type: %s\n", ev.Type)
	}
	if ev.Comments != "" {
		fmt.Fprintf(&b, "\n%s\n", ev.Comments)
	}
	if ev.ImpactStatement != "" {
		fmt.Fprintf(&b, "\nImpact: %s\n", ev.ImpactStatement)
	}
	if ev.EvidenceLink != "" {
		fmt.Fprintf(&b, "Evidence: %s\n", ev.EvidenceLink)
	}
	return b.String()
}

// zoneName is the IANA name Google expects, empty for Local/UTC offsets it
// cannot name.
func zoneName(loc *time.Location) string {
	if loc == nil || loc == time.Local {
		return ""
	}
	return loc.String()
}
