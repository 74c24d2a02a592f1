package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/HendryAvila/impacthub/internal/hub"
)

// Publisher upserts grid events into one calendar.
type Publisher struct {
	srv        *calendar.Service
	calendarID string
	loc        *time.Location
}

// NewPublisher creates a publisher for calendarID. A nil loc means local
// time.
func NewPublisher(srv *calendar.Service, calendarID string, loc *time.Location) *Publisher {
	if loc == nil {
		loc = time.Local
	}
	return &Publisher{srv: srv, calendarID: calendarID, loc: loc}
}

// Result counts what a publish did.
type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []hub.ID `json:"skipped,omitempty"`
}

// Publish exports events for the week starting at monday. Events already
// exported (found by their private id property) are patched in place,
// others are inserted. Events that cannot be placed on the grid are
// skipped. The first API failure aborts the run.
func (p *Publisher) Publish(ctx context.Context, events []hub.CalendarEvent, monday time.Time) (Result, error) {
	var res Result
	for _, ev := range events {
		target, err := Convert(ev, monday, p.loc)
		if err != nil {
			res.Skipped = append(res.Skipped, ev.ID)
			continue
		}

		existing, err := p.find(ctx, ev.ID)
		if err != nil {
			return res, fmt.Errorf("gcal: looking up %s: %w", ev.ID, err)
		}
		if existing != nil {
			if _, err := p.srv.Events.Patch(p.calendarID, existing.Id, target).Context(ctx).Do(); err != nil {
				return res, fmt.Errorf("gcal: updating %s: %w", ev.ID, err)
			}
			res.Updated++
			continue
		}
		if _, err := p.srv.Events.Insert(p.calendarID, target).Context(ctx).Do(); err != nil {
			return res, fmt.Errorf("gcal: creating %s: %w", ev.ID, err)
		}
		res.Created++
	}
	return res, nil
}

// find returns the calendar event previously exported for id, or nil.
func (p *Publisher) find(ctx context.Context, id hub.ID) (*calendar.Event, error) {
	events, err := p.srv.Events.List(p.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", EventIDKey, id)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
