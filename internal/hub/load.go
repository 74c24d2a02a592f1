package hub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/HendryAvila/impacthub/internal/clocktime"
	"github.com/spf13/cast"
)

// ErrMalformedDocument is returned when the persisted document is not a
// JSON object. It is the only failure Load's caller has to handle.
var ErrMalformedDocument = errors.New("malformed hub document")

// RawDocument is a loosely-typed decoded document, as read from storage.
type RawDocument map[string]any

// Decode parses persisted bytes into a RawDocument. Blank input is an empty
// document. Numbers are kept as json.Number so legacy numeric ids survive
// with every digit.
func Decode(data []byte) (RawDocument, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return RawDocument{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	var trailing any
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the document", ErrMalformedDocument)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top level is %T, want an object", ErrMalformedDocument, v)
	}
	return RawDocument(m), nil
}

// Load normalizes a raw document into a State. Missing or wrongly typed
// optional fields fall back to their defaults; legacy fields are migrated:
//   - initiative priorityId becomes pillarId
//   - milestones without a uuid get one
//   - event startTime falls back to the legacy time field, endTime is derived
//
// Keys a record type does not model are kept in its Extra map. The migrated
// legacy aliases are not.
//
// newID supplies identifiers for records that lack one (NewUUID if nil).
func Load(raw RawDocument, newID IDFunc) *State {
	if newID == nil {
		newID = NewUUID
	}
	st := NewState()

	for _, r := range records(raw["projects"]) {
		st.Projects = append(st.Projects, loadInitiative(r, newID))
	}
	for _, r := range records(raw["todos"]) {
		st.Todos = append(st.Todos, loadTask(r, newID))
	}
	for _, r := range records(raw["meetingNotes"]) {
		st.MeetingNotes = append(st.MeetingNotes, loadMeetingNote(r, newID))
	}
	for _, r := range records(raw["calendarEvents"]) {
		st.CalendarEvents = append(st.CalendarEvents, loadEvent(r, newID))
	}

	// The legacy daily log is not restructured.
	if daily, ok := raw["dailyUpdates"].([]any); ok {
		st.DailyUpdates = daily
	}

	settings, _ := raw["settings"].(map[string]any)
	if pillars, ok := settings["pillars"].([]any); ok {
		st.Settings.Pillars = make([]Pillar, 0, len(pillars))
		for _, r := range records(pillars) {
			st.Settings.Pillars = append(st.Settings.Pillars, Pillar{
				ID:     toID(r["id"]),
				Title:  str(r, "title"),
				Intent: str(r, "intent"),
				Color:  str(r, "color"),
			})
		}
	}
	if kpis, ok := stringList(settings["kpis"]); ok {
		st.Settings.KPIs = kpis
	}
	if sources, ok := stringList(settings["qaSources"]); ok {
		st.Settings.QASources = sources
	}
	if categories, ok := stringList(settings["meetingCategories"]); ok {
		st.Settings.MeetingCategories = categories
	}

	return st
}

func loadInitiative(r map[string]any, newID IDFunc) Initiative {
	p := Initiative{
		ID:              toID(r["id"]),
		Title:           str(r, "title"),
		PillarID:        toID(r["pillarId"]),
		Type:            str(r, "type"),
		Status:          str(r, "status"),
		Milestones:      []Milestone{},
		Updates:         []Update{},
		ImpactStatement: str(r, "impactStatement"),
		DeptCode:        str(r, "deptCode"),
		Staff:           str(r, "staff"),
		TLAM:            str(r, "tlam"),
		StartDate:       str(r, "startDate"),
		EndDate:         str(r, "endDate"),
		Extra:           extraKeys(r, initiativeKeys),
	}
	if p.ID == "" {
		p.ID = newID()
	}
	if p.PillarID == "" {
		p.PillarID = toID(r["priorityId"])
	}

	for _, m := range records(r["milestones"]) {
		ms := Milestone{
			UUID:      toID(m["uuid"]),
			Title:     str(m, "title"),
			DueDate:   str(m, "dueDate"),
			Completed: toBool(m["completed"]),
			Extra:     extraKeys(m, milestoneKeys),
		}
		if ms.UUID == "" {
			ms.UUID = newID()
		}
		if ms.DueDate == "" {
			ms.DueDate = str(m, "date")
		}
		p.Milestones = append(p.Milestones, ms)
	}

	for _, u := range records(r["updates"]) {
		p.Updates = append(p.Updates, Update{
			Date:   str(u, "date"),
			Text:   str(u, "text"),
			Link:   str(u, "link"),
			Impact: str(u, "impact"),
			Source: str(u, "source"),
		})
	}
	return p
}

func loadTask(r map[string]any, newID IDFunc) Task {
	t := Task{
		ID:              toID(r["id"]),
		Title:           str(r, "title"),
		Text:            str(r, "text"),
		Type:            str(r, "type"),
		Duration:        toInt(r["duration"]),
		Completed:       toBool(r["completed"]),
		CompletedDate:   str(r, "completedDate"),
		DueDate:         str(r, "dueDate"),
		ProjectID:       toID(r["projectId"]),
		Scheduled:       toBool(r["scheduled"]),
		Comments:        str(r, "comments"),
		EvidenceLink:    str(r, "evidenceLink"),
		ImpactStatement: str(r, "impactStatement"),
		Extra:           extraKeys(r, taskKeys),
	}
	if t.ID == "" {
		t.ID = newID()
	}
	if t.Type == "" {
		t.Type = DefaultTaskType
	}
	if t.Duration == 0 {
		t.Duration = DefaultDuration
	}
	return t
}

func loadMeetingNote(r map[string]any, newID IDFunc) MeetingNote {
	n := MeetingNote{
		ID:              toID(r["id"]),
		Title:           str(r, "title"),
		Date:            str(r, "date"),
		Category:        str(r, "category"),
		Content:         str(r, "content"),
		Attendees:       str(r, "attendees"),
		LinkedProjectID: toID(r["linkedProjectId"]),
		Links:           []Link{},
		Extra:           extraKeys(r, meetingNoteKeys),
	}
	if n.ID == "" {
		n.ID = newID()
	}

	links, _ := r["links"].([]any)
	for _, l := range links {
		switch v := l.(type) {
		case map[string]any:
			n.Links = append(n.Links, Link{Title: str(v, "title"), URL: str(v, "url")})
		case string:
			n.Links = append(n.Links, Link{URL: v})
		}
	}
	return n
}

func loadEvent(r map[string]any, newID IDFunc) CalendarEvent {
	e := CalendarEvent{
		ID:              toID(r["id"]),
		Title:           str(r, "title"),
		Day:             str(r, "day"),
		StartTime:       str(r, "startTime"),
		EndTime:         str(r, "endTime"),
		Duration:        toInt(r["duration"]),
		Type:            str(r, "type"),
		LinkedTaskID:    toID(r["linkedTaskId"]),
		LinkedProjectID: toID(r["linkedProjectId"]),
		Comments:        str(r, "comments"),
		EvidenceLink:    str(r, "evidenceLink"),
		ImpactStatement: str(r, "impactStatement"),
		Extra:           extraKeys(r, eventKeys),
	}
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Duration == 0 {
		e.Duration = DefaultDuration
	}
	if e.StartTime == "" {
		e.StartTime = str(r, "time")
	}
	if e.StartTime == "" {
		e.StartTime = DefaultStartTime
	}
	if e.EndTime == "" {
		e.EndTime = clocktime.AddMinutes(e.StartTime, e.Duration)
	}
	return e
}

// --- coercion helpers ---

// records returns the object entries of a JSON array, skipping anything
// that is not an object.
func records(v any) []map[string]any {
	items, _ := v.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, toString(item))
	}
	return out, true
}

func str(m map[string]any, key string) string {
	return toString(m[key])
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case json.Number:
		return s.String()
	case map[string]any, []any:
		return ""
	}
	return cast.ToString(v)
}

func toID(v any) ID {
	return ID(toString(v))
}

func toInt(v any) int {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
		return 0
	}
	return cast.ToInt(v)
}

func toBool(v any) bool {
	if n, ok := v.(json.Number); ok {
		f, err := n.Float64()
		return err == nil && f != 0
	}
	return cast.ToBool(v)
}
