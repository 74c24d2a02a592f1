package hub

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Document is the persisted layout: six top-level keys, every record
// written in full.
type Document struct {
	Projects       []Initiative    `json:"projects"`
	Todos          []Task          `json:"todos"`
	MeetingNotes   []MeetingNote   `json:"meetingNotes"`
	CalendarEvents []CalendarEvent `json:"calendarEvents"`
	DailyUpdates   []any           `json:"dailyUpdates"`
	Settings       Settings        `json:"settings"`
}

// Serialize snapshots the state. The returned document shares no slices
// with st, and absent collections are written as empty arrays.
func Serialize(st *State) *Document {
	doc := &Document{
		Projects:       make([]Initiative, 0, len(st.Projects)),
		Todos:          orEmpty(st.Todos),
		MeetingNotes:   make([]MeetingNote, 0, len(st.MeetingNotes)),
		CalendarEvents: orEmpty(st.CalendarEvents),
		DailyUpdates:   orEmpty(st.DailyUpdates),
		Settings: Settings{
			Pillars:           orEmpty(st.Settings.Pillars),
			KPIs:              orEmpty(st.Settings.KPIs),
			QASources:         orEmpty(st.Settings.QASources),
			MeetingCategories: orEmpty(st.Settings.MeetingCategories),
		},
	}

	for _, p := range st.Projects {
		doc.Projects = append(doc.Projects, p.Clone())
	}
	for _, n := range st.MeetingNotes {
		doc.MeetingNotes = append(doc.MeetingNotes, n.Clone())
	}
	return doc
}

// Encode renders a document as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling hub document: %w", err)
	}
	return data, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return slices.Clone(s)
}
