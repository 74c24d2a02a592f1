// Package hub is the in-memory document model of the planning hub.
//
// A hub document holds six collections (initiatives, tasks, meeting notes,
// calendar events, the legacy daily log, and settings). This package owns:
//   - the typed records and the State that groups them
//   - Decode/Load: tolerant parsing and field-level migration of older documents
//   - Serialize/Encode: the complete snapshot written back to storage
//   - Storage: the read/write contract for wherever the document lives
//
// Derived views live in sibling packages (progress, schedule, daily) and
// are always recomputed from State; nothing here caches aggregates.
package hub

import "maps"

// ID identifies a record. Documents written by older versions used numeric
// ids; Load renders those as their decimal string so comparisons are exact.
type ID string

// --- Strategy ---

// Pillar is a top-level strategic category grouping initiatives.
type Pillar struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Intent string `json:"intent"`
	Color  string `json:"color"`
}

// Milestone is a completable sub-unit owned by exactly one Initiative.
type Milestone struct {
	UUID      ID     `json:"uuid"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate"`
	Completed bool   `json:"completed"`

	Extra map[string]any `json:"-"`
}

// Update is an append-only evidence entry on an Initiative.
type Update struct {
	Date   string `json:"date"`
	Text   string `json:"text"`
	Link   string `json:"link"`
	Impact string `json:"impact"`
	Source string `json:"source"`
}

// Initiative is a tracked project or activity. It owns its milestones and
// updates; PillarID may be empty (unassigned) or dangle.
type Initiative struct {
	ID              ID          `json:"id"`
	Title           string      `json:"title"`
	PillarID        ID          `json:"pillarId"`
	Type            string      `json:"type"`
	Status          string      `json:"status"`
	Milestones      []Milestone `json:"milestones"`
	Updates         []Update    `json:"updates"`
	ImpactStatement string      `json:"impactStatement"`
	DeptCode        string      `json:"deptCode"`
	Staff           string      `json:"staff"`
	TLAM            string      `json:"tlam"`
	StartDate       string      `json:"startDate"`
	EndDate         string      `json:"endDate"`

	// Extra holds keys the struct does not model. Load fills it and the
	// record's MarshalJSON writes it back, so other writers' fields survive.
	Extra map[string]any `json:"-"`
}

// Clone returns a copy that shares no slices with p.
func (p Initiative) Clone() Initiative {
	p.Milestones = orEmpty(p.Milestones)
	for i := range p.Milestones {
		p.Milestones[i].Extra = maps.Clone(p.Milestones[i].Extra)
	}
	p.Updates = orEmpty(p.Updates)
	p.Extra = maps.Clone(p.Extra)
	return p
}

// StatusCompleted marks an initiative as no longer active.
const StatusCompleted = "Completed"

// --- Work items ---

// Task is a to-do. ProjectID weakly references an Initiative.
type Task struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	Text            string `json:"text"`
	Type            string `json:"type"`
	Duration        int    `json:"duration"`
	Completed       bool   `json:"completed"`
	CompletedDate   string `json:"completedDate"`
	DueDate         string `json:"dueDate"`
	ProjectID       ID     `json:"projectId"`
	Scheduled       bool   `json:"scheduled"`
	Comments        string `json:"comments"`
	EvidenceLink    string `json:"evidenceLink"`
	ImpactStatement string `json:"impactStatement"`

	Extra map[string]any `json:"-"`
}

// Label returns the task title, falling back to the legacy text field.
func (t Task) Label() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Text
}

// CalendarEvent is a weekly-grid placement. Day is a weekday name
// ("Mon".."Fri"), not a calendar date.
type CalendarEvent struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	Day             string `json:"day"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	Duration        int    `json:"duration"`
	Type            string `json:"type"`
	LinkedTaskID    ID     `json:"linkedTaskId"`
	LinkedProjectID ID     `json:"linkedProjectId"`
	Comments        string `json:"comments"`
	EvidenceLink    string `json:"evidenceLink"`
	ImpactStatement string `json:"impactStatement"`

	Extra map[string]any `json:"-"`
}

// Link is a reference attached to a meeting note.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// MeetingNote records a meeting, optionally linked to an Initiative.
type MeetingNote struct {
	ID              ID     `json:"id"`
	Title           string `json:"title"`
	Date            string `json:"date"`
	Category        string `json:"category"`
	Content         string `json:"content"`
	Attendees       string `json:"attendees"`
	LinkedProjectID ID     `json:"linkedProjectId"`
	Links           []Link `json:"links"`

	Extra map[string]any `json:"-"`
}

// Clone returns a copy that shares no slices with n.
func (n MeetingNote) Clone() MeetingNote {
	n.Links = orEmpty(n.Links)
	n.Extra = maps.Clone(n.Extra)
	return n
}

// --- Document ---

// Settings is the process-wide configuration persisted with the data.
type Settings struct {
	Pillars           []Pillar `json:"pillars"`
	KPIs              []string `json:"kpis"`
	QASources         []string `json:"qaSources"`
	MeetingCategories []string `json:"meetingCategories"`
}

// State is the whole in-memory document. Collections keep insertion order.
type State struct {
	Projects       []Initiative
	Todos          []Task
	MeetingNotes   []MeetingNote
	CalendarEvents []CalendarEvent
	DailyUpdates   []any
	Settings       Settings
}

// Project returns the initiative with the given id, or nil. An empty or
// dangling id yields nil.
func (s *State) Project(id ID) *Initiative {
	if id == "" {
		return nil
	}
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}

// Task returns the task with the given id, or nil.
func (s *State) Task(id ID) *Task {
	if id == "" {
		return nil
	}
	for i := range s.Todos {
		if s.Todos[i].ID == id {
			return &s.Todos[i]
		}
	}
	return nil
}

// Event returns the calendar event with the given id, or nil.
func (s *State) Event(id ID) *CalendarEvent {
	if id == "" {
		return nil
	}
	for i := range s.CalendarEvents {
		if s.CalendarEvents[i].ID == id {
			return &s.CalendarEvents[i]
		}
	}
	return nil
}

// Pillar returns the pillar with the given id, or nil.
func (s *State) Pillar(id ID) *Pillar {
	if id == "" {
		return nil
	}
	for i := range s.Settings.Pillars {
		if s.Settings.Pillars[i].ID == id {
			return &s.Settings.Pillars[i]
		}
	}
	return nil
}
