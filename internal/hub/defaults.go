package hub

import (
	"time"

	"github.com/google/uuid"
)

// Field defaults applied by Load and by record creation.
const (
	DefaultTaskType    = "activity"
	DefaultDuration    = 60
	DefaultStartTime   = "09:00"
	DefaultProjectType = "project"
	DefaultStatus      = "Active"
)

// Clock supplies the current time. Injected so tests control "today".
type Clock func() time.Time

// IDFunc supplies fresh identifiers; values must not collide within the
// lifetime of one document.
type IDFunc func() ID

// NewUUID is the default IDFunc.
func NewUUID() ID {
	return ID(uuid.NewString())
}

// DefaultPillars returns the seed set used when a document carries none.
func DefaultPillars() []Pillar {
	return []Pillar{
		{ID: "1", Title: "Digital Ecosystem & Standards", Intent: "Build reliable, accessible digital infrastructure", Color: "#0891b2"},
		{ID: "2", Title: "Pedagogy, Assessment & Innovation", Intent: "Transform teaching through digital tools", Color: "#7c3aed"},
		{ID: "3", Title: "Inclusion & Accessibility", Intent: "Ensure equitable digital access for all learners", Color: "#059669"},
		{ID: "4", Title: "Capacity Building & QA", Intent: "Develop staff capability and quality processes", Color: "#ea580c"},
	}
}

// DefaultSettings returns the seed settings block.
func DefaultSettings() Settings {
	return Settings{
		Pillars: DefaultPillars(),
		KPIs: []string{
			"Teaching Quality Indicators",
			"QIP Traction",
			"Staff Capability",
			"Staff Confidence",
			"Student Experience",
			"Retention Proxy",
			"Value for Money",
			"Digital Champions",
		},
		QASources: []string{
			"Learning Walk Data",
			"TLA Profile",
			"QIP Review",
			"Coaching Record",
			"Staff Survey",
			"Learner Voice",
			"Exit Interview",
			"Teams Analytics",
			"Other",
		},
		MeetingCategories: []string{
			"1:1 Line Manager",
			"Wider Leadership",
			"HoAs",
			"Digital Leads",
			"Champions",
			"TLAMs",
			"Quality Team",
			"External",
			"Other",
		},
	}
}

// NewState returns an empty document with seed settings.
func NewState() *State {
	return &State{
		Projects:       []Initiative{},
		Todos:          []Task{},
		MeetingNotes:   []MeetingNote{},
		CalendarEvents: []CalendarEvent{},
		DailyUpdates:   []any{},
		Settings:       DefaultSettings(),
	}
}
