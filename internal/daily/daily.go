// Package daily assembles the daily log from calendar events and tasks
// finished today, and commits edits made on that log back to the records
// they came from.
package daily

import (
	"fmt"

	"github.com/HendryAvila/impacthub/internal/hub"
)

// Item types and the source tag stamped on evidence updates.
const (
	TypeTask         = "Task"
	DefaultEventType = "Event"
	UpdateSource     = "Daily Update"
)

// Origin identifies which collection an item was assembled from.
type Origin string

const (
	OriginTask  Origin = "task"
	OriginEvent Origin = "event"
)

// Item is one row of the daily log. It is never persisted.
type Item struct {
	ID              hub.ID `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Time            string `json:"time"`
	Comments        string `json:"comments"`
	EvidenceLink    string `json:"evidenceLink"`
	ImpactStatement string `json:"impactStatement"`
	LinkedProjectID hub.ID `json:"linkedProjectId,omitempty"`
	Origin          Origin `json:"origin"`
}

// HasEvidence reports whether any of the three evidence fields is filled.
func (it Item) HasEvidence() bool {
	return it.Comments != "" || it.EvidenceLink != "" || it.ImpactStatement != ""
}

// fromTask reports whether the item points into the task collection.
// Items built without an origin fall back to the type discriminator.
func (it Item) fromTask() bool {
	if it.Origin != "" {
		return it.Origin == OriginTask
	}
	return it.Type == TypeTask
}

// Assemble builds the daily log: every calendar event, then every task
// completed on today. Events are not filtered by date because the weekly
// grid only records weekday names.
func Assemble(st *hub.State, today string) []Item {
	items := []Item{}
	for _, e := range st.CalendarEvents {
		eventType := e.Type
		if eventType == "" {
			eventType = DefaultEventType
		}
		items = append(items, Item{
			ID:              e.ID,
			Title:           e.Title,
			Type:            eventType,
			Time:            e.StartTime,
			Comments:        e.Comments,
			EvidenceLink:    e.EvidenceLink,
			ImpactStatement: e.ImpactStatement,
			LinkedProjectID: e.LinkedProjectID,
			Origin:          OriginEvent,
		})
	}
	for _, t := range st.Todos {
		if !t.Completed || t.CompletedDate != today {
			continue
		}
		items = append(items, Item{
			ID:              t.ID,
			Title:           t.Label(),
			Type:            TypeTask,
			Comments:        t.Comments,
			EvidenceLink:    t.EvidenceLink,
			ImpactStatement: t.ImpactStatement,
			LinkedProjectID: t.ProjectID,
			Origin:          OriginTask,
		})
	}
	return items
}

// Edit overlays user input onto an assembled item. Nil fields are left
// as assembled.
type Edit struct {
	ID              hub.ID  `json:"id"`
	Comments        *string `json:"comments,omitempty"`
	EvidenceLink    *string `json:"evidenceLink,omitempty"`
	ImpactStatement *string `json:"impactStatement,omitempty"`
}

// ApplyEdits returns a copy of items with edits applied by id. Edits for
// ids not in the list are returned as unmatched.
func ApplyEdits(items []Item, edits []Edit) ([]Item, []hub.ID) {
	out := make([]Item, len(items))
	copy(out, items)

	var unmatched []hub.ID
	for _, ed := range edits {
		found := false
		for i := range out {
			if out[i].ID != ed.ID {
				continue
			}
			found = true
			if ed.Comments != nil {
				out[i].Comments = *ed.Comments
			}
			if ed.EvidenceLink != nil {
				out[i].EvidenceLink = *ed.EvidenceLink
			}
			if ed.ImpactStatement != nil {
				out[i].ImpactStatement = *ed.ImpactStatement
			}
		}
		if !found {
			unmatched = append(unmatched, ed.ID)
		}
	}
	return out, unmatched
}

// Result counts what a commit touched.
type Result struct {
	Written        int      `json:"written"`
	Missing        []hub.ID `json:"missing,omitempty"`
	Evidence       int      `json:"evidence"`
	UnknownProject []hub.ID `json:"unknownProject,omitempty"`
}

// Commit writes each item's evidence fields back to its origin record and
// appends an Update to the linked initiative when the item carries any
// evidence. Items are independent: a missing origin or initiative is
// recorded in the result and the rest are still processed.
func Commit(st *hub.State, items []Item, today string) Result {
	res := Result{}
	for _, it := range items {
		if writeBack(st, it) {
			res.Written++
		} else {
			res.Missing = append(res.Missing, it.ID)
		}

		if it.LinkedProjectID == "" || !it.HasEvidence() {
			continue
		}
		project := st.Project(it.LinkedProjectID)
		if project == nil {
			res.UnknownProject = append(res.UnknownProject, it.LinkedProjectID)
			continue
		}
		project.Updates = append(project.Updates, EvidenceUpdate(it, today))
		res.Evidence++
	}
	return res
}

// EvidenceUpdate is the initiative log entry recorded for an item.
func EvidenceUpdate(it Item, today string) hub.Update {
	return hub.Update{
		Date:   today,
		Text:   fmt.Sprintf("%s: %s", it.Title, it.Comments),
		Link:   it.EvidenceLink,
		Impact: it.ImpactStatement,
		Source: UpdateSource,
	}
}

func writeBack(st *hub.State, it Item) bool {
	if it.fromTask() {
		t := st.Task(it.ID)
		if t == nil {
			return false
		}
		t.Comments = it.Comments
		t.EvidenceLink = it.EvidenceLink
		t.ImpactStatement = it.ImpactStatement
		return true
	}
	e := st.Event(it.ID)
	if e == nil {
		return false
	}
	e.Comments = it.Comments
	e.EvidenceLink = it.EvidenceLink
	e.ImpactStatement = it.ImpactStatement
	return true
}
