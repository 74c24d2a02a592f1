package hub

import "encoding/json"

// Keys each record type reads, including the legacy aliases Load migrates.
// Anything else on a record is kept in its Extra map.
var (
	initiativeKeys = keySet("id", "title", "pillarId", "priorityId", "type", "status", "milestones",
		"updates", "impactStatement", "deptCode", "staff", "tlam", "startDate", "endDate")
	milestoneKeys = keySet("uuid", "title", "dueDate", "date", "completed")
	taskKeys      = keySet("id", "title", "text", "type", "duration", "completed", "completedDate",
		"dueDate", "projectId", "scheduled", "comments", "evidenceLink", "impactStatement")
	meetingNoteKeys = keySet("id", "title", "date", "category", "content", "attendees",
		"linkedProjectId", "links")
	eventKeys = keySet("id", "title", "day", "startTime", "endTime", "time", "duration", "type",
		"linkedTaskId", "linkedProjectId", "comments", "evidenceLink", "impactStatement")
)

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// extraKeys returns the entries of r whose keys are not in known, or nil.
func extraKeys(r map[string]any, known map[string]bool) map[string]any {
	var extra map[string]any
	for k, v := range r {
		if known[k] {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra
}

// withExtra merges extra into the encoded object. Modelled fields win on
// a key clash.
func withExtra(data []byte, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := obj[k]; ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		obj[k] = raw
	}
	return json.Marshal(obj)
}

// MarshalJSON writes the milestone with its extra keys.
func (m Milestone) MarshalJSON() ([]byte, error) {
	type plain Milestone
	data, err := json.Marshal(plain(m))
	if err != nil {
		return nil, err
	}
	return withExtra(data, m.Extra)
}

// MarshalJSON writes the initiative with its extra keys.
func (p Initiative) MarshalJSON() ([]byte, error) {
	type plain Initiative
	data, err := json.Marshal(plain(p))
	if err != nil {
		return nil, err
	}
	return withExtra(data, p.Extra)
}

// MarshalJSON writes the task with its extra keys.
func (t Task) MarshalJSON() ([]byte, error) {
	type plain Task
	data, err := json.Marshal(plain(t))
	if err != nil {
		return nil, err
	}
	return withExtra(data, t.Extra)
}

// MarshalJSON writes the event with its extra keys.
func (e CalendarEvent) MarshalJSON() ([]byte, error) {
	type plain CalendarEvent
	data, err := json.Marshal(plain(e))
	if err != nil {
		return nil, err
	}
	return withExtra(data, e.Extra)
}

// MarshalJSON writes the meeting note with its extra keys.
func (n MeetingNote) MarshalJSON() ([]byte, error) {
	type plain MeetingNote
	data, err := json.Marshal(plain(n))
	if err != nil {
		return nil, err
	}
	return withExtra(data, n.Extra)
}
