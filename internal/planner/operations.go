package planner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/HendryAvila/impacthub/internal/daily"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/progress"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// --- Views ---

// Dashboard summarises the whole document.
func (p *Planner) Dashboard() progress.Summary {
	var s progress.Summary
	p.view(func(st *hub.State) { s = progress.Summarize(st) })
	return s
}

// Report is a filtered selection of initiatives with its rollups.
type Report struct {
	Filter           progress.ReportFilter `json:"filter"`
	Projects         []hub.Initiative      `json:"projects"`
	Progress         float64               `json:"progress"`
	ImpactStatements int                   `json:"impactStatements"`
	TLAMs            []string              `json:"tlams"`
}

// Report applies f to the initiatives.
func (p *Planner) Report(f progress.ReportFilter) Report {
	r := Report{Filter: f}
	p.view(func(st *hub.State) {
		for _, proj := range progress.FilterReport(st.Projects, f) {
			r.Projects = append(r.Projects, proj.Clone())
		}
		r.TLAMs = progress.UniqueTLAMs(st.Projects)
	})
	if r.Projects == nil {
		r.Projects = []hub.Initiative{}
	}
	r.Progress = progress.FilteredProgress(r.Projects)
	r.ImpactStatements = progress.TotalImpactStatements(r.Projects)
	return r
}

// Project returns a copy of the initiative with the given id.
func (p *Planner) Project(id hub.ID) (hub.Initiative, bool) {
	var (
		out   hub.Initiative
		found bool
	)
	p.view(func(st *hub.State) {
		if proj := st.Project(id); proj != nil {
			out, found = proj.Clone(), true
		}
	})
	return out, found
}

// Hopper lists open tasks for the planner sidebar.
func (p *Planner) Hopper(search, taskType string) []hub.Task {
	var out []hub.Task
	p.view(func(st *hub.State) { out = progress.HopperTasks(st.Todos, search, taskType) })
	return out
}

// Week is the anchored weekly grid with every placed event.
type Week struct {
	Start  time.Time           `json:"start"`
	Label  string              `json:"label"`
	Days   []string            `json:"days"`
	Slots  []string            `json:"slots"`
	Events []hub.CalendarEvent `json:"events"`
}

// Week returns the currently anchored week.
func (p *Planner) Week() Week {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.weekLocked()
}

// AdvanceWeek moves the anchor by n weeks (negative goes back) and returns
// the new week.
func (p *Planner) AdvanceWeek(n int) Week {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sched.Advance(n)
	return p.weekLocked()
}

func (p *Planner) weekLocked() Week {
	g := p.sched.Grid()
	return Week{
		Start:  p.sched.WeekStart(),
		Label:  p.sched.Label(),
		Days:   g.Days(),
		Slots:  g.Slots(),
		Events: slices.Clone(p.state.CalendarEvents),
	}
}

// DailyItems assembles today's daily log.
func (p *Planner) DailyItems() []daily.Item {
	today := p.Today()
	var items []daily.Item
	p.view(func(st *hub.State) { items = daily.Assemble(st, today) })
	return items
}

// --- Mutations ---

// ScheduleTask drops a task on a grid slot, creating a linked event.
func (p *Planner) ScheduleTask(ctx context.Context, taskID hub.ID, day, at string) (hub.CalendarEvent, error) {
	var ev hub.CalendarEvent
	err := p.mutate(ctx, func(st *hub.State) error {
		var err error
		ev, err = schedule.Schedule(st, p.sched.Grid(), taskID, day, at, p.newID())
		return err
	})
	return ev, err
}

// NewTask holds the caller-supplied fields of a task.
type NewTask struct {
	Title     string
	Type      string
	Duration  int
	DueDate   string
	ProjectID hub.ID
}

// AddTask appends a task to the hopper.
func (p *Planner) AddTask(ctx context.Context, in NewTask) (hub.Task, error) {
	t := hub.Task{
		ID:        p.newID(),
		Title:     in.Title,
		Type:      in.Type,
		Duration:  in.Duration,
		DueDate:   in.DueDate,
		ProjectID: in.ProjectID,
	}
	if t.Type == "" {
		t.Type = hub.DefaultTaskType
	}
	if t.Duration <= 0 {
		t.Duration = hub.DefaultDuration
	}
	err := p.mutate(ctx, func(st *hub.State) error {
		st.Todos = append(st.Todos, t)
		return nil
	})
	return t, err
}

// CompleteTask sets a task's completion flag. Completing stamps today's
// date; reopening clears it.
func (p *Planner) CompleteTask(ctx context.Context, id hub.ID, completed bool) (hub.Task, error) {
	today := p.Today()
	var out hub.Task
	err := p.mutate(ctx, func(st *hub.State) error {
		t := st.Task(id)
		if t == nil {
			return fmt.Errorf("%w: %s", ErrUnknownTask, id)
		}
		t.Completed = completed
		if completed {
			t.CompletedDate = today
		} else {
			t.CompletedDate = ""
		}
		out = *t
		return nil
	})
	return out, err
}

// SaveProject inserts an initiative or replaces the one with the same id.
// A blank id, type or status gets the creation defaults and milestones
// without a uuid get one. A replacement without Extra keeps the stored one.
func (p *Planner) SaveProject(ctx context.Context, in hub.Initiative) (hub.Initiative, error) {
	proj := in.Clone()
	if proj.ID == "" {
		proj.ID = p.newID()
	}
	p.fillProject(&proj)

	err := p.mutate(ctx, func(st *hub.State) error {
		if existing := st.Project(proj.ID); existing != nil {
			if proj.Extra == nil {
				proj.Extra = existing.Extra
			}
			*existing = proj
			return nil
		}
		st.Projects = append(st.Projects, proj)
		return nil
	})
	return proj.Clone(), err
}

// UpdateProject applies fn to the stored initiative under the state lock,
// so updates appended concurrently (by CommitDaily, say) are never lost.
// fn works on a copy; returning an error leaves the initiative unchanged.
func (p *Planner) UpdateProject(ctx context.Context, id hub.ID, fn func(*hub.Initiative) error) (hub.Initiative, error) {
	var out hub.Initiative
	err := p.mutate(ctx, func(st *hub.State) error {
		existing := st.Project(id)
		if existing == nil {
			return fmt.Errorf("%w: %s", ErrUnknownProject, id)
		}
		proj := existing.Clone()
		if err := fn(&proj); err != nil {
			return err
		}
		proj.ID = id
		p.fillProject(&proj)
		*existing = proj
		out = proj.Clone()
		return nil
	})
	return out, err
}

// fillProject applies the creation defaults.
func (p *Planner) fillProject(proj *hub.Initiative) {
	if proj.Type == "" {
		proj.Type = hub.DefaultProjectType
	}
	if proj.Status == "" {
		proj.Status = hub.DefaultStatus
	}
	for i := range proj.Milestones {
		if proj.Milestones[i].UUID == "" {
			proj.Milestones[i].UUID = p.newID()
		}
	}
}

// CreateMeeting prepends a blank meeting note dated today in the first
// configured category.
func (p *Planner) CreateMeeting(ctx context.Context, title string) (hub.MeetingNote, error) {
	note := hub.MeetingNote{
		ID:    p.newID(),
		Title: title,
		Date:  p.Today(),
		Links: []hub.Link{},
	}
	err := p.mutate(ctx, func(st *hub.State) error {
		if cats := st.Settings.MeetingCategories; len(cats) > 0 {
			note.Category = cats[0]
		}
		st.MeetingNotes = append([]hub.MeetingNote{note}, st.MeetingNotes...)
		return nil
	})
	return note, err
}

// CommitDaily applies edits to today's daily log and commits it. Edits
// naming ids that are not on the log are returned as unmatched.
func (p *Planner) CommitDaily(ctx context.Context, edits []daily.Edit) (daily.Result, []hub.ID, error) {
	today := p.Today()
	var (
		res       daily.Result
		unmatched []hub.ID
	)
	err := p.mutate(ctx, func(st *hub.State) error {
		var items []daily.Item
		items, unmatched = daily.ApplyEdits(daily.Assemble(st, today), edits)
		res = daily.Commit(st, items, today)
		return nil
	})
	return res, unmatched, err
}
