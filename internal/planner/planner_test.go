package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/HendryAvila/impacthub/internal/daily"
	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/progress"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// fixedNow is a Thursday.
var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func seqIDs() hub.IDFunc {
	var mu sync.Mutex
	n := 0
	return func() hub.ID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return hub.ID(fmt.Sprintf("id-%d", n))
	}
}

func newTestPlanner(t *testing.T, doc string) (*Planner, *hub.MemoryStorage) {
	t.Helper()
	var initial []byte
	if doc != "" {
		initial = []byte(doc)
	}
	store := hub.NewMemoryStorage(initial)
	p := New(Options{
		Storage: store,
		Clock:   func() time.Time { return fixedNow },
		NewID:   seqIDs(),
	})
	if _, err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return p, store
}

func storedDocument(t *testing.T, store hub.Storage) hub.Document {
	t.Helper()
	data, err := store.Read(context.Background())
	if err != nil {
		t.Fatalf("reading storage: %v", err)
	}
	var doc hub.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("stored document is not valid JSON: %v", err)
	}
	return doc
}

// flakyStorage fails writes while fail is set.
type flakyStorage struct {
	*hub.MemoryStorage
	mu   sync.Mutex
	fail bool
}

func (f *flakyStorage) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func (f *flakyStorage) Write(ctx context.Context, data []byte) error {
	f.mu.Lock()
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Write(ctx, data)
}

const seedDoc = `{
  "projects": [
    {"id": "p1", "title": "Coaching", "priorityId": "2", "status": "Active",
     "milestones": [{"title": "Kickoff", "completed": true}, {"title": "Review"}]}
  ],
  "todos": [
    {"id": "t1", "title": "Draft plan", "type": "project", "duration": 30, "projectId": "p1", "dueDate": "2026-10-20"},
    {"id": "t2", "text": "Legacy task"}
  ],
  "calendarEvents": [
    {"id": "e1", "title": "Walk", "day": "Mon", "time": "10:00", "linkedProjectId": "p1"}
  ]
}`

func TestOpen_MissingDocumentCreatesDefaults(t *testing.T) {
	p := New(Options{Storage: hub.NewMemoryStorage(nil), Clock: func() time.Time { return fixedNow }})
	created, err := p.Open(context.Background())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if len(p.Settings().Pillars) != 4 {
		t.Errorf("pillars = %d, want seed 4", len(p.Settings().Pillars))
	}
}

func TestOpen_MalformedKeepsState(t *testing.T) {
	p, _ := newTestPlanner(t, seedDoc)

	p.storage = hub.NewMemoryStorage([]byte("{not json"))
	_, err := p.Open(context.Background())
	if !errors.Is(err, hub.ErrMalformedDocument) {
		t.Fatalf("err = %v, want ErrMalformedDocument", err)
	}
	if got := len(p.Document().Projects); got != 1 {
		t.Errorf("projects = %d, want previous state kept", got)
	}
}

func TestOpen_NormalizesLegacyFields(t *testing.T) {
	p, _ := newTestPlanner(t, seedDoc)
	doc := p.Document()

	if doc.Projects[0].PillarID != "2" {
		t.Errorf("pillarId = %q, want migrated 2", doc.Projects[0].PillarID)
	}
	ev := doc.CalendarEvents[0]
	if ev.StartTime != "10:00" || ev.EndTime != "11:00" {
		t.Errorf("event times = %s-%s", ev.StartTime, ev.EndTime)
	}
	if doc.Todos[1].Type != hub.DefaultTaskType || doc.Todos[1].Duration != 60 {
		t.Errorf("legacy task defaults = %+v", doc.Todos[1])
	}
}

func TestViews(t *testing.T) {
	p, _ := newTestPlanner(t, seedDoc)

	d := p.Dashboard()
	if d.ActiveProjects != 1 || d.OpenTasks != 2 || d.WeekEvents != 1 || d.OverallProgress != 50 {
		t.Errorf("dashboard = %+v", d)
	}

	r := p.Report(progress.ReportFilter{Pillar: "2"})
	if len(r.Projects) != 1 || r.Progress != 50 {
		t.Errorf("report = %+v", r)
	}
	if r := p.Report(progress.ReportFilter{Pillar: "9"}); len(r.Projects) != 0 || r.Projects == nil {
		t.Errorf("empty report = %+v", r.Projects)
	}

	hopper := p.Hopper("", "")
	if len(hopper) != 2 || hopper[0].ID != "t1" {
		t.Errorf("hopper = %+v", hopper)
	}

	w := p.Week()
	if w.Label != "12 Oct 2026 - 16 Oct 2026" || len(w.Slots) != 41 || len(w.Events) != 1 {
		t.Errorf("week = %s, %d slots, %d events", w.Label, len(w.Slots), len(w.Events))
	}
	if got := p.AdvanceWeek(-1).Label; got != "05 Oct 2026 - 09 Oct 2026" {
		t.Errorf("previous week = %s", got)
	}
}

func TestViews_DoNotAliasState(t *testing.T) {
	p, _ := newTestPlanner(t, seedDoc)

	r := p.Report(progress.ReportFilter{})
	r.Projects[0].Milestones[0].Completed = false
	p.Week().Events[0].Title = "changed"

	doc := p.Document()
	if !doc.Projects[0].Milestones[0].Completed {
		t.Error("report mutation leaked into state")
	}
	if doc.CalendarEvents[0].Title != "Walk" {
		t.Error("week mutation leaked into state")
	}
}

func TestScheduleTask(t *testing.T) {
	p, store := newTestPlanner(t, seedDoc)

	ev, err := p.ScheduleTask(context.Background(), "t1", "Tue", "14:45")
	if err != nil {
		t.Fatalf("ScheduleTask failed: %v", err)
	}
	if ev.EndTime != "15:15" || ev.LinkedTaskID != "t1" || ev.LinkedProjectID != "p1" {
		t.Errorf("event = %+v", ev)
	}

	doc := storedDocument(t, store)
	if len(doc.CalendarEvents) != 2 || len(doc.Todos) != 2 {
		t.Errorf("stored events/todos = %d/%d, want 2/2", len(doc.CalendarEvents), len(doc.Todos))
	}
	if !doc.Todos[0].Scheduled {
		t.Error("stored task should be marked scheduled")
	}

	if _, err := p.ScheduleTask(context.Background(), "nope", "Tue", "09:00"); !errors.Is(err, schedule.ErrTaskNotFound) {
		t.Errorf("err = %v, want ErrTaskNotFound", err)
	}
	if _, err := p.ScheduleTask(context.Background(), "t1", "Sat", "09:00"); !errors.Is(err, schedule.ErrInvalidSlot) {
		t.Errorf("err = %v, want ErrInvalidSlot", err)
	}
}

func TestAddAndCompleteTask(t *testing.T) {
	p, store := newTestPlanner(t, "")
	ctx := context.Background()

	task, err := p.AddTask(ctx, NewTask{Title: "Write"})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if task.ID != "id-1" || task.Type != "activity" || task.Duration != 60 {
		t.Errorf("task = %+v", task)
	}

	done, err := p.CompleteTask(ctx, task.ID, true)
	if err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if !done.Completed || done.CompletedDate != "2026-10-15" {
		t.Errorf("completed = %+v", done)
	}

	reopened, _ := p.CompleteTask(ctx, task.ID, false)
	if reopened.Completed || reopened.CompletedDate != "" {
		t.Errorf("reopened = %+v", reopened)
	}

	if _, err := p.CompleteTask(ctx, "ghost", true); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("err = %v, want ErrUnknownTask", err)
	}
	if store.Writes() != 3 {
		t.Errorf("writes = %d, want 3 (failed op must not write)", store.Writes())
	}
}

func TestSaveProject_Upsert(t *testing.T) {
	p, _ := newTestPlanner(t, seedDoc)
	ctx := context.Background()

	created, err := p.SaveProject(ctx, hub.Initiative{
		Title:      "New",
		Milestones: []hub.Milestone{{Title: "M1"}},
	})
	if err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}
	if created.ID == "" || created.Type != "project" || created.Status != "Active" {
		t.Errorf("defaults = %+v", created)
	}
	if created.Milestones[0].UUID == "" {
		t.Error("milestone uuid not assigned")
	}

	created.Status = hub.StatusCompleted
	if _, err := p.SaveProject(ctx, created); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	doc := p.Document()
	if len(doc.Projects) != 2 {
		t.Fatalf("projects = %d, want 2 (update must not duplicate)", len(doc.Projects))
	}
	if doc.Projects[1].Status != hub.StatusCompleted {
		t.Errorf("status = %q", doc.Projects[1].Status)
	}
}

func TestUpdateProject(t *testing.T) {
	p, store := newTestPlanner(t, seedDoc)
	ctx := context.Background()

	note := "Went well"
	if _, _, err := p.CommitDaily(ctx, []daily.Edit{{ID: "e1", Comments: &note}}); err != nil {
		t.Fatal(err)
	}
	updated, err := p.UpdateProject(ctx, "p1", func(proj *hub.Initiative) error {
		proj.Status = hub.StatusCompleted
		proj.Milestones = append(proj.Milestones, hub.Milestone{Title: "Close"})
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateProject failed: %v", err)
	}
	if updated.Status != hub.StatusCompleted || updated.Milestones[2].UUID == "" {
		t.Errorf("updated = %+v", updated)
	}

	stored := storedDocument(t, store).Projects[0]
	if stored.Status != hub.StatusCompleted || stored.Title != "Coaching" {
		t.Errorf("stored = %+v", stored)
	}
	if len(stored.Updates) != 1 || stored.Updates[0].Source != "Daily Update" {
		t.Errorf("updates = %+v, want the committed entry kept", stored.Updates)
	}

	if _, err := p.UpdateProject(ctx, "ghost", func(*hub.Initiative) error { return nil }); !errors.Is(err, ErrUnknownProject) {
		t.Errorf("err = %v, want ErrUnknownProject", err)
	}

	rejected := errors.New("rejected")
	_, err = p.UpdateProject(ctx, "p1", func(proj *hub.Initiative) error {
		proj.Title = "changed"
		return rejected
	})
	if !errors.Is(err, rejected) {
		t.Errorf("err = %v, want the callback's error", err)
	}
	if proj, _ := p.Project("p1"); proj.Title != "Coaching" {
		t.Errorf("failed update changed the title to %q", proj.Title)
	}
}

func TestUpdateProject_ConcurrentWithCommitDaily(t *testing.T) {
	p, store := newTestPlanner(t, seedDoc)
	ctx := context.Background()

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			note := fmt.Sprintf("note %d", i)
			if _, _, err := p.CommitDaily(ctx, []daily.Edit{{ID: "e1", Comments: &note}}); err != nil {
				t.Errorf("CommitDaily: %v", err)
			}
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := p.UpdateProject(ctx, "p1", func(proj *hub.Initiative) error {
				proj.ImpactStatement = fmt.Sprintf("statement %d", i)
				return nil
			})
			if err != nil {
				t.Errorf("UpdateProject: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(storedDocument(t, store).Projects[0].Updates); got != n {
		t.Errorf("stored updates = %d, want %d", got, n)
	}
}

func TestSaveProject_KeepsStoredExtra(t *testing.T) {
	p, _ := newTestPlanner(t, `{"projects":[{"id":"p1","title":"Coaching","kpis":["reach"]}]}`)
	ctx := context.Background()

	if _, err := p.SaveProject(ctx, hub.Initiative{ID: "p1", Title: "Renamed"}); err != nil {
		t.Fatal(err)
	}
	proj, _ := p.Project("p1")
	if proj.Title != "Renamed" || proj.Extra["kpis"] == nil {
		t.Errorf("project = %+v", proj)
	}
}

func TestCreateMeeting_Prepends(t *testing.T) {
	p, _ := newTestPlanner(t, "")
	ctx := context.Background()

	if _, err := p.CreateMeeting(ctx, "first"); err != nil {
		t.Fatal(err)
	}
	second, err := p.CreateMeeting(ctx, "second")
	if err != nil {
		t.Fatal(err)
	}
	if second.Date != "2026-10-15" || second.Category != "1:1 Line Manager" {
		t.Errorf("note = %+v", second)
	}
	notes := p.Document().MeetingNotes
	if len(notes) != 2 || notes[0].Title != "second" {
		t.Errorf("notes = %+v", notes)
	}
}

func TestCommitDaily(t *testing.T) {
	p, store := newTestPlanner(t, seedDoc)
	ctx := context.Background()

	if _, err := p.CompleteTask(ctx, "t1", true); err != nil {
		t.Fatal(err)
	}
	items := p.DailyItems()
	if len(items) != 2 {
		t.Fatalf("daily items = %d, want event + completed task", len(items))
	}

	note := "Went well"
	res, unmatched, err := p.CommitDaily(ctx, []daily.Edit{
		{ID: "e1", Comments: &note},
		{ID: "missing", Comments: &note},
	})
	if err != nil {
		t.Fatalf("CommitDaily failed: %v", err)
	}
	if res.Written != 2 || res.Evidence != 1 || len(unmatched) != 1 {
		t.Errorf("result = %+v, unmatched = %v", res, unmatched)
	}

	doc := storedDocument(t, store)
	if doc.CalendarEvents[0].Comments != "Went well" {
		t.Error("comment not persisted")
	}
	updates := doc.Projects[0].Updates
	if len(updates) != 1 || updates[0].Text != "Walk: Went well" || updates[0].Source != "Daily Update" {
		t.Errorf("updates = %+v", updates)
	}
}

func TestFailedWrite_KeepsStateAndMarksDirty(t *testing.T) {
	store := &flakyStorage{MemoryStorage: hub.NewMemoryStorage(nil)}
	p := New(Options{Storage: store, Clock: func() time.Time { return fixedNow }, NewID: seqIDs()})
	ctx := context.Background()
	if _, err := p.Open(ctx); err != nil {
		t.Fatal(err)
	}

	store.setFail(true)
	_, err := p.AddTask(ctx, NewTask{Title: "kept"})
	var perr *PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *PersistError", err)
	}
	if !p.Dirty() {
		t.Error("planner should be dirty after failed write")
	}
	if len(p.Hopper("", "")) != 1 {
		t.Error("in-memory state should keep the task")
	}

	store.setFail(false)
	if err := p.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Dirty() {
		t.Error("planner should be clean after successful save")
	}
	if len(storedDocument(t, store).Todos) != 1 {
		t.Error("retry did not persist the task")
	}
}

func TestConcurrentMutations_LastWriteHasEverything(t *testing.T) {
	p, store := newTestPlanner(t, "")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := p.AddTask(ctx, NewTask{Title: fmt.Sprintf("task %d", i)}); err != nil {
				t.Errorf("AddTask: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(storedDocument(t, store).Todos); got != 20 {
		t.Errorf("stored todos = %d, want 20", got)
	}
	if p.Dirty() {
		t.Error("planner should be clean")
	}
}

func TestRestore(t *testing.T) {
	p, store := newTestPlanner(t, seedDoc)
	ctx := context.Background()

	if err := p.Restore(ctx, []byte(`{"todos": [{"id": "r1", "title": "restored"}]}`)); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	doc := storedDocument(t, store)
	if len(doc.Projects) != 0 || len(doc.Todos) != 1 || doc.Todos[0].ID != "r1" {
		t.Errorf("stored after restore = %+v", doc)
	}

	if err := p.Restore(ctx, []byte(`[1,2]`)); !errors.Is(err, hub.ErrMalformedDocument) {
		t.Errorf("err = %v, want ErrMalformedDocument", err)
	}
	if len(p.Document().Todos) != 1 {
		t.Error("malformed restore changed state")
	}
}
