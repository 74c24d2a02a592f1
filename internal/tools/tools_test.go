package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/snapshots"
)

// --- Test helpers ---

// fixedNow is Thursday 2026-10-15.
var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

const seedDoc = `{
  "projects": [
    {"id": "p1", "title": "VLE Refresh", "pillarId": "1", "status": "Active", "tlam": "Sam",
     "startDate": "2026-09-01", "endDate": "2027-07-31", "impactStatement": "Consistent course pages",
     "milestones": [{"uuid": "m1", "title": "Audit", "completed": true}, {"uuid": "m2", "title": "Pilot"}]},
    {"id": "p2", "title": "Champions Network", "pillarId": "4", "status": "Completed", "tlam": "Ana"}
  ],
  "todos": [
    {"id": "t1", "title": "Draft audit report", "type": "activity", "duration": 30, "dueDate": "2026-10-20", "projectId": "p1"},
    {"id": "t2", "title": "Book rooms", "type": "meeting"},
    {"id": "t3", "title": "Old job", "completed": true, "completedDate": "2026-10-01"}
  ],
  "calendarEvents": [
    {"id": "e1", "title": "Standup", "day": "Thu", "startTime": "09:00", "endTime": "09:15", "duration": 15, "type": "meeting", "linkedProjectId": "p1"}
  ],
  "meetingNotes": [{"id": "n1", "title": "Kickoff", "date": "2026-10-01"}]
}`

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

// newTestPlanner opens a planner over an in-memory copy of doc.
func newTestPlanner(t *testing.T, doc string) *planner.Planner {
	t.Helper()
	var initial []byte
	if doc != "" {
		initial = []byte(doc)
	}
	p := planner.New(planner.Options{
		Storage: hub.NewMemoryStorage(initial),
		Clock:   func() time.Time { return fixedNow },
		NewID:   seqIDs(),
	})
	if _, err := p.Open(context.Background()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return p
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return tc.Text
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func mustHandle(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	result, err := h(context.Background(), makeReq(args))
	if err != nil {
		t.Fatalf("unexpected Go error: %v", err)
	}
	return result
}

// --- Definitions ---

func TestDefinitions(t *testing.T) {
	p := newTestPlanner(t, "")
	store, err := snapshots.New(snapshots.Config{DataDir: t.TempDir(), Keep: 5})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	tests := []struct {
		name string
		def  mcp.Tool
	}{
		{"hub_open", NewOpenTool(p).Definition()},
		{"hub_dashboard", NewDashboardTool(p).Definition()},
		{"hub_report", NewReportTool(p).Definition()},
		{"hub_hopper", NewHopperTool(p).Definition()},
		{"hub_week", NewWeekTool(p).Definition()},
		{"hub_schedule", NewScheduleTool(p).Definition()},
		{"hub_task_add", NewTaskAddTool(p).Definition()},
		{"hub_task_complete", NewTaskCompleteTool(p).Definition()},
		{"hub_project_save", NewProjectSaveTool(p).Definition()},
		{"hub_meeting_new", NewMeetingNewTool(p).Definition()},
		{"hub_daily", NewDailyTool(p).Definition()},
		{"hub_daily_commit", NewDailyCommitTool(p).Definition()},
		{"hub_history", NewHistoryTool(store).Definition()},
		{"hub_restore", NewRestoreTool(p, store).Definition()},
	}
	for _, tt := range tests {
		if tt.def.Name != tt.name {
			t.Errorf("Definition().Name = %q, want %q", tt.def.Name, tt.name)
		}
		if tt.def.Description == "" {
			t.Errorf("%s has no description", tt.name)
		}
	}
}

// --- Views ---

func TestOpenTool_FreshHub(t *testing.T) {
	p := newTestPlanner(t, "")
	text := resultText(t, mustHandle(t, NewOpenTool(p).Handle, nil))
	if !strings.Contains(text, "fresh hub") || !strings.Contains(text, "**Pillars:** 4") {
		t.Errorf("unexpected open output:\n%s", text)
	}
}

func TestOpenTool_Existing(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	text := resultText(t, mustHandle(t, NewOpenTool(p).Handle, nil))
	if !strings.Contains(text, "existing document") || !strings.Contains(text, "**Tasks:** 3") {
		t.Errorf("unexpected open output:\n%s", text)
	}
}

func TestDashboardTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	text := resultText(t, mustHandle(t, NewDashboardTool(p).Handle, nil))

	for _, want := range []string{
		"**Active projects:** 1",
		"**Open tasks:** 2",
		"**Week events:** 1",
		"| Digital Ecosystem & Standards | 1 | 50% |",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("dashboard missing %q:\n%s", want, text)
		}
	}
}

func TestReportTool_Filters(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewReportTool(p)

	text := resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"tlam": "Ana"}))
	if !strings.Contains(text, "Champions Network") || strings.Contains(text, "VLE Refresh (") {
		t.Errorf("tlam filter not applied:\n%s", text)
	}

	text = resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"pillar_id": "3"}))
	if !strings.Contains(text, "No projects match") {
		t.Errorf("expected empty report:\n%s", text)
	}

	text = resultText(t, mustHandle(t, tool.Handle, nil))
	if !strings.Contains(text, "**Impact statements:** 1") || !strings.Contains(text, "> Consistent course pages") {
		t.Errorf("impact evidence missing:\n%s", text)
	}
}

func TestHopperTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewHopperTool(p)

	text := resultText(t, mustHandle(t, tool.Handle, nil))
	if !strings.Contains(text, "2 open") || strings.Contains(text, "Old job") {
		t.Errorf("hopper should list only open tasks:\n%s", text)
	}
	if strings.Index(text, "Draft audit report") > strings.Index(text, "Book rooms") {
		t.Error("dated task should come before undated task")
	}

	text = resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"search": "nothing like this"}))
	if text != "No open tasks match." {
		t.Errorf("got %q", text)
	}
}

func TestWeekTool_Offset(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewWeekTool(p)

	text := resultText(t, mustHandle(t, tool.Handle, nil))
	if !strings.Contains(text, "12 Oct 2026") {
		t.Errorf("current week should start 12 Oct:\n%s", text)
	}
	if !strings.Contains(text, "09:00-09:15 **Standup**") {
		t.Errorf("event missing:\n%s", text)
	}
	if !strings.Contains(text, "Slots run 08:00 to 18:00") {
		t.Errorf("slot range missing:\n%s", text)
	}

	text = resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"offset": float64(1)}))
	if !strings.Contains(text, "19 Oct 2026") {
		t.Errorf("offset 1 should show week of 19 Oct:\n%s", text)
	}
	if w := p.Week(); w.Start.Day() != 19 {
		t.Errorf("anchor should stay moved, got %v", w.Start)
	}
}

// --- Mutations ---

func TestScheduleTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewScheduleTool(p)

	result := mustHandle(t, tool.Handle, map[string]interface{}{"task_id": "t1", "day": "Tue", "time": "17:45"})
	if isErrorResult(result) {
		t.Fatalf("unexpected error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if !strings.Contains(text, "Tue 17:45-18:15 (30 min)") {
		t.Errorf("unexpected schedule output:\n%s", text)
	}

	tasks := p.Hopper("Draft", "")
	if len(tasks) != 1 || !tasks[0].Scheduled {
		t.Error("task should stay in hopper marked scheduled")
	}
}

func TestScheduleTool_Errors(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewScheduleTool(p)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing args", map[string]interface{}{"task_id": "t1"}},
		{"unknown task", map[string]interface{}{"task_id": "nope", "day": "Mon", "time": "09:00"}},
		{"weekend", map[string]interface{}{"task_id": "t1", "day": "Sat", "time": "09:00"}},
		{"off grid", map[string]interface{}{"task_id": "t1", "day": "Mon", "time": "09:10"}},
		{"after hours", map[string]interface{}{"task_id": "t1", "day": "Mon", "time": "18:15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := mustHandle(t, tool.Handle, tt.args); !isErrorResult(result) {
				t.Errorf("expected tool error, got %s", resultText(t, result))
			}
		})
	}
	if n := len(p.Week().Events); n != 1 {
		t.Errorf("failed schedules must not add events, have %d", n)
	}
}

func TestTaskAddTool(t *testing.T) {
	p := newTestPlanner(t, "")
	tool := NewTaskAddTool(p)

	if result := mustHandle(t, tool.Handle, nil); !isErrorResult(result) {
		t.Error("missing title should be a tool error")
	}
	if result := mustHandle(t, tool.Handle, map[string]interface{}{"title": "x", "duration": float64(-5)}); !isErrorResult(result) {
		t.Error("negative duration should be a tool error")
	}

	text := resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"title": "Write bid"}))
	if !strings.Contains(text, "(activity, 60 min)") || !strings.Contains(text, "`id-1`") {
		t.Errorf("defaults not applied:\n%s", text)
	}
}

func TestTaskCompleteTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewTaskCompleteTool(p)

	text := resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"task_id": "t2"}))
	if text != "Completed **Book rooms** on 2026-10-15." {
		t.Errorf("got %q", text)
	}
	if len(p.DailyItems()) != 2 {
		t.Error("completed task should join today's daily log")
	}

	text = resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{"task_id": "t2", "completed": false}))
	if text != "Reopened **Book rooms**." {
		t.Errorf("got %q", text)
	}

	if result := mustHandle(t, tool.Handle, map[string]interface{}{"task_id": "ghost"}); !isErrorResult(result) {
		t.Error("unknown task should be a tool error")
	}
}

func TestProjectSaveTool_Create(t *testing.T) {
	p := newTestPlanner(t, "")
	tool := NewProjectSaveTool(p)

	if result := mustHandle(t, tool.Handle, map[string]interface{}{"tlam": "Sam"}); !isErrorResult(result) {
		t.Error("create without title should be a tool error")
	}

	text := resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{
		"title":      "Accessibility Audit",
		"pillar_id":  "3",
		"milestones": `[{"title":"Scope","completed":true},{"title":"Report"},{"title":"Fixes"},{"title":"Retest"}]`,
	}))
	for _, want := range []string{"Created **Accessibility Audit**", "**Type:** project", "**Status:** Active", "25% of 4"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}

	proj, ok := p.Project("id-1")
	if !ok {
		t.Fatal("project not stored under generated id")
	}
	for _, m := range proj.Milestones {
		if m.UUID == "" {
			t.Error("milestone saved without uuid")
		}
	}
}

func TestProjectSaveTool_PartialUpdate(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewProjectSaveTool(p)

	result := mustHandle(t, tool.Handle, map[string]interface{}{"project_id": "p1", "status": "On Hold"})
	if isErrorResult(result) {
		t.Fatal(resultText(t, result))
	}
	proj, _ := p.Project("p1")
	if proj.Status != "On Hold" {
		t.Errorf("status = %q", proj.Status)
	}
	if proj.Title != "VLE Refresh" || proj.TLAM != "Sam" || len(proj.Milestones) != 2 {
		t.Errorf("fields not sent were changed: %+v", proj)
	}

	if result := mustHandle(t, tool.Handle, map[string]interface{}{"project_id": "p9"}); !isErrorResult(result) {
		t.Error("unknown project should be a tool error")
	}
	if result := mustHandle(t, tool.Handle, map[string]interface{}{"project_id": "p1", "milestones": "{"}); !isErrorResult(result) {
		t.Error("bad milestones JSON should be a tool error")
	}
}

func TestProjectSaveTool_KeepsCommittedUpdates(t *testing.T) {
	p := newTestPlanner(t, seedDoc)

	mustHandle(t, NewDailyCommitTool(p).Handle, map[string]interface{}{
		"edits": `[{"id":"e1","comments":"Agreed pilot"}]`,
	})
	result := mustHandle(t, NewProjectSaveTool(p).Handle, map[string]interface{}{
		"project_id": "p1",
		"status":     "Completed",
		"milestones": `[{"uuid":"m1","title":"Plan","completed":true}]`,
	})
	if isErrorResult(result) {
		t.Fatal(resultText(t, result))
	}

	proj, _ := p.Project("p1")
	if proj.Status != "Completed" || len(proj.Milestones) != 1 {
		t.Errorf("update not applied: %+v", proj)
	}
	if len(proj.Updates) != 1 || proj.Updates[0].Source != "Daily Update" {
		t.Errorf("committed update lost: %+v", proj.Updates)
	}
}

func TestMeetingNewTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	text := resultText(t, mustHandle(t, NewMeetingNewTool(p).Handle, map[string]interface{}{"title": "Weekly 1:1"}))
	if !strings.Contains(text, "2026-10-15") || !strings.Contains(text, "1:1 Line Manager") {
		t.Errorf("unexpected output:\n%s", text)
	}
	if notes := p.Document().MeetingNotes; len(notes) != 2 || notes[0].Title != "Weekly 1:1" {
		t.Error("new note should be first")
	}
}

// --- Daily ---

func TestDailyTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	text := resultText(t, mustHandle(t, NewDailyTool(p).Handle, nil))
	if !strings.Contains(text, "# Daily Log: 2026-10-15") || !strings.Contains(text, "Standup `e1`") {
		t.Errorf("unexpected daily log:\n%s", text)
	}
	if strings.Contains(text, "Old job") {
		t.Error("tasks completed on other days must not appear")
	}
}

func TestDailyTool_Empty(t *testing.T) {
	p := newTestPlanner(t, "")
	text := resultText(t, mustHandle(t, NewDailyTool(p).Handle, nil))
	if !strings.Contains(text, "Nothing on the log today.") {
		t.Errorf("got:\n%s", text)
	}
}

func TestDailyCommitTool(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewDailyCommitTool(p)

	text := resultText(t, mustHandle(t, tool.Handle, map[string]interface{}{
		"edits": `[{"id":"e1","comments":"Agreed pilot","evidenceLink":"https://example.org/minutes"},{"id":"zz","comments":"?"}]`,
	}))
	for _, want := range []string{"**Items written back:** 1", "**Project updates added:** 1", "`zz`"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q:\n%s", want, text)
		}
	}

	proj, _ := p.Project("p1")
	if len(proj.Updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(proj.Updates))
	}
	u := proj.Updates[0]
	if u.Date != "2026-10-15" || u.Text != "Standup: Agreed pilot" || u.Source != "Daily Update" {
		t.Errorf("unexpected update %+v", u)
	}
}

func TestDailyCommitTool_BadInput(t *testing.T) {
	p := newTestPlanner(t, seedDoc)
	tool := NewDailyCommitTool(p)

	if result := mustHandle(t, tool.Handle, map[string]interface{}{"edits": "not json"}); !isErrorResult(result) {
		t.Error("invalid JSON should be a tool error")
	}
	if result := mustHandle(t, tool.Handle, map[string]interface{}{"edits": `[{"comments":"x"}]`}); !isErrorResult(result) {
		t.Error("edit without id should be a tool error")
	}
}

// --- History ---

func TestHistoryAndRestore(t *testing.T) {
	ctx := context.Background()
	store, err := snapshots.New(snapshots.Config{DataDir: t.TempDir(), Keep: 10})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	p := planner.New(planner.Options{
		Storage: snapshots.NewJournal(hub.NewMemoryStorage([]byte(seedDoc)), store),
		Clock:   func() time.Time { return fixedNow },
		NewID:   seqIDs(),
	})
	if _, err := p.Open(ctx); err != nil {
		t.Fatal(err)
	}

	history := NewHistoryTool(store)
	if text := resultText(t, mustHandle(t, history.Handle, nil)); text != "No revisions saved yet." {
		t.Errorf("got %q", text)
	}

	if _, err := p.AddTask(ctx, planner.NewTask{Title: "First"}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddTask(ctx, planner.NewTask{Title: "Second"}); err != nil {
		t.Fatal(err)
	}

	text := resultText(t, mustHandle(t, history.Handle, nil))
	if !strings.Contains(text, "Revisions (2)") {
		t.Fatalf("unexpected history:\n%s", text)
	}
	revs, _ := store.List(ctx, 0)

	restore := NewRestoreTool(p, store)
	result := mustHandle(t, restore.Handle, map[string]interface{}{"revision": float64(revs[1].ID)})
	if isErrorResult(result) {
		t.Fatal(resultText(t, result))
	}
	if n := len(p.Document().Todos); n != 4 {
		t.Errorf("todos after restore = %d, want 4", n)
	}
	if again, _ := store.List(ctx, 0); len(again) != 3 {
		t.Errorf("restore should be recorded as a new revision, have %d", len(again))
	}

	if result := mustHandle(t, restore.Handle, map[string]interface{}{"revision": float64(999)}); !isErrorResult(result) {
		t.Error("unknown revision should be a tool error")
	}
	if result := mustHandle(t, restore.Handle, nil); !isErrorResult(result) {
		t.Error("missing revision should be a tool error")
	}
}
