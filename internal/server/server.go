// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it opens the configured storage and
// injects the planner into the tools, prompts and resources that use it.
// No business logic lives here, only wiring.
package server

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/impacthub/internal/config"
	"github.com/HendryAvila/impacthub/internal/prompts"
	"github.com/HendryAvila/impacthub/internal/resources"
	"github.com/HendryAvila/impacthub/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered.
//
// The returned cleanup function closes the storage and must be called on
// shutdown (typically via defer). It is always non-nil.
func New(ctx context.Context, cfg config.Config) (*server.MCPServer, func(), error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, noop, err
	}
	p := backend.Planner

	s := server.NewMCPServer(
		"impacthub",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register hub tools ---

	openTool := tools.NewOpenTool(p)
	s.AddTool(openTool.Definition(), openTool.Handle)

	dashboardTool := tools.NewDashboardTool(p)
	s.AddTool(dashboardTool.Definition(), dashboardTool.Handle)

	reportTool := tools.NewReportTool(p)
	s.AddTool(reportTool.Definition(), reportTool.Handle)

	hopperTool := tools.NewHopperTool(p)
	s.AddTool(hopperTool.Definition(), hopperTool.Handle)

	weekTool := tools.NewWeekTool(p)
	s.AddTool(weekTool.Definition(), weekTool.Handle)

	scheduleTool := tools.NewScheduleTool(p)
	s.AddTool(scheduleTool.Definition(), scheduleTool.Handle)

	taskAddTool := tools.NewTaskAddTool(p)
	s.AddTool(taskAddTool.Definition(), taskAddTool.Handle)

	taskCompleteTool := tools.NewTaskCompleteTool(p)
	s.AddTool(taskCompleteTool.Definition(), taskCompleteTool.Handle)

	projectSaveTool := tools.NewProjectSaveTool(p)
	s.AddTool(projectSaveTool.Definition(), projectSaveTool.Handle)

	meetingNewTool := tools.NewMeetingNewTool(p)
	s.AddTool(meetingNewTool.Definition(), meetingNewTool.Handle)

	dailyTool := tools.NewDailyTool(p)
	s.AddTool(dailyTool.Definition(), dailyTool.Handle)

	dailyCommitTool := tools.NewDailyCommitTool(p)
	s.AddTool(dailyCommitTool.Definition(), dailyCommitTool.Handle)

	// --- Register history tools ---
	//
	// History is optional: without it the hub still loads and saves,
	// there is just nothing to list or restore.

	if backend.History != nil {
		historyTool := tools.NewHistoryTool(backend.History)
		s.AddTool(historyTool.Definition(), historyTool.Handle)

		restoreTool := tools.NewRestoreTool(p, backend.History)
		s.AddTool(restoreTool.Definition(), restoreTool.Handle)
	}

	// --- Register prompts ---

	dailyPrompt := prompts.NewDailyUpdatePrompt(p)
	s.AddPrompt(dailyPrompt.Definition(), dailyPrompt.Handle)

	weeklyPrompt := prompts.NewWeeklyReviewPrompt()
	s.AddPrompt(weeklyPrompt.Definition(), weeklyPrompt.Handle)

	// --- Register resources ---

	rh := resources.NewHandler(p)
	s.AddResource(rh.DashboardResource(), rh.HandleDashboard)
	s.AddResource(rh.SettingsResource(), rh.HandleSettings)
	s.AddResource(rh.WeekResource(), rh.HandleWeek)

	return s, backend.Close, nil
}

func noop() {}

func serverInstructions() string {
	return `You have access to Impact Hub, a personal planning hub that links strategic pillars, projects, tasks, a weekly calendar and a daily evidence log.

## Model

- **Pillars** group **projects** (initiatives). A project's progress is the share of its milestones that are completed.
- **Tasks** live in the **hopper** until done. Scheduling a task places a linked event on the weekly grid; the task stays in the hopper.
- The **week** runs Monday to Friday, 08:00 to 18:00, in 15 minute slots. Events are placed by weekday name, not by date.
- The **daily log** lists every calendar event plus tasks completed today. Committing it writes comments, evidence and impact back to each item and adds a "Daily Update" entry to the linked project.

## How to work

1. Start with ` + "`hub_dashboard`" + ` when the user asks how things are going.
2. Use ` + "`hub_hopper`" + ` before ` + "`hub_schedule`" + ` so you have real task IDs. Only propose times on the 15 minute grid.
3. Confirm with the user before scheduling several tasks at once.
4. For end-of-day updates, use the ` + "`daily-update`" + ` prompt flow: ` + "`hub_daily`" + `, ask about each item, then one ` + "`hub_daily_commit`" + `.
5. Never invent evidence links or impact statements. Ask.
6. Every change is saved immediately. If history is enabled, ` + "`hub_history`" + ` and ` + "`hub_restore`" + ` can undo mistakes.
`
}
