package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// ScheduleTool handles the hub_schedule MCP tool.
// It places a copy of a hopper task on the weekly grid.
type ScheduleTool struct {
	planner *planner.Planner
}

// NewScheduleTool creates a ScheduleTool.
func NewScheduleTool(p *planner.Planner) *ScheduleTool {
	return &ScheduleTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *ScheduleTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_schedule",
		mcp.WithDescription(
			"Schedule a task on the weekly planner. Creates a calendar event linked to the task "+
				"and its project; the task stays in the hopper marked as scheduled. "+
				"The end time is start plus the task duration (default 60 minutes).",
		),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task to schedule")),
		mcp.WithString("day", mcp.Required(),
			mcp.Description("Weekday column"),
			mcp.Enum(schedule.Weekdays...),
		),
		mcp.WithString("time", mcp.Required(),
			mcp.Description("Start slot as HH:MM on a 15 minute boundary between 08:00 and 18:00"),
		),
	)
}

// Handle processes the hub_schedule tool call.
func (t *ScheduleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	day := req.GetString("day", "")
	at := req.GetString("time", "")
	if taskID == "" || day == "" || at == "" {
		return mcp.NewToolResultError("'task_id', 'day' and 'time' are required"), nil
	}

	ev, err := t.planner.ScheduleTask(ctx, hub.ID(taskID), day, at)
	if err != nil {
		return failure("schedule task", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Scheduled **%s** on %s %s-%s (%d min).\n\nEvent ID: `%s`",
		ev.Title, ev.Day, ev.StartTime, ev.EndTime, ev.Duration, ev.ID,
	)), nil
}
