package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
)

// TaskCompleteTool handles the hub_task_complete MCP tool.
type TaskCompleteTool struct {
	planner *planner.Planner
}

// NewTaskCompleteTool creates a TaskCompleteTool.
func NewTaskCompleteTool(p *planner.Planner) *TaskCompleteTool {
	return &TaskCompleteTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskCompleteTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_task_complete",
		mcp.WithDescription(
			"Mark a task done (stamped with today's date, so it appears in today's daily update) "+
				"or reopen it with completed=false.",
		),
		mcp.WithString("task_id", mcp.Required(), mcp.Description("ID of the task")),
		mcp.WithBoolean("completed", mcp.Description("true to complete (default), false to reopen")),
	)
}

// Handle processes the hub_task_complete tool call.
func (t *TaskCompleteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("task_id", "")
	if id == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	task, err := t.planner.CompleteTask(ctx, hub.ID(id), boolArg(req, "completed", true))
	if err != nil {
		return failure("update task", err)
	}

	if task.Completed {
		return mcp.NewToolResultText(fmt.Sprintf("Completed **%s** on %s.", task.Label(), task.CompletedDate)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reopened **%s**.", task.Label())), nil
}
