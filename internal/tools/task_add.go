package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
)

// TaskAddTool handles the hub_task_add MCP tool.
type TaskAddTool struct {
	planner *planner.Planner
}

// NewTaskAddTool creates a TaskAddTool.
func NewTaskAddTool(p *planner.Planner) *TaskAddTool {
	return &TaskAddTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *TaskAddTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_task_add",
		mcp.WithDescription("Add a task to the hopper."),
		mcp.WithString("title", mcp.Required(), mcp.Description("What needs doing")),
		mcp.WithString("type", mcp.Description("Task type (default: activity)")),
		mcp.WithNumber("duration", mcp.Description("Planned minutes (default: 60)")),
		mcp.WithString("due_date", mcp.Description("Due date as YYYY-MM-DD")),
		mcp.WithString("project_id", mcp.Description("Project this task contributes to")),
	)
}

// Handle processes the hub_task_add tool call.
func (t *TaskAddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	duration := intArg(req, "duration", 0)
	if duration < 0 {
		return mcp.NewToolResultError("'duration' must be positive"), nil
	}

	task, err := t.planner.AddTask(ctx, planner.NewTask{
		Title:     title,
		Type:      req.GetString("type", ""),
		Duration:  duration,
		DueDate:   req.GetString("due_date", ""),
		ProjectID: hub.ID(req.GetString("project_id", "")),
	})
	if err != nil {
		return failure("add task", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Added **%s** (%s, %d min).\n\nTask ID: `%s`", task.Title, task.Type, task.Duration, task.ID,
	)), nil
}
