package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
)

// HopperTool handles the hub_hopper MCP tool.
// It lists open tasks waiting to be placed on the weekly grid.
type HopperTool struct {
	planner *planner.Planner
}

// NewHopperTool creates a HopperTool.
func NewHopperTool(p *planner.Planner) *HopperTool {
	return &HopperTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *HopperTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_hopper",
		mcp.WithDescription(
			"List open tasks in the hopper, ordered by due date with undated tasks last. "+
				"Use the task IDs with hub_schedule or hub_task_complete.",
		),
		mcp.WithString("search", mcp.Description("Case-insensitive text to match in task titles")),
		mcp.WithString("type", mcp.Description("Only tasks of this type, e.g. activity, meeting, project")),
	)
}

// Handle processes the hub_hopper tool call.
func (t *HopperTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tasks := t.planner.Hopper(req.GetString("search", ""), req.GetString("type", ""))
	if len(tasks) == 0 {
		return mcp.NewToolResultText("No open tasks match."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Hopper (%d open)\n\n", len(tasks))
	sb.WriteString("| ID | Task | Type | Duration | Due | Scheduled |\n")
	sb.WriteString("|----|------|------|----------|-----|-----------|\n")
	for _, task := range tasks {
		scheduled := ""
		if task.Scheduled {
			scheduled = "yes"
		}
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %dm | %s | %s |\n",
			task.ID, task.Label(), task.Type, task.Duration, orDash(task.DueDate), orDash(scheduled))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
