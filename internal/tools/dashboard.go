package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/progress"
)

// DashboardTool handles the hub_dashboard MCP tool.
type DashboardTool struct {
	planner *planner.Planner
}

// NewDashboardTool creates a DashboardTool.
func NewDashboardTool(p *planner.Planner) *DashboardTool {
	return &DashboardTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *DashboardTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_dashboard",
		mcp.WithDescription(
			"Show the hub dashboard: active projects, open tasks, events this week, "+
				"overall milestone progress and per-pillar progress.",
		),
	)
}

// Handle processes the hub_dashboard tool call.
func (t *DashboardTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatDashboard(t.planner.Dashboard())), nil
}

// FormatDashboard renders a summary as markdown. Shared with the
// hub://dashboard resource.
func FormatDashboard(s progress.Summary) string {
	var sb strings.Builder
	sb.WriteString("# Impact Hub Dashboard\n\n")
	fmt.Fprintf(&sb, "- **Active projects:** %d\n", s.ActiveProjects)
	fmt.Fprintf(&sb, "- **Open tasks:** %d\n", s.OpenTasks)
	fmt.Fprintf(&sb, "- **Week events:** %d\n", s.WeekEvents)
	fmt.Fprintf(&sb, "- **Overall progress:** %.1f%%\n\n", s.OverallProgress)

	sb.WriteString("## Strategic Pillars\n\n")
	sb.WriteString("| Pillar | Projects | Progress |\n")
	sb.WriteString("|--------|----------|----------|\n")
	for _, p := range s.Pillars {
		fmt.Fprintf(&sb, "| %s | %d | %d%% |\n", p.Pillar.Title, p.Projects, p.Progress)
	}
	if s.Unassigned > 0 {
		fmt.Fprintf(&sb, "\n%d project(s) are not assigned to a known pillar.\n", s.Unassigned)
	}
	return sb.String()
}
