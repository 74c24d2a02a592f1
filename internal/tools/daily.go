package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/daily"
	"github.com/HendryAvila/impacthub/internal/planner"
)

// DailyTool handles the hub_daily MCP tool.
// It assembles today's log from calendar events and tasks completed today.
type DailyTool struct {
	planner *planner.Planner
}

// NewDailyTool creates a DailyTool.
func NewDailyTool(p *planner.Planner) *DailyTool {
	return &DailyTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *DailyTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_daily",
		mcp.WithDescription(
			"List today's daily log: every calendar event plus the tasks completed today, "+
				"with their comments, evidence link and impact statement. "+
				"Fill in the evidence with hub_daily_commit.",
		),
	)
}

// Handle processes the hub_daily tool call.
func (t *DailyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(FormatDaily(t.planner.Today(), t.planner.DailyItems())), nil
}

// FormatDaily renders the daily log as markdown. Shared with the
// daily-update prompt.
func FormatDaily(today string, items []daily.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Daily Log: %s\n\n", today)
	if len(items) == 0 {
		sb.WriteString("Nothing on the log today.\n")
		return sb.String()
	}

	for _, it := range items {
		fmt.Fprintf(&sb, "## %s `%s`\n\n", it.Title, it.ID)
		fmt.Fprintf(&sb, "- **Type:** %s\n", it.Type)
		if it.Time != "" {
			fmt.Fprintf(&sb, "- **Time:** %s\n", it.Time)
		}
		fmt.Fprintf(&sb, "- **Project:** %s\n", orDash(string(it.LinkedProjectID)))
		fmt.Fprintf(&sb, "- **Comments:** %s\n", orDash(it.Comments))
		fmt.Fprintf(&sb, "- **Evidence:** %s\n", orDash(it.EvidenceLink))
		fmt.Fprintf(&sb, "- **Impact:** %s\n\n", orDash(it.ImpactStatement))
	}
	return sb.String()
}
