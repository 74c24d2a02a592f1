package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/schedule"
)

// WeekTool handles the hub_week MCP tool.
type WeekTool struct {
	planner *planner.Planner
}

// NewWeekTool creates a WeekTool.
func NewWeekTool(p *planner.Planner) *WeekTool {
	return &WeekTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *WeekTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_week",
		mcp.WithDescription(
			"Show the weekly planner: Monday to Friday, 08:00 to 18:00 in 15 minute slots. "+
				"Pass offset to move the displayed week (1 = next week, -1 = previous week). "+
				"The week stays moved for later calls.",
		),
		mcp.WithNumber("offset", mcp.Description("Weeks to move before showing (default 0)")),
	)
}

// Handle processes the hub_week tool call.
func (t *WeekTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var w planner.Week
	if offset := intArg(req, "offset", 0); offset != 0 {
		w = t.planner.AdvanceWeek(offset)
	} else {
		w = t.planner.Week()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Week of %s\n\n", w.Label)
	for _, day := range w.Days {
		fmt.Fprintf(&sb, "## %s\n\n", day)
		events := schedule.EventsForDay(w.Events, day)
		if len(events) == 0 {
			sb.WriteString("_free_\n\n")
			continue
		}
		for _, e := range events {
			fmt.Fprintf(&sb, "- %s-%s **%s** (%s, `%s`)\n", e.StartTime, e.EndTime, e.Title, orDash(e.Type), e.ID)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Slots run %s to %s.\n", w.Slots[0], w.Slots[len(w.Slots)-1])
	return mcp.NewToolResultText(sb.String()), nil
}
