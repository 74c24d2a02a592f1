package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/daily"
	"github.com/HendryAvila/impacthub/internal/planner"
)

// DailyCommitTool handles the hub_daily_commit MCP tool.
type DailyCommitTool struct {
	planner *planner.Planner
}

// NewDailyCommitTool creates a DailyCommitTool.
func NewDailyCommitTool(p *planner.Planner) *DailyCommitTool {
	return &DailyCommitTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *DailyCommitTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_daily_commit",
		mcp.WithDescription(
			"Commit today's daily log. Edits are applied to the items from hub_daily, each item's "+
				"comments, evidence link and impact statement are written back to its event or task, "+
				"and items with evidence linked to a project add a 'Daily Update' entry to that project.",
		),
		mcp.WithString("edits",
			mcp.Description(`JSON array of edits by item id, e.g. [{"id":"ev-1","comments":"Ran the workshop","evidenceLink":"https://...","impactStatement":"12 staff trained"}]. Omitted fields are left unchanged. Pass [] to commit as is.`),
		),
	)
}

// Handle processes the hub_daily_commit tool call.
func (t *DailyCommitTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var edits []daily.Edit
	if raw := req.GetString("edits", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &edits); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid edits JSON: %v", err)), nil
		}
	}
	for i, e := range edits {
		if e.ID == "" {
			return mcp.NewToolResultError(fmt.Sprintf("Edit %d has no id", i)), nil
		}
	}

	res, unmatched, err := t.planner.CommitDaily(ctx, edits)
	if err != nil {
		return failure("commit daily log", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Daily Log Committed: %s\n\n", t.planner.Today())
	fmt.Fprintf(&sb, "- **Items written back:** %d\n", res.Written)
	fmt.Fprintf(&sb, "- **Project updates added:** %d\n", res.Evidence)
	if len(res.Missing) > 0 {
		fmt.Fprintf(&sb, "\nNo longer on record (skipped): %s\n", joinIDs(res.Missing))
	}
	if len(res.UnknownProject) > 0 {
		fmt.Fprintf(&sb, "\nEvidence not filed, linked project missing: %s\n", joinIDs(res.UnknownProject))
	}
	if len(unmatched) > 0 {
		fmt.Fprintf(&sb, "\nEdits ignored, not on today's log: %s\n", joinIDs(unmatched))
	}
	return mcp.NewToolResultText(sb.String()), nil
}
