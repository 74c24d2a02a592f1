package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
)

// OpenTool handles the hub_open MCP tool.
// It reloads the document from storage, discarding unsaved changes.
type OpenTool struct {
	planner *planner.Planner
}

// NewOpenTool creates an OpenTool.
func NewOpenTool(p *planner.Planner) *OpenTool {
	return &OpenTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *OpenTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_open",
		mcp.WithDescription(
			"Reload the planning hub document from storage. "+
				"Legacy fields are migrated on load. A missing document starts a fresh hub "+
				"with the default strategic pillars.",
		),
	)
}

// Handle processes the hub_open tool call.
func (t *OpenTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	created, err := t.planner.Open(ctx)
	if err != nil {
		return failure("open hub", err)
	}

	doc := t.planner.Document()
	status := "Loaded existing document"
	if created {
		status = "No document found, started a fresh hub"
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"# Hub Opened\n\n%s.\n\n"+
			"- **Projects:** %d\n"+
			"- **Tasks:** %d\n"+
			"- **Meeting notes:** %d\n"+
			"- **Calendar events:** %d\n"+
			"- **Pillars:** %d\n",
		status, len(doc.Projects), len(doc.Todos), len(doc.MeetingNotes),
		len(doc.CalendarEvents), len(doc.Settings.Pillars),
	)), nil
}
