package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
)

// MeetingNewTool handles the hub_meeting_new MCP tool.
type MeetingNewTool struct {
	planner *planner.Planner
}

// NewMeetingNewTool creates a MeetingNewTool.
func NewMeetingNewTool(p *planner.Planner) *MeetingNewTool {
	return &MeetingNewTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *MeetingNewTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_meeting_new",
		mcp.WithDescription(
			"Start a new meeting note dated today, filed under the first meeting category. "+
				"New notes appear at the top of the list.",
		),
		mcp.WithString("title", mcp.Description("Meeting title")),
	)
}

// Handle processes the hub_meeting_new tool call.
func (t *MeetingNewTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note, err := t.planner.CreateMeeting(ctx, req.GetString("title", ""))
	if err != nil {
		return failure("create meeting note", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Created meeting note `%s` for %s in category %s.",
		note.ID, note.Date, orDash(note.Category),
	)), nil
}
