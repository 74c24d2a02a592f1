package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/snapshots"
)

// HistoryTool handles the hub_history MCP tool.
// Only registered when revision history is enabled.
type HistoryTool struct {
	store *snapshots.Store
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(store *snapshots.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_history",
		mcp.WithDescription("List saved revisions of the hub document, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum revisions to list (default 10)")),
	)
}

// Handle processes the hub_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	revs, err := t.store.List(ctx, intArg(req, "limit", 10))
	if err != nil {
		return nil, fmt.Errorf("listing revisions: %w", err)
	}
	if len(revs) == 0 {
		return mcp.NewToolResultText("No revisions saved yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Revisions (%d)\n\n", len(revs))
	sb.WriteString("| ID | Saved | Size | Hash |\n")
	sb.WriteString("|----|-------|------|------|\n")
	for _, r := range revs {
		fmt.Fprintf(&sb, "| %d | %s | %d B | `%s` |\n", r.ID, r.SavedAt, r.Size, r.Hash[:12])
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// RestoreTool handles the hub_restore MCP tool.
type RestoreTool struct {
	planner *planner.Planner
	store   *snapshots.Store
}

// NewRestoreTool creates a RestoreTool.
func NewRestoreTool(p *planner.Planner, store *snapshots.Store) *RestoreTool {
	return &RestoreTool{planner: p, store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *RestoreTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_restore",
		mcp.WithDescription(
			"Restore the hub to a saved revision from hub_history. The restored document is "+
				"saved as the newest revision, so a restore can itself be undone.",
		),
		mcp.WithNumber("revision", mcp.Required(), mcp.Description("Revision ID")),
	)
}

// Handle processes the hub_restore tool call.
func (t *RestoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := intArg(req, "revision", 0)
	if id <= 0 {
		return mcp.NewToolResultError("'revision' must be a positive revision ID"), nil
	}

	body, err := t.store.Get(ctx, int64(id))
	if err != nil {
		return failure("restore revision", err)
	}
	if err := t.planner.Restore(ctx, body); err != nil {
		return failure("restore revision", err)
	}

	doc := t.planner.Document()
	return mcp.NewToolResultText(fmt.Sprintf(
		"Restored revision %d: %d project(s), %d task(s), %d event(s).",
		id, len(doc.Projects), len(doc.Todos), len(doc.CalendarEvents),
	)), nil
}
