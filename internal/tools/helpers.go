// Package tools implements the MCP tool handlers for the planning hub.
//
// Each tool is a struct holding its dependencies, with a Definition for
// registration and a Handle compatible with mcp-go's CallToolRequest
// signature.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/schedule"
	"github.com/HendryAvila/impacthub/internal/snapshots"
)

// intArg extracts an integer argument from a tool request.
// MCP sends numbers as float64 in JSON.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// hasArg reports whether the caller sent key at all.
func hasArg(req mcp.CallToolRequest, key string) bool {
	_, ok := req.GetArguments()[key]
	return ok
}

// userErrors are failures caused by the request rather than the host.
var userErrors = []error{
	planner.ErrUnknownTask,
	planner.ErrUnknownProject,
	schedule.ErrTaskNotFound,
	schedule.ErrInvalidSlot,
	hub.ErrMalformedDocument,
	snapshots.ErrNoRevision,
}

// failure turns an operation error into a tool result. Request mistakes
// become tool errors the model can correct; anything else is returned as
// a Go error.
func failure(action string, err error) (*mcp.CallToolResult, error) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return mcp.NewToolResultError(fmt.Sprintf("Could not %s: %v", action, err)), nil
		}
	}
	var perr *planner.PersistError
	if errors.As(err, &perr) {
		return nil, fmt.Errorf("%s: change kept in memory but not saved: %w", action, err)
	}
	return nil, fmt.Errorf("%s: %w", action, err)
}

// orDash renders blank table cells as a dash.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

func joinIDs(ids []hub.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "`" + string(id) + "`"
	}
	return strings.Join(parts, ", ")
}
