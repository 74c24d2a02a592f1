// Package resources implements MCP resource handlers for the planning hub.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (hub://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
)

// Handler serves hub resources from the live planner state.
type Handler struct {
	planner *planner.Planner
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(p *planner.Planner) *Handler {
	return &Handler{planner: p}
}

// DashboardResource returns the MCP resource definition for the dashboard.
func (h *Handler) DashboardResource() mcp.Resource {
	return mcp.NewResource(
		"hub://dashboard",
		"Impact Hub Dashboard",
		mcp.WithResourceDescription("Active projects, open tasks, week events and per-pillar progress"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleDashboard returns the dashboard summary as JSON.
func (h *Handler) HandleDashboard(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.planner.Dashboard())
}

// SettingsResource returns the MCP resource definition for hub settings.
func (h *Handler) SettingsResource() mcp.Resource {
	return mcp.NewResource(
		"hub://settings",
		"Impact Hub Settings",
		mcp.WithResourceDescription("Strategic pillars, KPIs, QA sources and meeting categories"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleSettings returns the settings block as JSON.
func (h *Handler) HandleSettings(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.planner.Settings())
}

// WeekResource returns the MCP resource definition for the anchored week.
func (h *Handler) WeekResource() mcp.Resource {
	return mcp.NewResource(
		"hub://week",
		"Impact Hub Week",
		mcp.WithResourceDescription("The displayed planner week: days, time slots and calendar events"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleWeek returns the anchored week as JSON.
func (h *Handler) HandleWeek(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(req.Params.URI, h.planner.Week())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResource(uri, err.Error()), nil
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
