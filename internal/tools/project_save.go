package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/progress"
)

// ProjectSaveTool handles the hub_project_save MCP tool.
// Without project_id it creates an initiative; with one it updates only
// the fields the caller sent.
type ProjectSaveTool struct {
	planner *planner.Planner
}

// NewProjectSaveTool creates a ProjectSaveTool.
func NewProjectSaveTool(p *planner.Planner) *ProjectSaveTool {
	return &ProjectSaveTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *ProjectSaveTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_project_save",
		mcp.WithDescription(
			"Create or update a project. Omit project_id to create one (type defaults to project, "+
				"status to Active). With project_id, only the fields you pass are changed. "+
				"Progress is derived from milestones, so send the full milestone list when changing it.",
		),
		mcp.WithString("project_id", mcp.Description("ID of an existing project to update")),
		mcp.WithString("title", mcp.Description("Project title (required when creating)")),
		mcp.WithString("pillar_id", mcp.Description("Strategic pillar ID")),
		mcp.WithString("type", mcp.Description("project or activity")),
		mcp.WithString("status", mcp.Description("Active, On Hold or Completed")),
		mcp.WithString("impact_statement", mcp.Description("Outcome this project is expected to deliver")),
		mcp.WithString("dept_code", mcp.Description("Department code")),
		mcp.WithString("staff", mcp.Description("Staff involved")),
		mcp.WithString("tlam", mcp.Description("Owning TLAM")),
		mcp.WithString("start_date", mcp.Description("Start date as YYYY-MM-DD")),
		mcp.WithString("end_date", mcp.Description("End date as YYYY-MM-DD")),
		mcp.WithString("milestones",
			mcp.Description(`JSON array replacing the milestones, e.g. [{"title":"Pilot","dueDate":"2026-11-01","completed":false}]. Keep "uuid" on existing milestones.`),
		),
	)
}

// stringFields maps tool arguments onto initiative fields.
var stringFields = map[string]func(*hub.Initiative) *string{
	"title":            func(p *hub.Initiative) *string { return &p.Title },
	"type":             func(p *hub.Initiative) *string { return &p.Type },
	"status":           func(p *hub.Initiative) *string { return &p.Status },
	"impact_statement": func(p *hub.Initiative) *string { return &p.ImpactStatement },
	"dept_code":        func(p *hub.Initiative) *string { return &p.DeptCode },
	"staff":            func(p *hub.Initiative) *string { return &p.Staff },
	"tlam":             func(p *hub.Initiative) *string { return &p.TLAM },
	"start_date":       func(p *hub.Initiative) *string { return &p.StartDate },
	"end_date":         func(p *hub.Initiative) *string { return &p.EndDate },
}

// Handle processes the hub_project_save tool call.
func (t *ProjectSaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var milestones []hub.Milestone
	raw := req.GetString("milestones", "")
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &milestones); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid milestones JSON: %v", err)), nil
		}
	}
	apply := func(proj *hub.Initiative) error {
		for key, field := range stringFields {
			if hasArg(req, key) {
				*field(proj) = req.GetString(key, "")
			}
		}
		if hasArg(req, "pillar_id") {
			proj.PillarID = hub.ID(req.GetString("pillar_id", ""))
		}
		if raw != "" {
			proj.Milestones = milestones
		}
		return nil
	}

	id := req.GetString("project_id", "")
	creating := id == ""
	var saved hub.Initiative
	var err error
	if creating {
		var proj hub.Initiative
		_ = apply(&proj)
		if strings.TrimSpace(proj.Title) == "" {
			return mcp.NewToolResultError("'title' is required when creating a project"), nil
		}
		saved, err = t.planner.SaveProject(ctx, proj)
	} else {
		saved, err = t.planner.UpdateProject(ctx, hub.ID(id), apply)
	}
	if errors.Is(err, planner.ErrUnknownProject) {
		return mcp.NewToolResultError(fmt.Sprintf("Project %q not found", id)), nil
	}
	if err != nil {
		return failure("save project", err)
	}

	verb := "Updated"
	if creating {
		verb = "Created"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s **%s** (`%s`).\n\n", verb, saved.Title, saved.ID)
	fmt.Fprintf(&sb, "- **Type:** %s\n", saved.Type)
	fmt.Fprintf(&sb, "- **Status:** %s\n", saved.Status)
	fmt.Fprintf(&sb, "- **Pillar:** %s\n", orDash(string(saved.PillarID)))
	fmt.Fprintf(&sb, "- **Progress:** %d%% of %d milestone(s)\n", progress.Progress(saved), len(saved.Milestones))
	return mcp.NewToolResultText(sb.String()), nil
}
