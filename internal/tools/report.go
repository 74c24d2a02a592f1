package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/hub"
	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/progress"
)

// ReportTool handles the hub_report MCP tool.
// It filters initiatives and reports their progress and impact evidence.
type ReportTool struct {
	planner *planner.Planner
}

// NewReportTool creates a ReportTool.
func NewReportTool(p *planner.Planner) *ReportTool {
	return &ReportTool{planner: p}
}

// Definition returns the MCP tool definition for registration.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("hub_report",
		mcp.WithDescription(
			"Build an impact report over projects. All filters are optional and combine with AND. "+
				"Dates are ISO (YYYY-MM-DD): start_date keeps projects starting on or after it, "+
				"end_date keeps projects ending on or before it.",
		),
		mcp.WithString("pillar_id", mcp.Description("Only projects in this pillar")),
		mcp.WithString("project_id", mcp.Description("Only this project")),
		mcp.WithString("tlam", mcp.Description("Only projects owned by this TLAM")),
		mcp.WithString("start_date", mcp.Description("Earliest project start date")),
		mcp.WithString("end_date", mcp.Description("Latest project end date")),
	)
}

// Handle processes the hub_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := progress.ReportFilter{
		Pillar:    hub.ID(req.GetString("pillar_id", "")),
		Project:   hub.ID(req.GetString("project_id", "")),
		TLAM:      req.GetString("tlam", ""),
		StartDate: req.GetString("start_date", ""),
		EndDate:   req.GetString("end_date", ""),
	}
	r := t.planner.Report(filter)

	var sb strings.Builder
	sb.WriteString("# Impact Report\n\n")
	fmt.Fprintf(&sb, "- **Projects:** %d\n", len(r.Projects))
	fmt.Fprintf(&sb, "- **Average progress:** %.1f%%\n", r.Progress)
	fmt.Fprintf(&sb, "- **Impact statements:** %d\n", r.ImpactStatements)
	if len(r.TLAMs) > 0 {
		fmt.Fprintf(&sb, "- **TLAMs on record:** %s\n", strings.Join(r.TLAMs, ", "))
	}

	if len(r.Projects) == 0 {
		sb.WriteString("\nNo projects match these filters.\n")
		return mcp.NewToolResultText(sb.String()), nil
	}

	sb.WriteString("\n| Project | Status | TLAM | Dates | Progress | Updates |\n")
	sb.WriteString("|---------|--------|------|-------|----------|---------|\n")
	for _, p := range r.Projects {
		fmt.Fprintf(&sb, "| %s (`%s`) | %s | %s | %s → %s | %d%% | %d |\n",
			p.Title, p.ID, orDash(p.Status), orDash(p.TLAM),
			orDash(p.StartDate), orDash(p.EndDate), progress.Progress(p), len(p.Updates))
	}

	for _, p := range r.Projects {
		if p.ImpactStatement == "" && len(p.Updates) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", p.Title)
		if p.ImpactStatement != "" {
			fmt.Fprintf(&sb, "> %s\n\n", p.ImpactStatement)
		}
		for _, u := range p.Updates {
			fmt.Fprintf(&sb, "- %s: %s", u.Date, u.Text)
			if u.Impact != "" {
				fmt.Fprintf(&sb, " (impact: %s)", u.Impact)
			}
			if u.Link != "" {
				fmt.Fprintf(&sb, " [evidence](%s)", u.Link)
			}
			sb.WriteString("\n")
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}
