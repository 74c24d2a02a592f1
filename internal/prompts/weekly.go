package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// WeeklyReviewPrompt handles the weekly-review MCP prompt.
type WeeklyReviewPrompt struct{}

// NewWeeklyReviewPrompt creates a WeeklyReviewPrompt.
func NewWeeklyReviewPrompt() *WeeklyReviewPrompt {
	return &WeeklyReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *WeeklyReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("weekly-review",
		mcp.WithPromptDescription(
			"Review progress against the strategic pillars and plan next week's calendar "+
				"from the task hopper.",
		),
		mcp.WithArgument("pillar_id",
			mcp.ArgumentDescription("Limit the review to one strategic pillar"),
		),
	)
}

// Handle processes the weekly-review prompt request.
func (p *WeeklyReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	report := "Call `hub_report` with no filters"
	if pillar := req.Params.Arguments["pillar_id"]; pillar != "" {
		report = fmt.Sprintf("Call `hub_report` with pillar_id %q", pillar)
	}

	return &mcp.GetPromptResult{
		Description: "Weekly review and planning",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Let's do my weekly review.\n\n" +
						"1. Call `hub_dashboard` and summarise progress per pillar\n" +
						"2. " + report + " and point out projects with no recent updates or no milestones\n" +
						"3. Call `hub_week` with offset 1 to see next week\n" +
						"4. Call `hub_hopper` and propose slots for the most urgent tasks, grouped by day\n" +
						"5. Only after I confirm, place them with `hub_schedule`\n\n" +
						"Keep it short. Use tables where they help.",
				),
			},
		},
	}, nil
}
