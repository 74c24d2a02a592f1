// Package prompts implements MCP prompt handlers for the planning hub.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/impacthub/internal/planner"
	"github.com/HendryAvila/impacthub/internal/tools"
)

// DailyUpdatePrompt handles the daily-update MCP prompt.
// It hands the AI today's log and asks it to collect evidence item by item.
type DailyUpdatePrompt struct {
	planner *planner.Planner
}

// NewDailyUpdatePrompt creates a DailyUpdatePrompt.
func NewDailyUpdatePrompt(p *planner.Planner) *DailyUpdatePrompt {
	return &DailyUpdatePrompt{planner: p}
}

// Definition returns the MCP prompt definition for registration.
func (p *DailyUpdatePrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("daily-update",
		mcp.WithPromptDescription(
			"Walk through today's events and completed tasks, capture comments, "+
				"evidence links and impact, then commit them to the linked projects.",
		),
	)
}

// Handle processes the daily-update prompt request.
func (p *DailyUpdatePrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	items := p.planner.DailyItems()
	log := tools.FormatDaily(p.planner.Today(), items)

	instructions := "Help me write today's daily update.\n\n" +
		"Here is my daily log:\n\n" + log + "\n" +
		"For each item, in order:\n" +
		"1. Ask me what happened (comments), whether there is an evidence link, and what the impact was\n" +
		"2. Keep my wording; do not invent evidence or impact\n" +
		"3. Skip items I say to skip\n\n" +
		"When we are done, call `hub_daily_commit` once with every edit as a JSON array, " +
		"then show me which projects received an update."
	if len(items) == 0 {
		instructions = "My daily log is empty today. Call `hub_hopper` and ask me whether " +
			"any of those tasks were finished today, mark them with `hub_task_complete`, " +
			"then start the daily update again."
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Daily update for %s", p.planner.Today()),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(instructions),
			},
		},
	}, nil
}
