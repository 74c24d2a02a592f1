// Package progress derives rollups and filtered views from hub state.
//
// Every function is pure and recomputes from the collections it is given.
// There are no stored counters to drift out of sync with the source records.
package progress

import (
	"math"
	"sort"
	"strings"

	"github.com/HendryAvila/impacthub/internal/hub"
)

// undatedSentinel sorts after any real ISO date.
const undatedSentinel = "9999"

// Progress is the rounded percentage of completed milestones, 0 when the
// initiative has none.
func Progress(p hub.Initiative) int {
	if len(p.Milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range p.Milestones {
		if m.Completed {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(p.Milestones)) * 100))
}

// ProjectsForPillar returns the initiatives assigned to a pillar.
func ProjectsForPillar(projects []hub.Initiative, pillarID hub.ID) []hub.Initiative {
	var out []hub.Initiative
	for _, p := range projects {
		if p.PillarID == pillarID {
			out = append(out, p)
		}
	}
	return out
}

// PillarProgress is the rounded mean progress of a pillar's initiatives.
func PillarProgress(projects []hub.Initiative, pillarID hub.ID) int {
	return int(math.Round(meanProgress(ProjectsForPillar(projects, pillarID))))
}

// OverallProgress is the unrounded mean progress of all initiatives.
func OverallProgress(projects []hub.Initiative) float64 {
	return meanProgress(projects)
}

// FilteredProgress is the unrounded mean progress of a report selection.
func FilteredProgress(filtered []hub.Initiative) float64 {
	return meanProgress(filtered)
}

func meanProgress(projects []hub.Initiative) float64 {
	if len(projects) == 0 {
		return 0
	}
	total := 0
	for _, p := range projects {
		total += Progress(p)
	}
	return float64(total) / float64(len(projects))
}

// UniqueTLAMs lists distinct non-empty tlam values in first-seen order.
func UniqueTLAMs(projects []hub.Initiative) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range projects {
		if p.TLAM == "" || seen[p.TLAM] {
			continue
		}
		seen[p.TLAM] = true
		out = append(out, p.TLAM)
	}
	return out
}

// ReportFilter selects initiatives for a report. Empty fields match all.
// Dates compare lexicographically, so they must be ISO formatted.
type ReportFilter struct {
	Pillar    hub.ID `json:"pillar"`
	Project   hub.ID `json:"project"`
	TLAM      string `json:"tlam"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Matches reports whether p passes every non-empty predicate.
func (f ReportFilter) Matches(p hub.Initiative) bool {
	if f.Pillar != "" && p.PillarID != f.Pillar {
		return false
	}
	if f.Project != "" && p.ID != f.Project {
		return false
	}
	if f.TLAM != "" && p.TLAM != f.TLAM {
		return false
	}
	if f.StartDate != "" && p.StartDate < f.StartDate {
		return false
	}
	if f.EndDate != "" && p.EndDate > f.EndDate {
		return false
	}
	return true
}

// FilterReport returns the initiatives matching f, in document order.
func FilterReport(projects []hub.Initiative, f ReportFilter) []hub.Initiative {
	out := []hub.Initiative{}
	for _, p := range projects {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// TotalImpactStatements counts non-empty impact statements plus updates
// carrying an impact across the given initiatives.
func TotalImpactStatements(filtered []hub.Initiative) int {
	count := 0
	for _, p := range filtered {
		if p.ImpactStatement != "" {
			count++
		}
		for _, u := range p.Updates {
			if u.Impact != "" {
				count++
			}
		}
	}
	return count
}

// HopperTasks returns open tasks matching a case-insensitive title search
// and an exact type filter, ordered by due date with undated tasks last.
// Ties keep document order.
func HopperTasks(todos []hub.Task, search, typeFilter string) []hub.Task {
	needle := strings.ToLower(search)
	out := []hub.Task{}
	for _, t := range todos {
		if t.Completed {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Label()), needle) {
			continue
		}
		if typeFilter != "" && t.Type != typeFilter {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return dueKey(out[i]) < dueKey(out[j])
	})
	return out
}

func dueKey(t hub.Task) string {
	if t.DueDate == "" {
		return undatedSentinel
	}
	return t.DueDate
}
