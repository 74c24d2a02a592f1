package progress

import "github.com/HendryAvila/impacthub/internal/hub"

// PillarSummary is one row of the strategy view.
type PillarSummary struct {
	Pillar   hub.Pillar `json:"pillar"`
	Projects int        `json:"projects"`
	Progress int        `json:"progress"`
}

// Summary holds the dashboard counters.
type Summary struct {
	ActiveProjects  int             `json:"activeProjects"`
	OpenTasks       int             `json:"openTasks"`
	WeekEvents      int             `json:"weekEvents"`
	OverallProgress float64         `json:"overallProgress"`
	Pillars         []PillarSummary `json:"pillars"`
	Unassigned      int             `json:"unassigned"`
}

// Summarize computes the dashboard from the current state.
func Summarize(st *hub.State) Summary {
	s := Summary{
		WeekEvents:      len(st.CalendarEvents),
		OverallProgress: OverallProgress(st.Projects),
		Pillars:         []PillarSummary{},
	}
	for _, p := range st.Projects {
		if p.Status != hub.StatusCompleted {
			s.ActiveProjects++
		}
		if st.Pillar(p.PillarID) == nil {
			s.Unassigned++
		}
	}
	for _, t := range st.Todos {
		if !t.Completed {
			s.OpenTasks++
		}
	}
	for _, pillar := range st.Settings.Pillars {
		s.Pillars = append(s.Pillars, PillarSummary{
			Pillar:   pillar,
			Projects: len(ProjectsForPillar(st.Projects, pillar.ID)),
			Progress: PillarProgress(st.Projects, pillar.ID),
		})
	}
	return s
}

// LinkedProject resolves a weak reference. A dangling or empty id reports
// false rather than failing.
func LinkedProject(st *hub.State, id hub.ID) (hub.Initiative, bool) {
	p := st.Project(id)
	if p == nil {
		return hub.Initiative{}, false
	}
	return *p, true
}
