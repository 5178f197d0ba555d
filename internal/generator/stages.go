package generator

import (
	"errors"
	"fmt"
)

var ErrStageOrder = errors.New("invalid stage order")

// Stage is one step of the generation pipeline. Reads names the collections
// the stage consumes, Writes the ones it produces and Backfills the earlier
// collections it is allowed to fill in once.
type Stage struct {
	Name      string
	Reads     []string
	Writes    []string
	Backfills []string
	Run       func(g *Generator, ds *Dataset) error
}

// Pipeline returns the fixed factory order.
func Pipeline() []Stage {
	return []Stage{
		{
			Name:   "roles",
			Writes: []string{CollRoles},
			Run:    (*Generator).generateRoles,
		},
		{
			Name:   "departments",
			Writes: []string{CollDepartments},
			Run:    (*Generator).generateDepartments,
		},
		{
			Name:   "thesis_statuses",
			Writes: []string{CollThesisStatuses},
			Run:    (*Generator).generateThesisStatuses,
		},
		{
			Name:      "users",
			Reads:     []string{CollRoles},
			Writes:    []string{CollUsers},
			Backfills: []string{CollDepartments},
			Run:       (*Generator).generateUsers,
		},
		{
			Name:   "theses",
			Reads:  []string{CollUsers, CollThesisStatuses},
			Writes: []string{CollTheses},
			Run:    (*Generator).generateTheses,
		},
		{
			Name:   "supervisor_assignments",
			Reads:  []string{CollTheses, CollUsers},
			Writes: []string{CollSupervisorAssignments},
			Run:    (*Generator).generateSupervisorAssignments,
		},
		{
			Name:   "submissions",
			Reads:  []string{CollTheses},
			Writes: []string{CollSubmissions},
			Run:    (*Generator).generateSubmissions,
		},
		{
			Name:   "reviews",
			Reads:  []string{CollSubmissions, CollTheses, CollSupervisorAssignments},
			Writes: []string{CollReviews},
			Run:    (*Generator).generateReviews,
		},
		{
			Name:   "defense_schedules",
			Reads:  []string{CollTheses, CollThesisStatuses},
			Writes: []string{CollDefenseSchedules},
			Run:    (*Generator).generateDefenseSchedules,
		},
		{
			Name:   "defense_scores",
			Reads:  []string{CollDefenseSchedules, CollTheses, CollUsers},
			Writes: []string{CollDefenseScores},
			Run:    (*Generator).generateDefenseScores,
		},
		{
			Name:   "event_logs",
			Reads:  []string{CollUsers, CollTheses, CollSubmissions, CollReviews, CollDefenseSchedules},
			Writes: []string{CollEventLogs},
			Run:    (*Generator).generateEventLogs,
		},
		{
			Name:   "archive",
			Reads:  []string{CollTheses, CollThesisStatuses, CollUsers, CollSubmissions, CollReviews},
			Writes: []string{CollArchivedTheses, CollArchivedSubmissions, CollArchivedReviews},
			Run:    (*Generator).generateArchive,
		},
	}
}

// checkOrder verifies that every collection a stage reads or backfills is
// written by an earlier stage and that no collection has two producers.
func checkOrder(stages []Stage) error {
	producedAt := make(map[string]int)
	for i, s := range stages {
		for _, name := range s.Writes {
			if prev, exists := producedAt[name]; exists {
				return fmt.Errorf("%w: %s is written by both %s and %s",
					ErrStageOrder, name, stages[prev].Name, s.Name)
			}
			producedAt[name] = i
		}
	}

	for i, s := range stages {
		deps := append(append([]string{}, s.Reads...), s.Backfills...)
		for _, name := range deps {
			idx, exists := producedAt[name]
			if !exists {
				return fmt.Errorf("%w: stage %s depends on %s which no stage produces",
					ErrStageOrder, s.Name, name)
			}
			if idx >= i {
				return fmt.Errorf("%w: stage %s depends on %s but %s runs later",
					ErrStageOrder, s.Name, name, stages[idx].Name)
			}
		}
	}
	return nil
}
