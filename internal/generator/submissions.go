package generator

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	day = 24 * time.Hour

	// A submission lands 30 to 90 days after the previous one.
	minSubmissionGap = 30 * day
	maxSubmissionGap = 90 * day

	maxSubmissionsPerThesis = 3
	reviewWindow            = 14 * day
)

var (
	submissionStatuses = []string{"submitted", "reviewing", "approved"}
	reviewStatuses     = []string{"Pass", "Fail", "Revision Required"}
)

func submissionType(i, total int) string {
	switch {
	case i == 0:
		return SubmissionMidterm
	case i == total-1:
		return SubmissionFinal
	default:
		return SubmissionRevision
	}
}

// generateSubmissions walks theses in order, giving each one to three
// submissions until the global request is used up. A thesis that reaches
// the cap gets a shorter sequence planned up front, so its last submission
// is still the final one.
func (g *Generator) generateSubmissions(ds *Dataset) error {
	limit := g.opts.Counts.Submissions
	var submissions []Submission

	for _, thesis := range ds.Theses() {
		remaining := limit - len(submissions)
		if remaining <= 0 {
			break
		}
		count := min(g.rnd.IntBetween(1, maxSubmissionsPerThesis+1), remaining)

		last := thesis.CreatedAt
		for i := 0; i < count; i++ {
			submittedAt := g.rnd.DateBetween(last.Add(minSubmissionGap), last.Add(maxSubmissionGap))
			version := i + 1
			submissions = append(submissions, Submission{
				ID:          g.rnd.ObjectID(),
				ThesisID:    thesis.ID,
				Type:        submissionType(i, count),
				Version:     version,
				FileURL:     fmt.Sprintf("/uploads/submissions/%s.pdf", g.rnd.ObjectID().Hex()),
				FileSize:    g.rnd.IntBetween(500_000, 5_500_000),
				FileName:    fmt.Sprintf("%s_v%d.pdf", thesis.StudentID.Hex(), version),
				SubmittedBy: thesis.StudentID,
				SubmittedAt: submittedAt,
				Notes:       g.rnd.Sentence(),
				Status:      pick(g.rnd, submissionStatuses),
			})
			last = submittedAt
		}
	}
	return ds.putSubmissions(submissions)
}

// generateReviews emits one review per submission from the thesis
// supervisor and one from its active co-supervisor, if any. The cap is on
// the running review count, so once it is hit the remaining reviewers,
// including the second reviewer of the current submission, are skipped.
func (g *Generator) generateReviews(ds *Dataset) error {
	limit := g.opts.Counts.Reviews

	theses := make(map[primitive.ObjectID]Thesis)
	for _, t := range ds.Theses() {
		theses[t.ID] = t
	}
	coSupervisors := make(map[primitive.ObjectID]primitive.ObjectID)
	for _, a := range ds.SupervisorAssignments() {
		if a.Role == AssignmentCoSupervisor && a.IsActive {
			if _, seen := coSupervisors[a.ThesisID]; !seen {
				coSupervisors[a.ThesisID] = a.SupervisorID
			}
		}
	}

	var reviews []Review
	for _, sub := range ds.Submissions() {
		if len(reviews) >= limit {
			break
		}
		thesis, ok := theses[sub.ThesisID]
		if !ok {
			continue
		}

		reviewers := []primitive.ObjectID{thesis.SupervisorID}
		if co, ok := coSupervisors[thesis.ID]; ok {
			reviewers = append(reviewers, co)
		}

		for _, reviewer := range reviewers {
			if len(reviews) >= limit {
				break
			}
			reviews = append(reviews, Review{
				ID:               g.rnd.ObjectID(),
				SubmissionID:     sub.ID,
				ReviewerID:       reviewer,
				Score:            g.rnd.Float(7, 10),
				Comment:          g.rnd.Sentences(2),
				DetailedFeedback: g.rnd.Paragraphs(2),
				Status:           pick(g.rnd, reviewStatuses),
				ReviewedAt:       g.rnd.DateBetween(sub.SubmittedAt, sub.SubmittedAt.Add(reviewWindow)),
				CreatedAt:        sub.SubmittedAt,
			})
		}
	}
	return ds.putReviews(reviews)
}
