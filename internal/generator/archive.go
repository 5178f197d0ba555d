package generator

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const graduationYear = 2024

// generateArchive snapshots the first completed theses. Each archived thesis
// freezes the student and supervisor contact data as they are now, then
// every submission of the thesis gets exactly one archived submission and
// every review of those submissions exactly one archived review. The source
// records are left untouched.
func (g *Generator) generateArchive(ds *Dataset) error {
	names := statusNames(ds.ThesisStatuses())
	people := usersByID(ds.Users())
	admin := adminOf(ds.Users())
	now := g.rnd.Now()

	subsByThesis := make(map[primitive.ObjectID][]Submission)
	for _, s := range ds.Submissions() {
		subsByThesis[s.ThesisID] = append(subsByThesis[s.ThesisID], s)
	}
	reviewsBySub := make(map[primitive.ObjectID][]Review)
	for _, r := range ds.Reviews() {
		reviewsBySub[r.SubmissionID] = append(reviewsBySub[r.SubmissionID], r)
	}

	var (
		theses      []ArchivedThesis
		submissions []ArchivedSubmission
		reviews     []ArchivedReview
	)
	for _, thesis := range ds.Theses() {
		if len(theses) >= g.opts.Counts.Archived {
			break
		}
		if names[thesis.StatusID] != StatusCompleted {
			continue
		}

		student := people[thesis.StudentID]
		supervisor := people[thesis.SupervisorID]
		archived := ArchivedThesis{
			ID:               g.rnd.ObjectID(),
			OriginalThesisID: thesis.ID,
			Title:            thesis.Title,
			Major:            thesis.Major,
			Description:      thesis.Description,
			FinalFileURL:     thesis.FileURL,
			FinalScore:       g.rnd.Float(8, 10),
			GraduationYear:   graduationYear,
			SupervisorInfo:   PersonInfo{ID: supervisor.ID, Name: supervisor.FullName, Email: supervisor.Email},
			StudentInfo:      PersonInfo{ID: student.ID, Code: student.Code, Name: student.FullName, Email: student.Email},
			ArchivedAt:       now,
			ArchivedBy:       admin,
		}
		theses = append(theses, archived)

		for _, sub := range subsByThesis[thesis.ID] {
			archivedSub := ArchivedSubmission{
				ID:                   g.rnd.ObjectID(),
				ArchivedThesisID:     archived.ID,
				OriginalSubmissionID: sub.ID,
				Type:                 sub.Type,
				FileURL:              sub.FileURL,
				SubmittedAt:          sub.SubmittedAt,
				ArchivedAt:           now,
			}
			submissions = append(submissions, archivedSub)

			for _, review := range reviewsBySub[sub.ID] {
				reviewer := people[review.ReviewerID]
				reviews = append(reviews, ArchivedReview{
					ID:                   g.rnd.ObjectID(),
					ArchivedSubmissionID: archivedSub.ID,
					OriginalReviewID:     review.ID,
					ReviewerInfo:         PersonInfo{ID: reviewer.ID, Name: reviewer.FullName, Email: reviewer.Email},
					Score:                review.Score,
					Comment:              review.Comment,
					Status:               review.Status,
					ReviewedAt:           review.ReviewedAt,
					ArchivedAt:           now,
				})
			}
		}
	}
	return ds.putArchive(theses, submissions, reviews)
}
