package generator

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	thesisFrom = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	thesisTo   = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
)

const (
	coSupervisorChance = 0.3
	coSupervisorDelay  = 7 * 24 * time.Hour
)

var (
	academicYears = []string{"2023-2024", "2024-2025"}
	semesters     = []int{1, 2}

	thesisTopics = []string{
		"Xây dựng hệ thống quản lý",
		"Phát triển ứng dụng di động",
		"Nghiên cứu thuật toán",
		"Tối ưu hóa hiệu năng",
		"Phân tích dữ liệu",
		"Ứng dụng AI/ML trong",
		"Hệ thống IoT cho",
		"Blockchain trong",
		"Bảo mật thông tin cho",
		"Cloud computing cho",
	}
	thesisDomains = []string{
		"giáo dục", "y tế", "thương mại điện tử", "logistics",
		"tài chính", "nông nghiệp", "du lịch", "bất động sản",
		"giao thông", "năng lượng",
	}
)

// generateTheses pairs active students, in generation order, with a random
// teacher and status. Each thesis consumes one student, so the output
// saturates at the number of active students.
func (g *Generator) generateTheses(ds *Dataset) error {
	users := ds.Users()
	teachers := teachersOf(users)
	statuses := ds.ThesisStatuses()

	var students []User
	for _, u := range users {
		if u.IsStudent() && u.Status == UserActive {
			students = append(students, u)
		}
	}

	limit := min(g.opts.Counts.Theses, len(students))
	if len(teachers) == 0 || len(statuses) == 0 {
		if limit > 0 {
			g.log.Warn("no teachers available, skipping theses", zap.Int("requested", g.opts.Counts.Theses))
		}
		limit = 0
	}

	now := g.rnd.Now()
	theses := make([]Thesis, 0, limit)
	for i := 0; i < limit; i++ {
		student := students[i]
		supervisor := pick(g.rnd, teachers)
		status := pick(g.rnd, statuses)

		theses = append(theses, Thesis{
			ID:           g.rnd.ObjectID(),
			Title:        pick(g.rnd, thesisTopics) + " " + pick(g.rnd, thesisDomains),
			Major:        student.Major,
			Description:  g.rnd.Paragraphs(2),
			FileURL:      fmt.Sprintf("/uploads/theses/%s.pdf", g.rnd.ObjectID().Hex()),
			StatusID:     status.ID,
			SupervisorID: supervisor.ID,
			StudentID:    student.ID,
			AcademicYear: pick(g.rnd, academicYears),
			Semester:     pick(g.rnd, semesters),
			CreatedAt:    g.rnd.DateBetween(thesisFrom, thesisTo),
			UpdatedAt:    now,
		})
	}
	return ds.putTheses(theses)
}

// generateSupervisorAssignments records the primary supervisor of every
// thesis and, sometimes, a co-supervisor distinct from the primary.
func (g *Generator) generateSupervisorAssignments(ds *Dataset) error {
	users := ds.Users()
	teachers := teachersOf(users)
	admin := adminOf(users)

	var assignments []SupervisorAssignment
	for _, thesis := range ds.Theses() {
		assignments = append(assignments, SupervisorAssignment{
			ID:           g.rnd.ObjectID(),
			ThesisID:     thesis.ID,
			SupervisorID: thesis.SupervisorID,
			Role:         AssignmentPrimary,
			AssignedAt:   thesis.CreatedAt,
			AssignedBy:   admin,
			IsActive:     true,
		})

		if !g.rnd.Chance(coSupervisorChance) {
			continue
		}
		var candidates []User
		for _, t := range teachers {
			if t.ID != thesis.SupervisorID {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		co := pick(g.rnd, candidates)
		assignments = append(assignments, SupervisorAssignment{
			ID:           g.rnd.ObjectID(),
			ThesisID:     thesis.ID,
			SupervisorID: co.ID,
			Role:         AssignmentCoSupervisor,
			AssignedAt:   thesis.CreatedAt.Add(coSupervisorDelay),
			AssignedBy:   admin,
			IsActive:     true,
		})
	}
	return ds.putSupervisorAssignments(assignments)
}
