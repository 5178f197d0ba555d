package generator

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	defenseFrom = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	defenseTo   = time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	defenseRooms     = []string{"A101", "A102", "B201", "B202", "C301"}
	defenseBuildings = []string{"Tòa A", "Tòa B", "Tòa C"}
	defenseTimes     = []string{"08:00", "09:00", "10:00", "14:00", "15:00", "16:00"}
	defenseDurations = []int{30, 45, 60}
	defenseStatuses  = []string{DefenseScheduled, DefenseCompleted}
)

const (
	university        = "Đại học Công nghệ Thông tin"
	defenseLeadTime   = 30 * day
	minExtraCommittee = 2
	maxExtraCommittee = 3
)

func defenseEligible(status string) bool {
	return status == StatusPendingDefense || status == StatusCompleted
}

// generateDefenseSchedules schedules the first eligible theses, those
// pending defense or completed, up to the requested count.
func (g *Generator) generateDefenseSchedules(ds *Dataset) error {
	names := statusNames(ds.ThesisStatuses())

	var schedules []DefenseSchedule
	for _, thesis := range ds.Theses() {
		if len(schedules) >= g.opts.Counts.Defenses {
			break
		}
		if !defenseEligible(names[thesis.StatusID]) {
			continue
		}

		date := g.rnd.DateBetween(defenseFrom, defenseTo)
		schedules = append(schedules, DefenseSchedule{
			ID:              g.rnd.ObjectID(),
			ThesisID:        thesis.ID,
			DefenseDate:     date,
			DefenseTime:     pick(g.rnd, defenseTimes),
			DurationMinutes: pick(g.rnd, defenseDurations),
			Location:        pick(g.rnd, defenseRooms),
			Building:        pick(g.rnd, defenseBuildings),
			University:      university,
			Status:          pick(g.rnd, defenseStatuses),
			Notes:           g.rnd.Sentence(),
			CreatedAt:       date.Add(-defenseLeadTime),
			UpdatedAt:       date,
		})
	}
	return ds.putDefenseSchedules(schedules)
}

// committee returns the supervisor followed by two or three other teachers
// sampled without replacement.
func (g *Generator) committee(supervisor primitive.ObjectID, teachers []User) []primitive.ObjectID {
	var others []primitive.ObjectID
	for _, t := range teachers {
		if t.ID != supervisor {
			others = append(others, t.ID)
		}
	}

	size := g.rnd.IntBetween(minExtraCommittee, maxExtraCommittee+1)
	members := []primitive.ObjectID{supervisor}
	for _, idx := range g.rnd.Sample(len(others), size) {
		members = append(members, others[idx])
	}
	return members
}

// generateDefenseScores has every committee member of a completed defense
// score each criterion exactly once.
func (g *Generator) generateDefenseScores(ds *Dataset) error {
	teachers := teachersOf(ds.Users())
	theses := make(map[primitive.ObjectID]Thesis)
	for _, t := range ds.Theses() {
		theses[t.ID] = t
	}

	var scores []DefenseScore
	for _, defense := range ds.DefenseSchedules() {
		if defense.Status != DefenseCompleted {
			continue
		}
		thesis, ok := theses[defense.ThesisID]
		if !ok {
			continue
		}

		for _, scorer := range g.committee(thesis.SupervisorID, teachers) {
			for _, criterion := range DefenseCriteria {
				scores = append(scores, DefenseScore{
					ID:                g.rnd.ObjectID(),
					DefenseScheduleID: defense.ID,
					ScorerID:          scorer,
					Score:             g.rnd.Float(8, 10),
					Criteria:          criterion,
					Comment:           g.rnd.Sentences(2),
					ScoredAt:          defense.DefenseDate,
				})
			}
		}
	}
	return ds.putDefenseScores(scores)
}
