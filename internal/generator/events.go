package generator

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	eventsPerUser = 5
	maxEventLogs  = 500
)

var eventActions = []string{
	"submit_thesis", "review_submission", "schedule_defense",
	"update_thesis", "assign_supervisor", "submit_revision",
}

var eventEntityTypes = []string{"thesis", "submission", "review", "defense"}

// generateEventLogs writes an audit trail for random users. entity_id points
// into the collection named by entity_type when that collection has
// records; it is not checked beyond that.
func (g *Generator) generateEventLogs(ds *Dataset) error {
	users := ds.Users()
	if len(users) == 0 {
		return ds.putEventLogs(nil)
	}

	entities := map[string][]primitive.ObjectID{}
	for _, t := range ds.Theses() {
		entities["thesis"] = append(entities["thesis"], t.ID)
	}
	for _, s := range ds.Submissions() {
		entities["submission"] = append(entities["submission"], s.ID)
	}
	for _, r := range ds.Reviews() {
		entities["review"] = append(entities["review"], r.ID)
	}
	for _, d := range ds.DefenseSchedules() {
		entities["defense"] = append(entities["defense"], d.ID)
	}

	count := min(g.opts.Counts.Users*eventsPerUser, maxEventLogs)
	logs := make([]EventLog, 0, count)
	for i := 0; i < count; i++ {
		entityType := pick(g.rnd, eventEntityTypes)
		entityID := g.rnd.ObjectID()
		if ids := entities[entityType]; len(ids) > 0 {
			entityID = pick(g.rnd, ids)
		}

		logs = append(logs, EventLog{
			ID:         g.rnd.ObjectID(),
			UserID:     pick(g.rnd, users).ID,
			Action:     pick(g.rnd, eventActions),
			EntityType: entityType,
			EntityID:   entityID,
			Details: EventDetails{
				IP:             g.rnd.IPv4(),
				Browser:        g.rnd.UserAgent(),
				AdditionalInfo: g.rnd.Sentence(),
			},
			IPAddress: g.rnd.IPv4(),
			UserAgent: g.rnd.UserAgent(),
			Timestamp: g.rnd.DateBetween(thesisFrom, g.rnd.Now()),
		})
	}
	return ds.putEventLogs(logs)
}
