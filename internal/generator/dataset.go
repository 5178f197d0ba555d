package generator

import (
	"errors"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSlotWritten = errors.New("collection already written")
	ErrSlotMissing = errors.New("collection not yet generated")
)

// Dataset owns every generated collection. Each slot is written exactly once
// by the stage that produces it; readers get copies, so a later stage cannot
// reach back and change what an earlier one emitted. The department head
// backfill is the one sanctioned exception.
type Dataset struct {
	roles                 []Role
	departments           []Department
	thesisStatuses        []ThesisStatus
	users                 []User
	theses                []Thesis
	supervisorAssignments []SupervisorAssignment
	submissions           []Submission
	reviews               []Review
	defenseSchedules      []DefenseSchedule
	defenseScores         []DefenseScore
	eventLogs             []EventLog
	archivedTheses        []ArchivedThesis
	archivedSubmissions   []ArchivedSubmission
	archivedReviews       []ArchivedReview

	written       map[string]bool
	headsAssigned bool
}

func NewDataset() *Dataset {
	return &Dataset{written: make(map[string]bool)}
}

func (d *Dataset) Has(name string) bool { return d.written[name] }

func (d *Dataset) claim(name string) error {
	if d.written[name] {
		return fmt.Errorf("%w: %s", ErrSlotWritten, name)
	}
	d.written[name] = true
	return nil
}

func (d *Dataset) Roles() []Role                  { return slices.Clone(d.roles) }
func (d *Dataset) Departments() []Department      { return slices.Clone(d.departments) }
func (d *Dataset) ThesisStatuses() []ThesisStatus { return slices.Clone(d.thesisStatuses) }
func (d *Dataset) Users() []User                  { return slices.Clone(d.users) }
func (d *Dataset) Theses() []Thesis               { return slices.Clone(d.theses) }
func (d *Dataset) SupervisorAssignments() []SupervisorAssignment {
	return slices.Clone(d.supervisorAssignments)
}
func (d *Dataset) Submissions() []Submission           { return slices.Clone(d.submissions) }
func (d *Dataset) Reviews() []Review                   { return slices.Clone(d.reviews) }
func (d *Dataset) DefenseSchedules() []DefenseSchedule { return slices.Clone(d.defenseSchedules) }
func (d *Dataset) DefenseScores() []DefenseScore       { return slices.Clone(d.defenseScores) }
func (d *Dataset) EventLogs() []EventLog               { return slices.Clone(d.eventLogs) }
func (d *Dataset) ArchivedTheses() []ArchivedThesis    { return slices.Clone(d.archivedTheses) }
func (d *Dataset) ArchivedSubmissions() []ArchivedSubmission {
	return slices.Clone(d.archivedSubmissions)
}
func (d *Dataset) ArchivedReviews() []ArchivedReview { return slices.Clone(d.archivedReviews) }

func (d *Dataset) putRoles(v []Role) error {
	if err := d.claim(CollRoles); err != nil {
		return err
	}
	d.roles = v
	return nil
}

func (d *Dataset) putDepartments(v []Department) error {
	if err := d.claim(CollDepartments); err != nil {
		return err
	}
	d.departments = v
	return nil
}

func (d *Dataset) putThesisStatuses(v []ThesisStatus) error {
	if err := d.claim(CollThesisStatuses); err != nil {
		return err
	}
	d.thesisStatuses = v
	return nil
}

func (d *Dataset) putUsers(v []User) error {
	if err := d.claim(CollUsers); err != nil {
		return err
	}
	d.users = v
	return nil
}

func (d *Dataset) putTheses(v []Thesis) error {
	if err := d.claim(CollTheses); err != nil {
		return err
	}
	d.theses = v
	return nil
}

func (d *Dataset) putSupervisorAssignments(v []SupervisorAssignment) error {
	if err := d.claim(CollSupervisorAssignments); err != nil {
		return err
	}
	d.supervisorAssignments = v
	return nil
}

func (d *Dataset) putSubmissions(v []Submission) error {
	if err := d.claim(CollSubmissions); err != nil {
		return err
	}
	d.submissions = v
	return nil
}

func (d *Dataset) putReviews(v []Review) error {
	if err := d.claim(CollReviews); err != nil {
		return err
	}
	d.reviews = v
	return nil
}

func (d *Dataset) putDefenseSchedules(v []DefenseSchedule) error {
	if err := d.claim(CollDefenseSchedules); err != nil {
		return err
	}
	d.defenseSchedules = v
	return nil
}

func (d *Dataset) putDefenseScores(v []DefenseScore) error {
	if err := d.claim(CollDefenseScores); err != nil {
		return err
	}
	d.defenseScores = v
	return nil
}

func (d *Dataset) putEventLogs(v []EventLog) error {
	if err := d.claim(CollEventLogs); err != nil {
		return err
	}
	d.eventLogs = v
	return nil
}

func (d *Dataset) putArchive(theses []ArchivedThesis, subs []ArchivedSubmission, reviews []ArchivedReview) error {
	for _, name := range []string{CollArchivedTheses, CollArchivedSubmissions, CollArchivedReviews} {
		if err := d.claim(name); err != nil {
			return err
		}
	}
	d.archivedTheses = theses
	d.archivedSubmissions = subs
	d.archivedReviews = reviews
	return nil
}

// assignDepartmentHeads fills Department.head_id in order, one teacher per
// department, and may run only once.
func (d *Dataset) assignDepartmentHeads(teacherIDs []primitive.ObjectID) error {
	if !d.written[CollDepartments] {
		return fmt.Errorf("%w: %s", ErrSlotMissing, CollDepartments)
	}
	if d.headsAssigned {
		return fmt.Errorf("%w: %s.head_id", ErrSlotWritten, CollDepartments)
	}
	for i := range d.departments {
		if i < len(teacherIDs) {
			id := teacherIDs[i]
			d.departments[i].HeadID = &id
		}
	}
	d.headsAssigned = true
	return nil
}

// Collection is one named, ordered sequence of documents, ready for the
// serializer.
type Collection struct {
	Name string
	Docs []interface{}
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return docs
}

// Collections lists every collection in generation order.
func (d *Dataset) Collections() []Collection {
	return []Collection{
		{CollRoles, toDocs(d.roles)},
		{CollDepartments, toDocs(d.departments)},
		{CollThesisStatuses, toDocs(d.thesisStatuses)},
		{CollUsers, toDocs(d.users)},
		{CollTheses, toDocs(d.theses)},
		{CollSupervisorAssignments, toDocs(d.supervisorAssignments)},
		{CollSubmissions, toDocs(d.submissions)},
		{CollReviews, toDocs(d.reviews)},
		{CollDefenseSchedules, toDocs(d.defenseSchedules)},
		{CollDefenseScores, toDocs(d.defenseScores)},
		{CollEventLogs, toDocs(d.eventLogs)},
		{CollArchivedTheses, toDocs(d.archivedTheses)},
		{CollArchivedSubmissions, toDocs(d.archivedSubmissions)},
		{CollArchivedReviews, toDocs(d.archivedReviews)},
	}
}

// Counts reports the size of every collection.
func (d *Dataset) Counts() map[string]int {
	out := make(map[string]int)
	for _, c := range d.Collections() {
		out[c.Name] = len(c.Docs)
	}
	return out
}
