package generator

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap/zaptest"
)

var testNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

var defaultCounts = Counts{Users: 100, Theses: 50, Submissions: 150, Reviews: 150, Defenses: 30, Archived: 20}

func generate(t *testing.T, counts Counts, seed int64) *Dataset {
	t.Helper()
	g := New(Options{Counts: counts, Seed: seed, Now: testNow}, zaptest.NewLogger(t))
	ds, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return ds
}

func TestSplitUsers(t *testing.T) {
	tests := []struct {
		total    int
		teachers int
		students int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{4, 0, 3},
		{5, 1, 3},
		{10, 2, 7},
		{100, 20, 79},
	}

	for _, tt := range tests {
		teachers, students := splitUsers(tt.total)
		if teachers != tt.teachers || students != tt.students {
			t.Errorf("splitUsers(%d) = (%d, %d), expected (%d, %d)",
				tt.total, teachers, students, tt.teachers, tt.students)
		}
	}
}

func TestGenerateSmallScenario(t *testing.T) {
	ds := generate(t, Counts{Users: 10, Theses: 5, Submissions: 20, Reviews: 20, Defenses: 2, Archived: 1}, 7)

	roleNames := make(map[primitive.ObjectID]string)
	for _, r := range ds.Roles() {
		roleNames[r.ID] = r.Name
	}
	if len(roleNames) != 3 {
		t.Fatalf("Expected 3 roles, got %d", len(roleNames))
	}

	byRole := make(map[string]int)
	for _, u := range ds.Users() {
		byRole[roleNames[u.RoleID]]++
	}
	if byRole[RoleAdmin] != 1 || byRole[RoleTeacher] != 2 || byRole[RoleStudent] != 7 {
		t.Errorf("Expected 1 admin, 2 teachers, 7 students, got %v", byRole)
	}

	theses := ds.Theses()
	if len(theses) > 5 {
		t.Errorf("Expected at most 5 theses, got %d", len(theses))
	}

	users := usersByID(ds.Users())
	seen := make(map[primitive.ObjectID]bool)
	for _, th := range theses {
		student := users[th.StudentID]
		if !student.IsStudent() || student.Status != UserActive {
			t.Errorf("Thesis %s has non-active or non-student owner %s", th.ID.Hex(), student.Code)
		}
		if seen[th.StudentID] {
			t.Errorf("Student %s owns more than one thesis", student.Code)
		}
		seen[th.StudentID] = true
		if !users[th.SupervisorID].IsTeacher() {
			t.Errorf("Thesis %s supervisor is not a teacher", th.ID.Hex())
		}
	}

	if len(ds.Submissions()) > 20 || len(ds.Reviews()) > 20 {
		t.Errorf("Caps exceeded: %d submissions, %d reviews", len(ds.Submissions()), len(ds.Reviews()))
	}
	if len(ds.DefenseSchedules()) > 2 || len(ds.ArchivedTheses()) > 1 {
		t.Errorf("Caps exceeded: %d defenses, %d archived", len(ds.DefenseSchedules()), len(ds.ArchivedTheses()))
	}
}

func TestDepartmentHeads(t *testing.T) {
	ds := generate(t, Counts{Users: 10}, 1)

	teachers := teachersOf(ds.Users())
	for i, d := range ds.Departments() {
		if i < len(teachers) {
			if d.HeadID == nil || *d.HeadID != teachers[i].ID {
				t.Errorf("Department %s head = %v, expected %s", d.Code, d.HeadID, teachers[i].ID.Hex())
			}
			continue
		}
		if d.HeadID != nil {
			t.Errorf("Department %s should have no head, got %s", d.Code, d.HeadID.Hex())
		}
	}
}

func TestZeroCounts(t *testing.T) {
	ds := generate(t, Counts{}, 3)

	users := ds.Users()
	if len(users) != 1 || users[0].Code != AdminCode {
		t.Fatalf("Expected only the admin, got %d users", len(users))
	}
	counts := ds.Counts()
	for _, name := range []string{CollTheses, CollSubmissions, CollReviews, CollEventLogs, CollArchivedTheses} {
		if counts[name] != 0 {
			t.Errorf("Expected empty %s, got %d", name, counts[name])
		}
	}
	if len(counts) != 14 {
		t.Errorf("Expected 14 collections, got %d", len(counts))
	}
}

func TestSubmissionSequences(t *testing.T) {
	ds := generate(t, defaultCounts, 42)

	theses := make(map[primitive.ObjectID]Thesis)
	for _, th := range ds.Theses() {
		theses[th.ID] = th
	}

	subs := ds.Submissions()
	if len(subs) == 0 || len(subs) > defaultCounts.Submissions {
		t.Fatalf("Unexpected submission count %d", len(subs))
	}

	var order []primitive.ObjectID
	byThesis := make(map[primitive.ObjectID][]Submission)
	for _, s := range subs {
		if _, ok := byThesis[s.ThesisID]; !ok {
			order = append(order, s.ThesisID)
		}
		byThesis[s.ThesisID] = append(byThesis[s.ThesisID], s)
	}

	for _, id := range order {
		seq := byThesis[id]
		thesis, ok := theses[id]
		if !ok {
			t.Fatalf("Submission references unknown thesis %s", id.Hex())
		}
		if len(seq) > maxSubmissionsPerThesis {
			t.Errorf("Thesis %s has %d submissions", id.Hex(), len(seq))
		}

		prev := thesis.CreatedAt
		for i, s := range seq {
			if s.Version != i+1 {
				t.Errorf("Thesis %s submission %d has version %d", id.Hex(), i, s.Version)
			}
			if s.SubmittedAt.Before(prev.Add(minSubmissionGap)) {
				t.Errorf("Thesis %s submission %d is less than the minimum gap after its predecessor", id.Hex(), i)
			}
			if s.SubmittedBy != thesis.StudentID {
				t.Errorf("Submission %s not submitted by the thesis student", s.ID.Hex())
			}
			prev = s.SubmittedAt
		}

		if seq[0].Type != SubmissionMidterm {
			t.Errorf("Thesis %s first submission type = %s", id.Hex(), seq[0].Type)
		}
		if len(seq) > 1 && seq[len(seq)-1].Type != SubmissionFinal {
			t.Errorf("Thesis %s last submission type = %s", id.Hex(), seq[len(seq)-1].Type)
		}
		for _, s := range seq[1:max(1, len(seq)-1)] {
			if s.Type != SubmissionRevision {
				t.Errorf("Thesis %s middle submission type = %s", id.Hex(), s.Type)
			}
		}
	}
}

func TestSubmissionCapIsGlobal(t *testing.T) {
	counts := defaultCounts
	counts.Submissions = 4
	ds := generate(t, counts, 42)

	subs := ds.Submissions()
	if len(subs) != 4 {
		t.Fatalf("Expected exactly 4 submissions, got %d", len(subs))
	}
	// first-come-first-served: only the leading theses receive submissions
	theses := ds.Theses()
	allowed := map[primitive.ObjectID]bool{}
	for _, th := range theses[:4] {
		allowed[th.ID] = true
	}
	for _, s := range subs {
		if !allowed[s.ThesisID] {
			t.Errorf("Submission %s belongs to a later thesis", s.ID.Hex())
		}
	}
}

func TestSupervisorAssignments(t *testing.T) {
	ds := generate(t, defaultCounts, 42)

	primaries := make(map[primitive.ObjectID]primitive.ObjectID)
	cos := make(map[primitive.ObjectID][]primitive.ObjectID)
	for _, a := range ds.SupervisorAssignments() {
		switch a.Role {
		case AssignmentPrimary:
			if _, dup := primaries[a.ThesisID]; dup {
				t.Errorf("Thesis %s has more than one primary", a.ThesisID.Hex())
			}
			if !a.IsActive {
				t.Errorf("Primary assignment %s is inactive", a.ID.Hex())
			}
			primaries[a.ThesisID] = a.SupervisorID
		case AssignmentCoSupervisor:
			cos[a.ThesisID] = append(cos[a.ThesisID], a.SupervisorID)
		default:
			t.Errorf("Unknown assignment role %q", a.Role)
		}
	}

	for _, th := range ds.Theses() {
		primary, ok := primaries[th.ID]
		if !ok {
			t.Errorf("Thesis %s has no primary", th.ID.Hex())
			continue
		}
		if primary != th.SupervisorID {
			t.Errorf("Thesis %s primary differs from its supervisor", th.ID.Hex())
		}
		if len(cos[th.ID]) > 1 {
			t.Errorf("Thesis %s has %d co-supervisors", th.ID.Hex(), len(cos[th.ID]))
		}
		for _, co := range cos[th.ID] {
			if co == primary {
				t.Errorf("Thesis %s co-supervisor equals primary", th.ID.Hex())
			}
		}
	}
}

func TestReviews(t *testing.T) {
	ds := generate(t, defaultCounts, 42)

	subs := make(map[primitive.ObjectID]Submission)
	for _, s := range ds.Submissions() {
		subs[s.ID] = s
	}
	theses := make(map[primitive.ObjectID]Thesis)
	for _, th := range ds.Theses() {
		theses[th.ID] = th
	}
	allowed := make(map[primitive.ObjectID]map[primitive.ObjectID]bool)
	for _, a := range ds.SupervisorAssignments() {
		if allowed[a.ThesisID] == nil {
			allowed[a.ThesisID] = map[primitive.ObjectID]bool{}
		}
		if a.IsActive {
			allowed[a.ThesisID][a.SupervisorID] = true
		}
	}

	reviews := ds.Reviews()
	if len(reviews) > defaultCounts.Reviews {
		t.Fatalf("Expected at most %d reviews, got %d", defaultCounts.Reviews, len(reviews))
	}
	for _, r := range reviews {
		sub, ok := subs[r.SubmissionID]
		if !ok {
			t.Fatalf("Review %s references unknown submission", r.ID.Hex())
		}
		if !allowed[sub.ThesisID][r.ReviewerID] {
			t.Errorf("Review %s reviewer is not a supervisor of the thesis", r.ID.Hex())
		}
		if r.ReviewedAt.Before(sub.SubmittedAt) {
			t.Errorf("Review %s predates its submission", r.ID.Hex())
		}
		if r.Score < 7 || r.Score >= 10 {
			t.Errorf("Review %s score %v out of range", r.ID.Hex(), r.Score)
		}
	}
}

func TestDefenses(t *testing.T) {
	ds := generate(t, defaultCounts, 42)

	names := statusNames(ds.ThesisStatuses())
	theses := make(map[primitive.ObjectID]Thesis)
	for _, th := range ds.Theses() {
		theses[th.ID] = th
	}
	users := usersByID(ds.Users())

	type pair struct {
		scorer    primitive.ObjectID
		criterion string
	}
	scores := make(map[primitive.ObjectID][]DefenseScore)
	for _, s := range ds.DefenseScores() {
		scores[s.DefenseScheduleID] = append(scores[s.DefenseScheduleID], s)
	}

	for _, d := range ds.DefenseSchedules() {
		thesis := theses[d.ThesisID]
		if !defenseEligible(names[thesis.StatusID]) {
			t.Errorf("Defense %s scheduled for ineligible thesis", d.ID.Hex())
		}

		got := scores[d.ID]
		if d.Status != DefenseCompleted {
			if len(got) != 0 {
				t.Errorf("Defense %s is not completed but has %d scores", d.ID.Hex(), len(got))
			}
			continue
		}

		pairs := make(map[pair]bool)
		scorers := make(map[primitive.ObjectID]bool)
		for _, s := range got {
			p := pair{s.ScorerID, s.Criteria}
			if pairs[p] {
				t.Errorf("Defense %s has duplicate score for %v", d.ID.Hex(), p)
			}
			pairs[p] = true
			scorers[s.ScorerID] = true
			if !users[s.ScorerID].IsTeacher() {
				t.Errorf("Defense %s scored by non-teacher", d.ID.Hex())
			}
		}
		if !scorers[thesis.SupervisorID] {
			t.Errorf("Defense %s committee is missing the supervisor", d.ID.Hex())
		}
		if len(scorers) < 3 || len(scorers) > 4 {
			t.Errorf("Defense %s committee size %d", d.ID.Hex(), len(scorers))
		}
		if len(got) != len(scorers)*len(DefenseCriteria) {
			t.Errorf("Defense %s has %d scores for %d scorers", d.ID.Hex(), len(got), len(scorers))
		}
	}
}

func TestArchivalCascade(t *testing.T) {
	ds := generate(t, defaultCounts, 42)

	names := statusNames(ds.ThesisStatuses())
	theses := make(map[primitive.ObjectID]Thesis)
	for _, th := range ds.Theses() {
		theses[th.ID] = th
	}
	subsPerThesis := make(map[primitive.ObjectID]int)
	for _, s := range ds.Submissions() {
		subsPerThesis[s.ThesisID]++
	}
	reviewsPerSub := make(map[primitive.ObjectID]int)
	reviewers := make(map[primitive.ObjectID]primitive.ObjectID)
	for _, r := range ds.Reviews() {
		reviewsPerSub[r.SubmissionID]++
		reviewers[r.ID] = r.ReviewerID
	}

	archived := ds.ArchivedTheses()
	if len(archived) > defaultCounts.Archived {
		t.Fatalf("Expected at most %d archived theses, got %d", defaultCounts.Archived, len(archived))
	}

	archivedSubs := make(map[primitive.ObjectID][]ArchivedSubmission)
	for _, s := range ds.ArchivedSubmissions() {
		archivedSubs[s.ArchivedThesisID] = append(archivedSubs[s.ArchivedThesisID], s)
	}
	archivedReviews := make(map[primitive.ObjectID]int)
	for _, r := range ds.ArchivedReviews() {
		archivedReviews[r.ArchivedSubmissionID]++
		if reviewers[r.OriginalReviewID] != r.ReviewerInfo.ID {
			t.Errorf("Archived review %s reviewer snapshot mismatch", r.ID.Hex())
		}
	}

	for _, a := range archived {
		original, ok := theses[a.OriginalThesisID]
		if !ok {
			t.Fatalf("Archived thesis %s references unknown thesis", a.ID.Hex())
		}
		if names[original.StatusID] != StatusCompleted {
			t.Errorf("Archived thesis %s was not completed", a.ID.Hex())
		}
		if a.StudentInfo.ID != original.StudentID || a.SupervisorInfo.ID != original.SupervisorID {
			t.Errorf("Archived thesis %s snapshot mismatch", a.ID.Hex())
		}
		if got := len(archivedSubs[a.ID]); got != subsPerThesis[original.ID] {
			t.Errorf("Archived thesis %s has %d submissions, expected %d", a.ID.Hex(), got, subsPerThesis[original.ID])
		}
		for _, s := range archivedSubs[a.ID] {
			if got := archivedReviews[s.ID]; got != reviewsPerSub[s.OriginalSubmissionID] {
				t.Errorf("Archived submission %s has %d reviews, expected %d", s.ID.Hex(), got, reviewsPerSub[s.OriginalSubmissionID])
			}
		}
	}
}

func TestEventLogs(t *testing.T) {
	ds := generate(t, Counts{Users: 10, Theses: 5, Submissions: 20, Reviews: 20, Defenses: 2, Archived: 1}, 9)

	logs := ds.EventLogs()
	if len(logs) != 50 {
		t.Fatalf("Expected 50 event logs, got %d", len(logs))
	}
	users := usersByID(ds.Users())
	for _, l := range logs {
		if _, ok := users[l.UserID]; !ok {
			t.Errorf("Event log %s references unknown user", l.ID.Hex())
		}
		if l.Timestamp.Before(thesisFrom) || l.Timestamp.After(testNow) {
			t.Errorf("Event log %s timestamp %v out of range", l.ID.Hex(), l.Timestamp)
		}
	}

	big := generate(t, Counts{Users: 200}, 9)
	if n := len(big.EventLogs()); n != maxEventLogs {
		t.Errorf("Expected event logs capped at %d, got %d", maxEventLogs, n)
	}
}

func TestGenerateIsReproducible(t *testing.T) {
	a := generate(t, defaultCounts, 2024)
	b := generate(t, defaultCounts, 2024)

	if !reflect.DeepEqual(a.Collections(), b.Collections()) {
		t.Error("Expected identical datasets for the same seed")
	}

	c := generate(t, defaultCounts, 2025)
	if reflect.DeepEqual(a.Users(), c.Users()) {
		t.Error("Expected different users for a different seed")
	}
}

func TestIdentifiersAreUnique(t *testing.T) {
	ds := generate(t, defaultCounts, 5)

	seen := make(map[primitive.ObjectID]string)
	for _, c := range ds.Collections() {
		for _, doc := range c.Docs {
			id := reflect.ValueOf(doc).FieldByName("ID").Interface().(primitive.ObjectID)
			if prev, dup := seen[id]; dup {
				t.Fatalf("Identifier %s reused in %s and %s", id.Hex(), prev, c.Name)
			}
			seen[id] = c.Name
		}
	}
}

func TestDatasetWriteOnce(t *testing.T) {
	ds := NewDataset()

	if err := ds.putRoles(nil); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := ds.putRoles(nil); !errors.Is(err, ErrSlotWritten) {
		t.Errorf("Expected ErrSlotWritten, got %v", err)
	}

	if err := ds.assignDepartmentHeads(nil); !errors.Is(err, ErrSlotMissing) {
		t.Errorf("Expected ErrSlotMissing before departments exist, got %v", err)
	}
	if err := ds.putDepartments([]Department{{Code: "CNTT"}}); err != nil {
		t.Fatalf("putDepartments failed: %v", err)
	}
	if err := ds.assignDepartmentHeads([]primitive.ObjectID{primitive.NewObjectID()}); err != nil {
		t.Fatalf("assignDepartmentHeads failed: %v", err)
	}
	if err := ds.assignDepartmentHeads(nil); !errors.Is(err, ErrSlotWritten) {
		t.Errorf("Expected ErrSlotWritten on second backfill, got %v", err)
	}
}

func TestDatasetReturnsCopies(t *testing.T) {
	ds := generate(t, Counts{Users: 10}, 11)

	users := ds.Users()
	users[0].FullName = "changed"
	if ds.Users()[0].FullName == "changed" {
		t.Error("Expected Users to return a copy")
	}
}

func TestCheckOrder(t *testing.T) {
	if err := checkOrder(Pipeline()); err != nil {
		t.Fatalf("Expected default pipeline to be valid, got %v", err)
	}

	swapped := Pipeline()
	swapped[3], swapped[4] = swapped[4], swapped[3]
	if err := checkOrder(swapped); !errors.Is(err, ErrStageOrder) {
		t.Errorf("Expected ErrStageOrder for theses before users, got %v", err)
	}

	dup := append(Pipeline(), Stage{Name: "again", Writes: []string{CollRoles}})
	if err := checkOrder(dup); !errors.Is(err, ErrStageOrder) {
		t.Errorf("Expected ErrStageOrder for duplicate producer, got %v", err)
	}

	orphan := append(Pipeline(), Stage{Name: "orphan", Reads: []string{"grades"}})
	if err := checkOrder(orphan); !errors.Is(err, ErrStageOrder) {
		t.Errorf("Expected ErrStageOrder for unknown dependency, got %v", err)
	}
}

func TestGenerateRejectsStageThatSkipsItsWrite(t *testing.T) {
	g := New(Options{Seed: 1, Now: testNow}, nil)
	g.stages = []Stage{{
		Name:   "roles",
		Writes: []string{CollRoles},
		Run:    func(*Generator, *Dataset) error { return nil },
	}}

	if _, err := g.Generate(); err == nil {
		t.Error("Expected an error when a stage does not produce its collection")
	}
}
