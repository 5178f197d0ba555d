package generator

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names, in generation order.
const (
	CollRoles                 = "roles"
	CollDepartments           = "departments"
	CollThesisStatuses        = "thesis_statuses"
	CollUsers                 = "users"
	CollTheses                = "theses"
	CollSupervisorAssignments = "supervisor_assignments"
	CollSubmissions           = "submissions"
	CollReviews               = "reviews"
	CollDefenseSchedules      = "defense_schedules"
	CollDefenseScores         = "defense_scores"
	CollEventLogs             = "event_logs"
	CollArchivedTheses        = "archived_theses"
	CollArchivedSubmissions   = "archived_submissions"
	CollArchivedReviews       = "archived_reviews"
)

// Role names (vi locale).
const (
	RoleStudent = "Sinh viên"
	RoleTeacher = "Giảng viên"
	RoleAdmin   = "Admin"
)

// Thesis lifecycle, ordered by ThesisStatus.Order.
const (
	StatusPendingApproval = "Chờ duyệt"
	StatusInProgress      = "Đang thực hiện"
	StatusPendingDefense  = "Chờ bảo vệ"
	StatusCompleted       = "Hoàn thành"
	StatusFailed          = "Không đạt"
)

const (
	UserActive   = "active"
	UserInactive = "inactive"

	StudentCodePrefix = "SV"
	TeacherCodePrefix = "GV"
	AdminCode         = "ADMIN001"
)

const (
	AssignmentPrimary      = "primary"
	AssignmentCoSupervisor = "co_supervisor"
	SubmissionMidterm      = "midterm"
	SubmissionRevision     = "revision"
	SubmissionFinal        = "final"
	DefenseScheduled       = "scheduled"
	DefenseCompleted       = "completed"
)

var DefenseCriteria = []string{"presentation", "content", "qa_session"}

type Role struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Permissions []string           `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type Department struct {
	ID           primitive.ObjectID  `json:"_id" bson:"_id"`
	Code         string              `json:"code" bson:"code"`
	Name         string              `json:"name" bson:"name"`
	Description  string              `json:"description" bson:"description"`
	HeadID       *primitive.ObjectID `json:"head_id" bson:"head_id"`
	ContactEmail string              `json:"contact_email" bson:"contact_email"`
	ContactPhone string              `json:"contact_phone" bson:"contact_phone"`
	IsActive     bool                `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
}

type ThesisStatus struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Color       string             `json:"color" bson:"color"`
	Order       int                `json:"order" bson:"order"`
	IsActive    bool               `json:"is_active" bson:"is_active"`
}

type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	Code      string             `json:"code" bson:"code"`
	FullName  string             `json:"full_name" bson:"full_name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone" bson:"phone"`
	RoleID    primitive.ObjectID `json:"role_id" bson:"role_id"`
	Major     *string            `json:"major" bson:"major"`
	Status    string             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

func (u User) IsStudent() bool { return len(u.Code) >= 2 && u.Code[:2] == StudentCodePrefix }
func (u User) IsTeacher() bool { return len(u.Code) >= 2 && u.Code[:2] == TeacherCodePrefix }

type Thesis struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Title        string             `json:"title" bson:"title"`
	Major        *string            `json:"major" bson:"major"`
	Description  string             `json:"description" bson:"description"`
	FileURL      string             `json:"file_url" bson:"file_url"`
	StatusID     primitive.ObjectID `json:"status_id" bson:"status_id"`
	SupervisorID primitive.ObjectID `json:"supervisor_id" bson:"supervisor_id"`
	StudentID    primitive.ObjectID `json:"student_id" bson:"student_id"`
	AcademicYear string             `json:"academic_year" bson:"academic_year"`
	Semester     int                `json:"semester" bson:"semester"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

type SupervisorAssignment struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	ThesisID     primitive.ObjectID `json:"thesis_id" bson:"thesis_id"`
	SupervisorID primitive.ObjectID `json:"supervisor_id" bson:"supervisor_id"`
	Role         string             `json:"role" bson:"role"`
	AssignedAt   time.Time          `json:"assigned_at" bson:"assigned_at"`
	AssignedBy   primitive.ObjectID `json:"assigned_by" bson:"assigned_by"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
}

type Submission struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	ThesisID    primitive.ObjectID `json:"thesis_id" bson:"thesis_id"`
	Type        string             `json:"type" bson:"type"`
	Version     int                `json:"version" bson:"version"`
	FileURL     string             `json:"file_url" bson:"file_url"`
	FileSize    int                `json:"file_size" bson:"file_size"`
	FileName    string             `json:"file_name" bson:"file_name"`
	SubmittedBy primitive.ObjectID `json:"submitted_by" bson:"submitted_by"`
	SubmittedAt time.Time          `json:"submitted_at" bson:"submitted_at"`
	Notes       string             `json:"notes" bson:"notes"`
	Status      string             `json:"status" bson:"status"`
}

type Review struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	SubmissionID     primitive.ObjectID `json:"submission_id" bson:"submission_id"`
	ReviewerID       primitive.ObjectID `json:"reviewer_id" bson:"reviewer_id"`
	Score            float64            `json:"score" bson:"score"`
	Comment          string             `json:"comment" bson:"comment"`
	DetailedFeedback string             `json:"detailed_feedback" bson:"detailed_feedback"`
	Status           string             `json:"status" bson:"status"`
	ReviewedAt       time.Time          `json:"reviewed_at" bson:"reviewed_at"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
}

type DefenseSchedule struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id"`
	ThesisID        primitive.ObjectID `json:"thesis_id" bson:"thesis_id"`
	DefenseDate     time.Time          `json:"defense_date" bson:"defense_date"`
	DefenseTime     string             `json:"defense_time" bson:"defense_time"`
	DurationMinutes int                `json:"duration_minutes" bson:"duration_minutes"`
	Location        string             `json:"location" bson:"location"`
	Building        string             `json:"building" bson:"building"`
	University      string             `json:"university" bson:"university"`
	Status          string             `json:"status" bson:"status"`
	Notes           string             `json:"notes" bson:"notes"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

type DefenseScore struct {
	ID                primitive.ObjectID `json:"_id" bson:"_id"`
	DefenseScheduleID primitive.ObjectID `json:"defense_schedule_id" bson:"defense_schedule_id"`
	ScorerID          primitive.ObjectID `json:"scorer_id" bson:"scorer_id"`
	Score             float64            `json:"score" bson:"score"`
	Criteria          string             `json:"criteria" bson:"criteria"`
	Comment           string             `json:"comment" bson:"comment"`
	ScoredAt          time.Time          `json:"scored_at" bson:"scored_at"`
}

type EventDetails struct {
	IP             string `json:"ip" bson:"ip"`
	Browser        string `json:"browser" bson:"browser"`
	AdditionalInfo string `json:"additional_info" bson:"additional_info"`
}

type EventLog struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	UserID     primitive.ObjectID `json:"user_id" bson:"user_id"`
	Action     string             `json:"action" bson:"action"`
	EntityType string             `json:"entity_type" bson:"entity_type"`
	EntityID   primitive.ObjectID `json:"entity_id" bson:"entity_id"`
	Details    EventDetails       `json:"details" bson:"details"`
	IPAddress  string             `json:"ip_address" bson:"ip_address"`
	UserAgent  string             `json:"user_agent" bson:"user_agent"`
	Timestamp  time.Time          `json:"timestamp" bson:"timestamp"`
}

// PersonInfo is a snapshot of a user taken at archival time.
type PersonInfo struct {
	ID    primitive.ObjectID `json:"id" bson:"id"`
	Code  string             `json:"code,omitempty" bson:"code,omitempty"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}

type ArchivedThesis struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id"`
	OriginalThesisID primitive.ObjectID `json:"original_thesis_id" bson:"original_thesis_id"`
	Title            string             `json:"title" bson:"title"`
	Major            *string            `json:"major" bson:"major"`
	Description      string             `json:"description" bson:"description"`
	FinalFileURL     string             `json:"final_file_url" bson:"final_file_url"`
	FinalScore       float64            `json:"final_score" bson:"final_score"`
	GraduationYear   int                `json:"graduation_year" bson:"graduation_year"`
	SupervisorInfo   PersonInfo         `json:"supervisor_info" bson:"supervisor_info"`
	StudentInfo      PersonInfo         `json:"student_info" bson:"student_info"`
	ArchivedAt       time.Time          `json:"archived_at" bson:"archived_at"`
	ArchivedBy       primitive.ObjectID `json:"archived_by" bson:"archived_by"`
}

type ArchivedSubmission struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id"`
	ArchivedThesisID     primitive.ObjectID `json:"archived_thesis_id" bson:"archived_thesis_id"`
	OriginalSubmissionID primitive.ObjectID `json:"original_submission_id" bson:"original_submission_id"`
	Type                 string             `json:"type" bson:"type"`
	FileURL              string             `json:"file_url" bson:"file_url"`
	SubmittedAt          time.Time          `json:"submitted_at" bson:"submitted_at"`
	ArchivedAt           time.Time          `json:"archived_at" bson:"archived_at"`
}

type ArchivedReview struct {
	ID                   primitive.ObjectID `json:"_id" bson:"_id"`
	ArchivedSubmissionID primitive.ObjectID `json:"archived_submission_id" bson:"archived_submission_id"`
	OriginalReviewID     primitive.ObjectID `json:"original_review_id" bson:"original_review_id"`
	ReviewerInfo         PersonInfo         `json:"reviewer_info" bson:"reviewer_info"`
	Score                float64            `json:"score" bson:"score"`
	Comment              string             `json:"comment" bson:"comment"`
	Status               string             `json:"status" bson:"status"`
	ReviewedAt           time.Time          `json:"reviewed_at" bson:"reviewed_at"`
	ArchivedAt           time.Time          `json:"archived_at" bson:"archived_at"`
}
