package generator

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	epoch        = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	teacherUntil = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	studentUntil = time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
)

var majors = []string{"CNTT", "KHMT", "KTPM", "HTTT", "MMTVTT"}

func (g *Generator) generateRoles(ds *Dataset) error {
	roles := []Role{
		{
			ID:          g.rnd.ObjectID(),
			Name:        RoleStudent,
			Description: "Sinh viên thực hiện luận văn",
			Permissions: []string{"submit_thesis", "view_own_thesis", "upload_submission"},
			CreatedAt:   epoch,
		},
		{
			ID:          g.rnd.ObjectID(),
			Name:        RoleTeacher,
			Description: "Giảng viên hướng dẫn và chấm điểm",
			Permissions: []string{"review_thesis", "score_thesis", "view_all_thesis", "assign_student"},
			CreatedAt:   epoch,
		},
		{
			ID:          g.rnd.ObjectID(),
			Name:        RoleAdmin,
			Description: "Quản trị viên hệ thống",
			Permissions: []string{"*"},
			CreatedAt:   epoch,
		},
	}
	return ds.putRoles(roles)
}

func (g *Generator) generateDepartments(ds *Dataset) error {
	defs := []struct{ code, name string }{
		{"CNTT", "Công nghệ thông tin"},
		{"KHMT", "Khoa học máy tính"},
		{"KTPM", "Kỹ thuật phần mềm"},
		{"HTTT", "Hệ thống thông tin"},
		{"MMTVTT", "Mạng máy tính và Truyền thông"},
	}

	depts := make([]Department, 0, len(defs))
	for _, d := range defs {
		depts = append(depts, Department{
			ID:           g.rnd.ObjectID(),
			Code:         d.code,
			Name:         d.name,
			Description:  "Khoa " + d.name,
			ContactEmail: strings.ToLower(d.code) + "@university.edu.vn",
			ContactPhone: g.rnd.Phone(),
			IsActive:     true,
			CreatedAt:    epoch,
		})
	}
	return ds.putDepartments(depts)
}

func (g *Generator) generateThesisStatuses(ds *Dataset) error {
	defs := []struct{ name, description, color string }{
		{StatusPendingApproval, "Đề tài đang chờ phê duyệt", "#FFA500"},
		{StatusInProgress, "Đề tài đang được thực hiện", "#0080FF"},
		{StatusPendingDefense, "Đã nộp bài, chờ bảo vệ", "#800080"},
		{StatusCompleted, "Đã bảo vệ thành công", "#008000"},
		{StatusFailed, "Không đạt yêu cầu", "#FF0000"},
	}

	statuses := make([]ThesisStatus, 0, len(defs))
	for i, s := range defs {
		statuses = append(statuses, ThesisStatus{
			ID:          g.rnd.ObjectID(),
			Name:        s.name,
			Description: s.description,
			Color:       s.color,
			Order:       i + 1,
			IsActive:    true,
		})
	}
	return ds.putThesisStatuses(statuses)
}

// splitUsers returns how many teachers (20%, rounded down) and students a
// requested user count yields. One slot is always reserved for the admin;
// small counts may legitimately produce zero of either.
func splitUsers(total int) (teachers, students int) {
	teachers = total / 5
	students = total - teachers - 1
	if students < 0 {
		students = 0
	}
	return teachers, students
}

func (g *Generator) generateUsers(ds *Dataset) error {
	roleIDs := make(map[string]primitive.ObjectID)
	for _, r := range ds.Roles() {
		roleIDs[r.Name] = r.ID
	}

	teacherCount, studentCount := splitUsers(g.opts.Counts.Users)
	now := g.rnd.Now()
	users := make([]User, 0, 1+teacherCount+studentCount)

	users = append(users, User{
		ID:        g.rnd.ObjectID(),
		Code:      AdminCode,
		FullName:  "Nguyễn Văn Admin",
		Email:     "admin@university.edu.vn",
		Phone:     g.rnd.Phone(),
		RoleID:    roleIDs[RoleAdmin],
		Status:    UserActive,
		CreatedAt: epoch,
		UpdatedAt: now,
	})

	var teacherIDs []primitive.ObjectID
	for i := 0; i < teacherCount; i++ {
		major := pick(g.rnd, majors)
		u := User{
			ID:        g.rnd.ObjectID(),
			Code:      fmt.Sprintf("%s%03d", TeacherCodePrefix, i+1),
			FullName:  g.rnd.FullName(),
			Email:     fmt.Sprintf("gv%03d@university.edu.vn", i+1),
			Phone:     g.rnd.Phone(),
			RoleID:    roleIDs[RoleTeacher],
			Major:     &major,
			Status:    UserActive,
			CreatedAt: g.rnd.DateBetween(epoch, teacherUntil),
			UpdatedAt: now,
		}
		teacherIDs = append(teacherIDs, u.ID)
		users = append(users, u)
	}

	for i := 0; i < studentCount; i++ {
		major := pick(g.rnd, majors)
		status := UserActive
		if g.rnd.Intn(4) == 0 {
			status = UserInactive
		}
		users = append(users, User{
			ID:        g.rnd.ObjectID(),
			Code:      fmt.Sprintf("%s%05d", StudentCodePrefix, i+1),
			FullName:  g.rnd.FullName(),
			Email:     fmt.Sprintf("sv%05d@student.edu.vn", i+1),
			Phone:     g.rnd.Phone(),
			RoleID:    roleIDs[RoleStudent],
			Major:     &major,
			Status:    status,
			CreatedAt: g.rnd.DateBetween(epoch, studentUntil),
			UpdatedAt: now,
		})
	}

	if err := ds.putUsers(users); err != nil {
		return err
	}
	return ds.assignDepartmentHeads(teacherIDs)
}

// index helpers shared by the later factories

func teachersOf(users []User) []User {
	var out []User
	for _, u := range users {
		if u.IsTeacher() {
			out = append(out, u)
		}
	}
	return out
}

func adminOf(users []User) primitive.ObjectID {
	for _, u := range users {
		if u.Code == AdminCode {
			return u.ID
		}
	}
	return primitive.NilObjectID
}

func usersByID(users []User) map[primitive.ObjectID]User {
	out := make(map[primitive.ObjectID]User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out
}

func statusNames(statuses []ThesisStatus) map[primitive.ObjectID]string {
	out := make(map[primitive.ObjectID]string, len(statuses))
	for _, s := range statuses {
		out[s.ID] = s.Name
	}
	return out
}
