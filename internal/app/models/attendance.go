package models

import "time"

// AttendanceStatus is the daily presence mark
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

// Valid reports whether s is present or absent
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// Attendance is one row of the 'attendance' table. Dates travel as YYYY-MM-DD strings.
type Attendance struct {
	ID        int64            `json:"id"`
	StudentID int64            `json:"student_id"`
	TeacherID int64            `json:"teacher_id"`
	Date      string           `json:"date"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// StudentAttendance is an attendance row joined with the teacher and the student's current class
type StudentAttendance struct {
	Attendance
	TeacherName *string `json:"teacher_name"`
	Course      *string `json:"course"`
	YearLevel   *string `json:"year_level"`
}

// AttendanceStats aggregates one student's attendance.
// AttendanceRate is nil when the student has no recorded days.
type AttendanceStats struct {
	StudentID      int64    `json:"student_id"`
	StudentName    string   `json:"student_name"`
	Email          string   `json:"email"`
	TotalPresent   int64    `json:"total_present"`
	TotalAbsent    int64    `json:"total_absent"`
	TotalDays      int64    `json:"total_days"`
	AttendanceRate *float64 `json:"attendance_rate"`
}
