package dto

import "github.com/yigit/attendance/internal/app/models"

// AttendanceRecordInput is one student's mark inside a save request
type AttendanceRecordInput struct {
	StudentID ID                      `json:"studentId" binding:"required"`
	Status    models.AttendanceStatus `json:"status"`
}

// SaveAttendanceRequest overwrites a class's marks for one day.
// Course and YearLevel are required but only identify the caller's class.
type SaveAttendanceRequest struct {
	TeacherID ID                      `json:"teacherId" binding:"required"`
	Course    string                  `json:"course" binding:"required"`
	YearLevel string                  `json:"yearLevel" binding:"required"`
	Date      string                  `json:"date" binding:"required"`
	Records   []AttendanceRecordInput `json:"records" binding:"required,dive"`
}

// AttendanceQuery selects a class on a given day
type AttendanceQuery struct {
	Date      string `form:"date" binding:"required"`
	Course    string `form:"course" binding:"required"`
	YearLevel string `form:"yearLevel" binding:"required"`
}

// ClassQuery selects a class by course and year level
type ClassQuery struct {
	Course    string `form:"course"`
	YearLevel string `form:"yearLevel"`
}

// SaveGradeRequest writes one term grade
type SaveGradeRequest struct {
	TeacherID ID                   `json:"teacherId" binding:"required"`
	StudentID ID                   `json:"studentId" binding:"required"`
	Course    string               `json:"course"`
	YearLevel string               `json:"yearLevel"`
	Subject   string               `json:"subject" binding:"required"`
	Semester  models.Semester      `json:"semester" binding:"required"`
	Term      models.Term          `json:"term" binding:"required"`
	Grade     Optional[GradeValue] `json:"grade"`
	Remarks   *string              `json:"remarks"`
}
