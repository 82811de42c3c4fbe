package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/validation"
)

// Attendance errors
var (
	ErrInvalidDate   = apperrors.NewValidationError("Invalid date. Use YYYY-MM-DD")
	ErrInvalidStatus = apperrors.NewValidationError("Invalid status. Must be present or absent")
)

// Messages returned by SaveAttendance
const (
	MsgNoAttendanceRecords = "No records to save"
	MsgAttendanceSaved     = "Attendance saved successfully"
)

// AttendanceService validates and stores daily attendance
type AttendanceService struct {
	attendance AttendanceStore
	logger     zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(attendance AttendanceStore, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		attendance: attendance,
		logger:     logger,
	}
}

// SaveAttendance overwrites the day's marks of every listed student and returns
// the message for the client. Course and year level identify the class but are not stored.
func (s *AttendanceService) SaveAttendance(ctx context.Context, req *dto.SaveAttendanceRequest) (string, error) {
	if req.TeacherID == 0 || blank(req.Course) || blank(req.YearLevel) || blank(req.Date) || req.Records == nil {
		return "", apperrors.ErrMissingFields
	}
	if _, err := validation.ParseDate(req.Date); err != nil {
		return "", ErrInvalidDate
	}
	if len(req.Records) == 0 {
		return MsgNoAttendanceRecords, nil
	}

	// a student listed twice keeps the last status sent
	marks := make([]repositories.AttendanceMark, 0, len(req.Records))
	seen := make(map[int64]int, len(req.Records))
	for _, r := range req.Records {
		if r.StudentID == 0 {
			return "", apperrors.ErrMissingFields
		}
		if !r.Status.Valid() {
			return "", ErrInvalidStatus
		}
		studentID := int64(r.StudentID)
		if i, ok := seen[studentID]; ok {
			marks[i].Status = r.Status
			continue
		}
		seen[studentID] = len(marks)
		marks = append(marks, repositories.AttendanceMark{StudentID: studentID, Status: r.Status})
	}

	if err := s.attendance.ReplaceDay(ctx, int64(req.TeacherID), req.Date, marks); err != nil {
		return "", err
	}

	s.logger.Info().
		Int64("teacherID", int64(req.TeacherID)).
		Str("date", req.Date).
		Int("records", len(marks)).
		Msg("Attendance saved")
	return MsgAttendanceSaved, nil
}

// ClassAttendance returns the marks of one class on one day
func (s *AttendanceService) ClassAttendance(ctx context.Context, q *dto.AttendanceQuery) ([]*models.Attendance, error) {
	if blank(q.Date) || blank(q.Course) || blank(q.YearLevel) {
		return nil, apperrors.ErrMissingParameters
	}
	if _, err := validation.ParseDate(q.Date); err != nil {
		return nil, ErrInvalidDate
	}
	return s.attendance.ListByClass(ctx, q.Date, q.Course, q.YearLevel)
}

// StudentAttendance returns a student's history, newest first
func (s *AttendanceService) StudentAttendance(ctx context.Context, studentID int64) ([]*models.StudentAttendance, error) {
	return s.attendance.ListByStudent(ctx, studentID)
}

// Stats returns per-student totals and attendance rate for a class
func (s *AttendanceService) Stats(ctx context.Context, q *dto.ClassQuery) ([]*models.AttendanceStats, error) {
	if blank(q.Course) || blank(q.YearLevel) {
		return nil, apperrors.ErrMissingParameters
	}
	return s.attendance.Stats(ctx, q.Course, q.YearLevel)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
