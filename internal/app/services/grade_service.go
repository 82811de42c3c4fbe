package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/validation"
)

// Grade errors
var (
	ErrInvalidSemester = apperrors.NewValidationError("Invalid semester. Must be 1st Semester, 2nd Semester, or Summer")
	ErrInvalidGrade    = apperrors.NewValidationError("Invalid grade. Must be numeric or INC, at most 10 characters")
)

// GradeService validates and stores term grades
type GradeService struct {
	grades GradeStore
	logger zerolog.Logger
}

// NewGradeService creates a new GradeService
func NewGradeService(grades GradeStore, logger zerolog.Logger) *GradeService {
	return &GradeService{
		grades: grades,
		logger: logger,
	}
}

// SaveGrade writes one term of a student's subject grade. A null or blank grade clears the term.
func (s *GradeService) SaveGrade(ctx context.Context, req *dto.SaveGradeRequest) error {
	if req.TeacherID == 0 || req.StudentID == 0 || blank(req.Subject) || req.Semester == "" || req.Term == "" || !req.Grade.Set {
		return apperrors.ErrMissingFields
	}
	if !req.Term.Valid() {
		return apperrors.ErrInvalidTerm
	}
	if !req.Semester.Valid() {
		return ErrInvalidSemester
	}

	var raw string
	if req.Grade.Value != nil {
		raw = string(*req.Grade.Value)
	}
	value, err := validation.NormalizeGrade(raw)
	if err != nil {
		return ErrInvalidGrade
	}

	entry := &models.GradeEntry{
		TeacherID: int64(req.TeacherID),
		StudentID: int64(req.StudentID),
		Subject:   req.Subject,
		Semester:  req.Semester,
		Term:      req.Term,
		Value:     value,
		Remarks:   nullIfBlank(req.Remarks),
	}
	if err := s.grades.Upsert(ctx, entry); err != nil {
		return err
	}

	s.logger.Info().
		Int64("studentID", int64(req.StudentID)).
		Str("subject", req.Subject).
		Str("term", string(req.Term)).
		Msg("Grade saved")
	return nil
}

// ListGrades lists every student's grades, or one class's when both course and year level are given
func (s *GradeService) ListGrades(ctx context.Context, q *dto.ClassQuery) ([]*models.Grade, error) {
	hasCourse, hasYear := !blank(q.Course), !blank(q.YearLevel)
	if hasCourse != hasYear {
		return nil, apperrors.ErrMissingParameters
	}
	return s.grades.List(ctx, repositories.GradeFilter{Course: q.Course, YearLevel: q.YearLevel})
}

// StudentGrades returns a student's grades ordered by subject
func (s *GradeService) StudentGrades(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	return s.grades.ListByStudent(ctx, studentID)
}

// DeleteGrade removes one grade row
func (s *GradeService) DeleteGrade(ctx context.Context, id int64) error {
	return s.grades.Delete(ctx, id)
}

// DeleteSubjectGrades removes all terms of a student's subject in a semester
func (s *GradeService) DeleteSubjectGrades(ctx context.Context, studentID int64, subject string, semester models.Semester) error {
	if blank(subject) || semester == "" {
		return apperrors.ErrMissingParameters
	}
	return s.grades.DeleteSubject(ctx, studentID, subject, semester)
}

func nullIfBlank(s *string) *string {
	if s == nil || blank(*s) {
		return nil
	}
	return s
}
