package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/pkg/apperrors"
)

func gradeRequest(term models.Term, grade dto.Optional[dto.GradeValue]) *dto.SaveGradeRequest {
	return &dto.SaveGradeRequest{
		TeacherID: 2,
		StudentID: 11,
		Subject:   "Math",
		Semester:  models.SemesterFirst,
		Term:      term,
		Grade:     grade,
	}
}

func TestSaveGrade(t *testing.T) {
	tests := []struct {
		name  string
		grade dto.Optional[dto.GradeValue]
		want  *string
	}{
		{name: "numeric", grade: dto.Some(dto.GradeValue("89.5")), want: strPtr("89.5")},
		{name: "incomplete", grade: dto.Some(dto.GradeValue("inc")), want: strPtr("INC")},
		{name: "null clears", grade: dto.Optional[dto.GradeValue]{Set: true}, want: nil},
		{name: "blank clears", grade: dto.Some(dto.GradeValue("")), want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeGradeStore{}
			svc := NewGradeService(store, zerolog.Nop())

			require.NoError(t, svc.SaveGrade(context.Background(), gradeRequest(models.TermMidterm, tt.grade)))
			require.NotNil(t, store.entry)
			assert.Equal(t, models.TermMidterm, store.entry.Term)
			assert.Equal(t, tt.want, store.entry.Value)
			assert.Nil(t, store.entry.Remarks)
		})
	}
}

func TestSaveGradeValidation(t *testing.T) {
	svc := NewGradeService(&fakeGradeStore{}, zerolog.Nop())
	ctx := context.Background()

	err := svc.SaveGrade(ctx, gradeRequest(models.TermFinals, dto.Optional[dto.GradeValue]{}))
	assert.ErrorIs(t, err, apperrors.ErrMissingFields)

	err = svc.SaveGrade(ctx, gradeRequest("quarterly", dto.Some(dto.GradeValue("90"))))
	assert.ErrorIs(t, err, apperrors.ErrInvalidTerm)
	assert.Equal(t, "Invalid term. Must be prelim, midterm, or finals", err.Error())

	req := gradeRequest(models.TermPrelim, dto.Some(dto.GradeValue("90")))
	req.Semester = "3rd Semester"
	assert.ErrorIs(t, svc.SaveGrade(ctx, req), ErrInvalidSemester)

	err = svc.SaveGrade(ctx, gradeRequest(models.TermPrelim, dto.Some(dto.GradeValue("A+"))))
	assert.ErrorIs(t, err, ErrInvalidGrade)
}

func TestListGrades(t *testing.T) {
	store := &fakeGradeStore{}
	svc := NewGradeService(store, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ListGrades(ctx, &dto.ClassQuery{})
	require.NoError(t, err)
	assert.Equal(t, repositories.GradeFilter{}, store.filter)

	_, err = svc.ListGrades(ctx, &dto.ClassQuery{Course: "BSIT", YearLevel: "2nd Year"})
	require.NoError(t, err)
	assert.Equal(t, repositories.GradeFilter{Course: "BSIT", YearLevel: "2nd Year"}, store.filter)

	_, err = svc.ListGrades(ctx, &dto.ClassQuery{Course: "BSIT"})
	assert.ErrorIs(t, err, apperrors.ErrMissingParameters)
}

func TestDeleteGrades(t *testing.T) {
	store := &fakeGradeStore{}
	svc := NewGradeService(store, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, svc.DeleteGrade(ctx, 5))
	require.NoError(t, svc.DeleteSubjectGrades(ctx, 11, "Math", models.SemesterSummer))
	assert.Equal(t, []int64{5}, store.deleted)
	assert.Equal(t, []string{"Math"}, store.subjects)

	store.missing = true
	assert.ErrorIs(t, svc.DeleteGrade(ctx, 6), apperrors.ErrGradeNotFound)
	assert.ErrorIs(t, svc.DeleteSubjectGrades(ctx, 11, "Math", models.SemesterSummer), apperrors.ErrResourceNotFound)
}
