package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/logger"
)

var gradeColumns = []string{
	"g.id", "g.student_id", "g.teacher_id", "g.subject", "g.semester",
	"g.prelim_grade AS prelim", "g.midterm_grade AS midterm", "g.finals_grade AS finals",
	"g.remarks", "g.created_at", "g.updated_at",
}

// GradeFilter narrows a grade listing to one class. The zero value lists every student's grades.
type GradeFilter struct {
	Course    string
	YearLevel string
}

// GradeRepository handles grade database operations
type GradeRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(database *db.PostgresDB) *GradeRepository {
	return &GradeRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Upsert writes one term grade. Only the entry's term column, remarks,
// teacher and update time change on an existing (student, subject, semester) row.
func (r *GradeRepository) Upsert(ctx context.Context, entry *models.GradeEntry) error {
	column := entry.Term.Column()
	if column == "" {
		return apperrors.ErrInvalidTerm
	}

	sql, args, err := r.sb.Insert("grades").
		Columns("student_id", "teacher_id", "subject", "semester", column, "remarks").
		Values(entry.StudentID, entry.TeacherID, entry.Subject, string(entry.Semester), entry.Value, entry.Remarks).
		Suffix(fmt.Sprintf("ON CONFLICT (student_id, subject, semester) DO UPDATE SET "+
			"%[1]s = EXCLUDED.%[1]s, remarks = EXCLUDED.remarks, teacher_id = EXCLUDED.teacher_id, "+
			"updated_at = CURRENT_TIMESTAMP", column)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert grade query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("studentID", entry.StudentID).Msg("Error saving grade")
		return fmt.Errorf("error saving grade: %w", err)
	}
	return nil
}

// List returns grades joined with the student's current class, ordered by student name then subject
func (r *GradeRepository) List(ctx context.Context, filter GradeFilter) ([]*models.Grade, error) {
	columns := append(append([]string{}, gradeColumns...),
		"u.name AS student_name", "u.email AS student_email", "u.course", "u.section", "u.student_year_level AS year_level")
	query := r.sb.Select(columns...).
		From("grades g").
		LeftJoin("users u ON g.student_id = u.id").
		OrderBy("u.name", "g.subject")

	if filter.Course == "" && filter.YearLevel == "" {
		query = query.Where(squirrel.Eq{"u.role": string(models.RoleStudent)})
	} else {
		query = query.Where(squirrel.Eq{"u.course": filter.Course, "u.student_year_level": filter.YearLevel})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching grades")
		return nil, fmt.Errorf("error fetching grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		g, err := scanGrade(rows, func(g *models.Grade) []any {
			return []any{&g.StudentName, &g.StudentEmail, &g.Course, &g.Section, &g.YearLevel}
		})
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade rows: %w", err)
	}
	return grades, nil
}

// ListByStudent returns a student's grades with the grading teacher's name, ordered by subject
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	columns := append(append([]string{}, gradeColumns...),
		"t.name AS teacher_name", "s.course", "s.student_year_level AS year_level")
	sql, args, err := r.sb.Select(columns...).
		From("grades g").
		LeftJoin("users t ON g.teacher_id = t.id").
		LeftJoin("users s ON g.student_id = s.id").
		Where(squirrel.Eq{"g.student_id": studentID}).
		OrderBy("g.subject").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student grades query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error fetching student grades")
		return nil, fmt.Errorf("error fetching student grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		g, err := scanGrade(rows, func(g *models.Grade) []any {
			return []any{&g.TeacherName, &g.Course, &g.YearLevel}
		})
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade rows: %w", err)
	}
	return grades, nil
}

// Delete removes one grade row by id
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	return r.delete(ctx, squirrel.Eq{"id": id})
}

// DeleteSubject removes every term of a student's subject in one semester
func (r *GradeRepository) DeleteSubject(ctx context.Context, studentID int64, subject string, semester models.Semester) error {
	return r.delete(ctx, squirrel.Eq{"student_id": studentID, "subject": subject, "semester": string(semester)})
}

func (r *GradeRepository) delete(ctx context.Context, where squirrel.Eq) error {
	sql, args, err := r.sb.Delete("grades").Where(where).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete grade query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error deleting grade")
		return fmt.Errorf("error deleting grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}
	return nil
}

func scanGrade(row pgx.Row, joined func(*models.Grade) []any) (*models.Grade, error) {
	var (
		g        models.Grade
		semester string
	)
	dest := []any{&g.ID, &g.StudentID, &g.TeacherID, &g.Subject, &semester,
		&g.Prelim, &g.Midterm, &g.Finals, &g.Remarks, &g.CreatedAt, &g.UpdatedAt}
	dest = append(dest, joined(&g)...)

	if err := row.Scan(dest...); err != nil {
		return nil, fmt.Errorf("error scanning grade row: %w", err)
	}
	g.Semester = models.Semester(semester)
	return &g, nil
}
