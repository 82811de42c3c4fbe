package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/pkg/helpers"
	"github.com/yigit/attendance/internal/pkg/logger"
)

var attendanceColumns = []string{"a.id", "a.student_id", "a.teacher_id", "a.date", "a.status", "a.created_at"}

// AttendanceMark is one student's status for the day being saved
type AttendanceMark struct {
	StudentID int64
	Status    models.AttendanceStatus
}

// AttendanceRepository handles attendance database operations
type AttendanceRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(database *db.PostgresDB) *AttendanceRepository {
	return &AttendanceRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// ReplaceDay overwrites the listed students' marks for one date. Existing rows for
// those students on that date are removed and the new rows inserted in one transaction.
func (r *AttendanceRepository) ReplaceDay(ctx context.Context, teacherID int64, date string, marks []AttendanceMark) error {
	if len(marks) == 0 {
		return nil
	}

	studentIDs := make([]int64, 0, len(marks))
	insert := r.sb.Insert("attendance").Columns("student_id", "teacher_id", "date", "status")
	for _, m := range marks {
		studentIDs = append(studentIDs, m.StudentID)
		insert = insert.Values(m.StudentID, teacherID, date, string(m.Status))
	}

	deleteSQL, deleteArgs, err := r.sb.Delete("attendance").
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.Eq{"student_id": studentIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete attendance query: %w", err)
	}
	insertSQL, insertArgs, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert attendance query: %w", err)
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSQL, deleteArgs...); err != nil {
			logger.Error().Err(err).Str("date", date).Msg("Error deleting old attendance")
			return fmt.Errorf("error deleting old attendance: %w", err)
		}
		if _, err := tx.Exec(ctx, insertSQL, insertArgs...); err != nil {
			logger.Error().Err(err).Str("date", date).Msg("Error inserting attendance")
			return fmt.Errorf("error inserting attendance: %w", err)
		}
		return nil
	})
}

// ListByClass returns the marks on date for students currently in the given course and year level
func (r *AttendanceRepository) ListByClass(ctx context.Context, date, course, yearLevel string) ([]*models.Attendance, error) {
	sql, args, err := r.sb.Select(attendanceColumns...).
		From("attendance a").
		Join("users u ON a.student_id = u.id").
		Where(squirrel.Eq{"a.date": date, "u.course": course, "u.student_year_level": yearLevel}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build class attendance query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching attendance")
		return nil, fmt.Errorf("error fetching attendance: %w", err)
	}
	defer rows.Close()

	records := []*models.Attendance{}
	for rows.Next() {
		var (
			a      models.Attendance
			day    time.Time
			status string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.TeacherID, &day, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		a.Date = helpers.FormatDate(day)
		a.Status = models.AttendanceStatus(status)
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's attendance history, newest first
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentAttendance, error) {
	columns := append(append([]string{}, attendanceColumns...), "t.name AS teacher_name", "s.course", "s.student_year_level AS year_level")
	sql, args, err := r.sb.Select(columns...).
		From("attendance a").
		LeftJoin("users t ON a.teacher_id = t.id").
		LeftJoin("users s ON a.student_id = s.id").
		Where(squirrel.Eq{"a.student_id": studentID}).
		OrderBy("a.date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student attendance query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error fetching student attendance")
		return nil, fmt.Errorf("error fetching student attendance: %w", err)
	}
	defer rows.Close()

	records := []*models.StudentAttendance{}
	for rows.Next() {
		var (
			a      models.StudentAttendance
			day    time.Time
			status string
		)
		if err := rows.Scan(&a.ID, &a.StudentID, &a.TeacherID, &day, &status, &a.CreatedAt,
			&a.TeacherName, &a.Course, &a.YearLevel); err != nil {
			return nil, fmt.Errorf("error scanning attendance row: %w", err)
		}
		a.Date = helpers.FormatDate(day)
		a.Status = models.AttendanceStatus(status)
		records = append(records, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return records, nil
}

// Stats aggregates attendance per student of a class. Students without any
// recorded day get zero totals and a NULL rate.
func (r *AttendanceRepository) Stats(ctx context.Context, course, yearLevel string) ([]*models.AttendanceStats, error) {
	sql, args, err := r.sb.Select(
		"u.id AS student_id",
		"u.name AS student_name",
		"u.email",
		"COUNT(a.id) FILTER (WHERE a.status = 'present') AS total_present",
		"COUNT(a.id) FILTER (WHERE a.status = 'absent') AS total_absent",
		"COUNT(a.id) AS total_days",
		"ROUND(COUNT(a.id) FILTER (WHERE a.status = 'present') * 100.0 / NULLIF(COUNT(a.id), 0), 2)::float8 AS attendance_rate",
	).
		From("users u").
		LeftJoin("attendance a ON u.id = a.student_id").
		Where(squirrel.Eq{"u.role": string(models.RoleStudent), "u.course": course, "u.student_year_level": yearLevel}).
		GroupBy("u.id", "u.name", "u.email").
		OrderBy("u.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance stats query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error fetching attendance stats")
		return nil, fmt.Errorf("error fetching attendance stats: %w", err)
	}
	defer rows.Close()

	stats := []*models.AttendanceStats{}
	for rows.Next() {
		var s models.AttendanceStats
		if err := rows.Scan(&s.StudentID, &s.StudentName, &s.Email,
			&s.TotalPresent, &s.TotalAbsent, &s.TotalDays, &s.AttendanceRate); err != nil {
			return nil, fmt.Errorf("error scanning attendance stats row: %w", err)
		}
		stats = append(stats, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance stats rows: %w", err)
	}
	return stats, nil
}
