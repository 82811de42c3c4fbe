package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/attendance/internal/app/models"
)

func TestAttendanceReplaceDay(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance WHERE date = $1 AND student_id IN ($2,$3)")).
		WithArgs("2024-09-02", int64(11), int64(12)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance (student_id,teacher_id,date,status) VALUES ($1,$2,$3,$4),($5,$6,$7,$8)")).
		WithArgs(int64(11), int64(2), "2024-09-02", "present", int64(12), int64(2), "2024-09-02", "absent").
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	err := repo.ReplaceDay(context.Background(), 2, "2024-09-02", []AttendanceMark{
		{StudentID: 11, Status: models.StatusPresent},
		{StudentID: 12, Status: models.StatusAbsent},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceReplaceDayRollsBackOnInsertFailure(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance")).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WillReturnError(errors.New("insert or update on table \"attendance\" violates foreign key constraint"))
	mock.ExpectRollback()

	err := repo.ReplaceDay(context.Background(), 2, "2024-09-02", []AttendanceMark{{StudentID: 404, Status: models.StatusPresent}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceReplaceDayRejectsDuplicateStudent(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)

	violation := &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "unique_attendance",
		Message:        `duplicate key value violates unique constraint "unique_attendance"`,
	}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance WHERE date = $1 AND student_id IN ($2,$3)")).
		WithArgs("2024-09-02", int64(11), int64(11)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO attendance")).
		WillReturnError(violation)
	mock.ExpectRollback()

	err := repo.ReplaceDay(context.Background(), 2, "2024-09-02", []AttendanceMark{
		{StudentID: 11, Status: models.StatusPresent},
		{StudentID: 11, Status: models.StatusAbsent},
	})
	require.Error(t, err)
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "unique_attendance", pgErr.ConstraintName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceReplaceDayWithoutMarks(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)

	require.NoError(t, repo.ReplaceDay(context.Background(), 2, "2024-09-02", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListByClass(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)
	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT a.id, a.student_id, a.teacher_id, a.date, a.status, a.created_at FROM attendance a JOIN users u ON a.student_id = u.id WHERE a.date = $1 AND u.course = $2 AND u.student_year_level = $3")).
		WithArgs("2024-09-02", "BSIT", "1st Year").
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "teacher_id", "date", "status", "created_at"}).
			AddRow(int64(1), int64(11), int64(2), day, "present", day))

	records, err := repo.ListByClass(context.Background(), "2024-09-02", "BSIT", "1st Year")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-09-02", records[0].Date)
	assert.Equal(t, models.StatusPresent, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListByStudent(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)
	later := time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)
	earlier := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM attendance a LEFT JOIN users t ON a.teacher_id = t.id LEFT JOIN users s ON a.student_id = s.id WHERE a.student_id = $1 ORDER BY a.date DESC")).
		WithArgs(int64(11)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "student_id", "teacher_id", "date", "status", "created_at", "teacher_name", "course", "year_level"}).
			AddRow(int64(2), int64(11), int64(2), later, "absent", later, strPtr("Ms. Cruz"), strPtr("BSIT"), strPtr("1st Year")).
			AddRow(int64(1), int64(11), int64(2), earlier, "present", earlier, nil, nil, nil))

	records, err := repo.ListByStudent(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-09-03", records[0].Date)
	assert.Equal(t, "Ms. Cruz", *records[0].TeacherName)
	assert.Nil(t, records[1].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceStats(t *testing.T) {
	database, mock := newMock(t)
	repo := NewAttendanceRepository(database)
	rate := 66.67

	mock.ExpectQuery(regexp.QuoteMeta("/ NULLIF(COUNT(a.id), 0), 2)::float8 AS attendance_rate FROM users u LEFT JOIN attendance a ON u.id = a.student_id WHERE u.course = $1 AND u.role = $2 AND u.student_year_level = $3 GROUP BY u.id, u.name, u.email ORDER BY u.name")).
		WithArgs("BSIT", "student", "1st Year").
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "student_name", "email", "total_present", "total_absent", "total_days", "attendance_rate"}).
			AddRow(int64(11), "Ana", "ana@example.com", int64(2), int64(1), int64(3), &rate).
			AddRow(int64(12), "Ben", "ben@example.com", int64(0), int64(0), int64(0), nil))

	stats, err := repo.Stats(context.Background(), "BSIT", "1st Year")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, 66.67, *stats[0].AttendanceRate)
	assert.Equal(t, int64(0), stats[1].TotalDays)
	assert.Nil(t, stats[1].AttendanceRate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
