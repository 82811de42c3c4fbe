package migrations

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/attendance/internal/db"
)

func setup(t *testing.T) (*Migrator, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewMigrator(db.NewFromPool(mock), zerolog.Nop()), mock
}

func columnRows(names ...string) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"column_name"})
	for _, n := range names {
		rows.AddRow(n)
	}
	return rows
}

func expectColumns(mock pgxmock.PgxPoolIface, table string, names ...string) {
	mock.ExpectQuery(regexp.QuoteMeta(tableColumnsSQL)).
		WithArgs(table).
		WillReturnRows(columnRows(names...))
}

var (
	currentAttendance = []string{"id", "student_id", "teacher_id", "date", "status", "created_at"}
	currentGrades     = []string{"id", "student_id", "teacher_id", "subject", "semester", "prelim_grade", "midterm_grade", "finals_grade", "remarks", "created_at", "updated_at"}
)

func expectUsersTable(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	for _, col := range userColumns {
		mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ADD COLUMN " + col.name)).
			WillReturnError(&pgconn.PgError{Code: "42701", Message: "column already exists"})
	}
}

func TestRunUpToDateDatabase(t *testing.T) {
	m, mock := setup(t)

	expectUsersTable(mock)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS attendance")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	expectColumns(mock, "attendance", currentAttendance...)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS grades")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	expectColumns(mock, "grades", currentGrades...)
	expectColumns(mock, "grades", currentGrades...)

	require.NoError(t, m.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunContinuesAfterFailedStep(t *testing.T) {
	m, mock := setup(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnError(errors.New("permission denied for schema public"))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS attendance")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	expectColumns(mock, "attendance", currentAttendance...)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS grades")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	expectColumns(mock, "grades", currentGrades...)
	expectColumns(mock, "grades", currentGrades...)

	err := m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "users table")
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUsersTableAddsColumnsIndependently(t *testing.T) {
	m, mock := setup(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	outcomes := map[string]error{
		"course":      &pgconn.PgError{Code: "42701"},
		"courses":     &pgconn.PgError{Code: "42701"},
		"year_levels": &pgconn.PgError{Code: "42501", Message: "must be owner of table users"},
	}
	for _, col := range userColumns {
		exp := mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE users ADD COLUMN " + col.name + " " + col.definition))
		if err, ok := outcomes[col.name]; ok {
			exp.WillReturnError(err)
		} else {
			exp.WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
		}
	}

	err := m.EnsureUsersTable(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "year_levels")
	assert.NotContains(t, err.Error(), "add column course")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUsersTableSkipsColumnsWhenCreateFails(t *testing.T) {
	m, mock := setup(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS users")).WillReturnError(errors.New("disk full"))

	assert.Error(t, m.EnsureUsersTable(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateGradeTermsFoldsLegacyColumn(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", "id", "student_id", "teacher_id", "subject", "semester", "grade", "prelim_grade")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades ADD COLUMN midterm_grade VARCHAR(10)")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades ADD COLUMN finals_grade VARCHAR(10)")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE grades SET prelim_grade = grade WHERE grade IS NOT NULL AND grade <> ''")).WillReturnResult(pgxmock.NewResult("UPDATE", 4))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades DROP COLUMN grade")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectCommit()

	require.NoError(t, m.MigrateGradeTerms(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateGradeTermsAddsMissingWithoutLegacy(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", "id", "prelim_grade", "midterm_grade")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades ADD COLUMN finals_grade VARCHAR(10)")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectCommit()

	require.NoError(t, m.MigrateGradeTerms(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateGradeTermsRollsBackOnFailure(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", currentGrades[0], "grade", "prelim_grade", "midterm_grade", "finals_grade")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE grades SET prelim_grade = grade")).WillReturnError(errors.New("value too long for type character varying(10)"))
	mock.ExpectRollback()

	err := m.MigrateGradeTerms(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy legacy grades")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReshapeLegacyAttendance(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "attendance", append(currentAttendance, "course", "year_level")...)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM attendance a USING attendance b WHERE a.student_id = b.student_id AND a.date = b.date AND a.id < b.id")).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE attendance DROP CONSTRAINT IF EXISTS unique_attendance")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE attendance DROP COLUMN course, DROP COLUMN year_level")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE attendance ADD CONSTRAINT unique_attendance UNIQUE (student_id, date)")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectCommit()

	require.NoError(t, m.ReshapeLegacyAttendance(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReshapeLegacyGradesNoop(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", currentGrades...)

	require.NoError(t, m.ReshapeLegacyGrades(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReshapeLegacyGrades(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", append(currentGrades, "course", "year_level")...)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades a USING grades b WHERE a.student_id = b.student_id AND a.subject = b.subject AND a.semester = b.semester AND a.id < b.id")).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades DROP CONSTRAINT IF EXISTS unique_grade")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades DROP COLUMN course, DROP COLUMN year_level")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades ADD CONSTRAINT unique_grade UNIQUE (student_id, subject, semester)")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectCommit()

	require.NoError(t, m.ReshapeLegacyGrades(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReshapeLegacyGradesRollsBackWhenConstraintFails(t *testing.T) {
	m, mock := setup(t)

	expectColumns(mock, "grades", append(currentGrades, "year_level")...)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades a USING grades b")).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades DROP CONSTRAINT IF EXISTS unique_grade")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades DROP COLUMN year_level")).WillReturnResult(pgxmock.NewResult("ALTER TABLE", 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE grades ADD CONSTRAINT unique_grade")).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "could not create unique index \"unique_grade\""})
	mock.ExpectRollback()

	err := m.ReshapeLegacyGrades(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add unique_grade")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDedupeSQL(t *testing.T) {
	assert.Equal(t,
		"DELETE FROM grades a USING grades b WHERE a.student_id = b.student_id AND a.subject = b.subject AND a.semester = b.semester AND a.id < b.id",
		dedupeSQL("grades", []string{"student_id", "subject", "semester"}))
}
