package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/pkg/dberrors"
)

const createUsersTableSQL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'teacher', 'student')),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createAttendanceTableSQL = `
CREATE TABLE IF NOT EXISTS attendance (
	id BIGSERIAL PRIMARY KEY,
	student_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	teacher_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date DATE NOT NULL,
	status VARCHAR(10) NOT NULL DEFAULT 'absent' CHECK (status IN ('present', 'absent')),
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT unique_attendance UNIQUE (student_id, date)
)`

const createGradesTableSQL = `
CREATE TABLE IF NOT EXISTS grades (
	id BIGSERIAL PRIMARY KEY,
	student_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	teacher_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	subject VARCHAR(255) NOT NULL,
	semester VARCHAR(20) NOT NULL CHECK (semester IN ('1st Semester', '2nd Semester', 'Summer')),
	prelim_grade VARCHAR(10),
	midterm_grade VARCHAR(10),
	finals_grade VARCHAR(10),
	remarks TEXT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	CONSTRAINT unique_grade UNIQUE (student_id, subject, semester)
)`

const tableColumnsSQL = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`

type column struct {
	name       string
	definition string
}

// userColumns are added one by one to users tables created by older releases
var userColumns = []column{
	{"course", "VARCHAR(255)"},
	{"sections", "JSONB"},
	{"courses", "JSONB"},
	{"year_levels", "JSONB"},
	{"student_year_level", "VARCHAR(50)"},
	{"section", "VARCHAR(50)"},
}

var termColumns = []string{"prelim_grade", "midterm_grade", "finals_grade"}

// legacyClassColumns were stored on attendance and grades rows before class data
// moved to the student's user row
var legacyClassColumns = []string{"course", "year_level"}

// Migrator brings the schema to the shape the application expects.
// Detection is structural: it reads information_schema instead of keeping a version table.
type Migrator struct {
	db     *db.PostgresDB
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.PostgresDB, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     database,
		logger: logger,
	}
}

// Run executes every step in dependency order. A failing step is logged and
// collected; later steps still run.
func (m *Migrator) Run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users table", m.EnsureUsersTable},
		{"attendance table", m.EnsureAttendanceTable},
		{"legacy attendance shape", m.ReshapeLegacyAttendance},
		{"grades table", m.EnsureGradesTable},
		{"grade term columns", m.MigrateGradeTerms},
		{"legacy grades shape", m.ReshapeLegacyGrades},
	}

	var errs error
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			m.logger.Error().Err(err).Str("step", step.name).Msg("Schema step failed")
			errs = errors.Join(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		m.logger.Debug().Str("step", step.name).Msg("Schema step done")
	}
	return errs
}

// EnsureUsersTable creates the users table and adds any missing optional columns.
// Each column is attempted independently; an existing column is not an error.
func (m *Migrator) EnsureUsersTable(ctx context.Context) error {
	if _, err := m.db.Pool.Exec(ctx, createUsersTableSQL); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	var errs error
	for _, col := range userColumns {
		stmt := fmt.Sprintf("ALTER TABLE users ADD COLUMN %s %s", col.name, col.definition)
		if _, err := m.db.Pool.Exec(ctx, stmt); err != nil {
			if dberrors.IsDuplicateColumn(err) {
				continue
			}
			m.logger.Error().Err(err).Str("column", col.name).Msg("Failed to add users column")
			errs = errors.Join(errs, fmt.Errorf("add column %s: %w", col.name, err))
			continue
		}
		m.logger.Info().Str("column", col.name).Msg("Added users column")
	}
	return errs
}

// EnsureAttendanceTable creates the attendance table if absent
func (m *Migrator) EnsureAttendanceTable(ctx context.Context) error {
	if _, err := m.db.Pool.Exec(ctx, createAttendanceTableSQL); err != nil {
		return fmt.Errorf("failed to create attendance table: %w", err)
	}
	return nil
}

// EnsureGradesTable creates the grades table if absent
func (m *Migrator) EnsureGradesTable(ctx context.Context) error {
	if _, err := m.db.Pool.Exec(ctx, createGradesTableSQL); err != nil {
		return fmt.Errorf("failed to create grades table: %w", err)
	}
	return nil
}

// MigrateGradeTerms adds missing term columns and folds a legacy single
// 'grade' column into prelim_grade. The whole change runs in one transaction.
func (m *Migrator) MigrateGradeTerms(ctx context.Context) error {
	cols, err := m.columns(ctx, m.db.Pool, "grades")
	if err != nil {
		return err
	}

	var missing []string
	for _, c := range termColumns {
		if !cols[c] {
			missing = append(missing, c)
		}
	}
	hasLegacy := cols["grade"]

	if len(missing) == 0 && !hasLegacy {
		m.logger.Debug().Msg("Grades table is up to date")
		return nil
	}

	return m.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, c := range missing {
			if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE grades ADD COLUMN %s VARCHAR(10)", c)); err != nil {
				return fmt.Errorf("add column %s: %w", c, err)
			}
			m.logger.Info().Str("column", c).Msg("Added grades term column")
		}

		if !hasLegacy {
			return nil
		}

		tag, err := tx.Exec(ctx, `UPDATE grades SET prelim_grade = grade WHERE grade IS NOT NULL AND grade <> ''`)
		if err != nil {
			return fmt.Errorf("copy legacy grades: %w", err)
		}
		if _, err := tx.Exec(ctx, `ALTER TABLE grades DROP COLUMN grade`); err != nil {
			return fmt.Errorf("drop legacy grade column: %w", err)
		}
		m.logger.Info().Int64("rows", tag.RowsAffected()).Msg("Migrated legacy grade column into prelim_grade")
		return nil
	})
}

// ReshapeLegacyAttendance removes the per-row class columns from attendance,
// keeping the newest row of every (student_id, date) pair
func (m *Migrator) ReshapeLegacyAttendance(ctx context.Context) error {
	return m.reshapeLegacy(ctx, "attendance", "unique_attendance", []string{"student_id", "date"})
}

// ReshapeLegacyGrades removes the per-row class columns from grades,
// keeping the newest row of every (student_id, subject, semester) triple
func (m *Migrator) ReshapeLegacyGrades(ctx context.Context) error {
	return m.reshapeLegacy(ctx, "grades", "unique_grade", []string{"student_id", "subject", "semester"})
}

func (m *Migrator) reshapeLegacy(ctx context.Context, table, constraint string, key []string) error {
	cols, err := m.columns(ctx, m.db.Pool, table)
	if err != nil {
		return err
	}

	var legacy []string
	for _, c := range legacyClassColumns {
		if cols[c] {
			legacy = append(legacy, c)
		}
	}
	if len(legacy) == 0 {
		return nil
	}

	return m.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, dedupeSQL(table, key))
		if err != nil {
			return fmt.Errorf("collapse duplicate %s rows: %w", table, err)
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", table, constraint)); err != nil {
			return fmt.Errorf("drop %s: %w", constraint, err)
		}

		drops := make([]string, len(legacy))
		for i, c := range legacy {
			drops[i] = "DROP COLUMN " + c
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s %s", table, strings.Join(drops, ", "))); err != nil {
			return fmt.Errorf("drop legacy columns: %w", err)
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", table, constraint, strings.Join(key, ", "))); err != nil {
			return fmt.Errorf("add %s: %w", constraint, err)
		}

		m.logger.Info().
			Str("table", table).
			Strs("dropped", legacy).
			Int64("duplicatesRemoved", tag.RowsAffected()).
			Msg("Reshaped legacy table")
		return nil
	})
}

// dedupeSQL deletes every row that has a newer twin on the same key
func dedupeSQL(table string, key []string) string {
	conds := make([]string, len(key))
	for i, k := range key {
		conds[i] = fmt.Sprintf("a.%s = b.%s", k, k)
	}
	return fmt.Sprintf("DELETE FROM %s a USING %s b WHERE %s AND a.id < b.id", table, table, strings.Join(conds, " AND "))
}

// columns returns the set of column names of a table in the current schema
func (m *Migrator) columns(ctx context.Context, q db.DBTX, table string) (map[string]bool, error) {
	rows, err := q.Query(ctx, tableColumnsSQL, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s columns: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s column: %w", table, err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s columns: %w", table, err)
	}
	return cols, nil
}
