package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/db"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/helpers"
	"github.com/yigit/attendance/internal/pkg/logger"
)

var userColumns = []string{
	"id", "name", "email", "password", "role", "course", "section",
	"sections", "courses", "year_levels", "student_year_level", "created_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{
		db: database,
		sb: statementBuilder(),
	}
}

// Create inserts a user and returns its id. The password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	sections, err := helpers.JSONList(user.Sections)
	if err != nil {
		return 0, err
	}
	courses, err := helpers.JSONList(user.Courses)
	if err != nil {
		return 0, err
	}
	yearLevels, err := helpers.JSONList(user.YearLevels)
	if err != nil {
		return 0, err
	}

	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "password", "role", "course", "section", "sections", "courses", "year_levels", "student_year_level").
		Values(user.Name, user.Email, user.Password, string(user.Role),
			helpers.NullIfEmpty(user.Course), helpers.NullIfEmpty(user.Section),
			sections, courses, yearLevels, helpers.NullIfEmpty(user.StudentYearLevel)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create user query: %w", err)
	}

	var id int64
	if err := r.db.Pool.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// UpsertCredentials inserts users or, for an existing email, only replaces the password hash
func (r *UserRepository) UpsertCredentials(ctx context.Context, users []*models.User) error {
	if len(users) == 0 {
		return nil
	}

	builder := r.sb.Insert("users").Columns("name", "email", "password", "role")
	for _, u := range users {
		builder = builder.Values(u.Name, u.Email, u.Password, string(u.Role))
	}
	sql, args, err := builder.
		Suffix("ON CONFLICT (email) DO UPDATE SET password = EXCLUDED.password").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert users query: %w", err)
	}

	if _, err := r.db.Pool.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Msg("Error upserting users")
		return fmt.Errorf("error upserting users: %w", err)
	}
	return nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user, including the password hash, by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	user, err := scanUser(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error getting user")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// List returns every user ordered by id
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Update applies the given column values to one user
func (r *UserRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	sql, args, err := r.sb.Update("users").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update user query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user's attendance rows and then the user, atomically
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("attendance").Where(squirrel.Eq{"student_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete attendance query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error deleting user attendance: %w", err)
		}

		sql, args, err = r.sb.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build delete user query: %w", err)
		}
		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			logger.Error().Err(err).Int64("userID", id).Msg("Error deleting user")
			return fmt.Errorf("error deleting user: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		user                        models.User
		role                        string
		sections, courses, yearLvls []byte
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &role,
		&user.Course, &user.Section, &sections, &courses, &yearLvls,
		&user.StudentYearLevel, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)

	if user.Sections, err = helpers.DecodeJSONList(sections); err != nil {
		return nil, err
	}
	if user.Courses, err = helpers.DecodeJSONList(courses); err != nil {
		return nil, err
	}
	if user.YearLevels, err = helpers.DecodeJSONList(yearLvls); err != nil {
		return nil, err
	}
	return &user, nil
}
