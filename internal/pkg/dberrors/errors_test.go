package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", Message: "duplicate key"})
	col := &pgconn.PgError{Code: "42701", Message: `column "course" of relation "users" already exists`}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(dup))
	assert.True(t, IsDuplicateConstraintError(dup, "users_email_key"))
	assert.False(t, IsDuplicateConstraintError(dup, "unique_grade"))
	assert.True(t, IsDuplicateColumn(col))
	assert.False(t, IsDuplicateColumn(dup))
	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, `relation "grades" does not exist`,
		Message(fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "grades" does not exist`})))
}
