package seed

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/pkg/auth"
)

// DefaultPassword is the development password of every seeded account
const DefaultPassword = "1234"

// CredentialUpserter stores users, replacing the password of an existing email
type CredentialUpserter interface {
	UpsertCredentials(ctx context.Context, users []*models.User) error
}

var defaultAccounts = []struct {
	name  string
	email string
	role  models.Role
}{
	{name: "Admin User", email: "admin@example.com", role: models.RoleAdmin},
	{name: "Teacher User", email: "teacher@example.com", role: models.RoleTeacher},
	{name: "Student User", email: "student@example.com", role: models.RoleStudent},
}

// DefaultUsers returns one account per role, with the password already hashed
func DefaultUsers(password string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(defaultAccounts))
	for _, acc := range defaultAccounts {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password for %s: %w", acc.email, err)
		}
		users = append(users, &models.User{
			Name:     acc.name,
			Email:    acc.email,
			Password: hash,
			Role:     acc.role,
		})
	}
	return users, nil
}

// CreateDefaultUsers upserts the development accounts. Existing accounts keep
// their profile and get their password reset to DefaultPassword.
func CreateDefaultUsers(ctx context.Context, store CredentialUpserter, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default users...")

	users, err := DefaultUsers(DefaultPassword)
	if err != nil {
		return err
	}
	if err := store.UpsertCredentials(ctx, users); err != nil {
		lgr.Error().Err(err).Msg("Error seeding default users")
		return err
	}

	for _, u := range users {
		lgr.Info().Str("email", u.Email).Str("role", string(u.Role)).Msg("Default user ready")
	}
	return nil
}
