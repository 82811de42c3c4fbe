package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/auth"
	"github.com/yigit/attendance/internal/pkg/helpers"
	"github.com/yigit/attendance/internal/seed"
)

// ErrInvalidRole is returned for a role outside admin, teacher and student
var ErrInvalidRole = apperrors.NewValidationError("Invalid role. Must be admin, teacher, or student")

// UserService handles user provisioning and profile updates
type UserService struct {
	users  UserStore
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users UserStore, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
	}
}

// CreateUser provisions a user and returns the new id
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (int64, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Role == "" {
		return 0, apperrors.ErrMissingUserFields
	}
	if !req.Role.Valid() {
		return 0, ErrInvalidRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	id, err := s.users.Create(ctx, &models.User{
		Name:             req.Name,
		Email:            req.Email,
		Password:         hash,
		Role:             req.Role,
		Course:           req.Course,
		Section:          req.Section,
		Sections:         req.Sections,
		Courses:          req.Courses,
		YearLevels:       req.YearLevel,
		StudentYearLevel: req.StudentYearLevel,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("userID", id).Str("role", string(req.Role)).Msg("User created")
	return id, nil
}

// ListUsers returns every user
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// GetUser returns one user
func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateUser applies a partial update. Identity fields change only when non-empty;
// class fields change whenever their key was sent, blank values clearing them.
func (s *UserService) UpdateUser(ctx context.Context, id int64, req *dto.UpdateUserRequest) error {
	fields, err := s.updateFields(req)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	if err := s.users.Update(ctx, id, fields); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", id).Int("fields", len(fields)).Msg("User updated")
	return nil
}

func (s *UserService) updateFields(req *dto.UpdateUserRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}

	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		fields["password"] = hash
	}
	if req.Role != "" {
		if !req.Role.Valid() {
			return nil, ErrInvalidRole
		}
		fields["role"] = string(req.Role)
	}

	scalars := []struct {
		column string
		value  dto.Optional[string]
	}{
		{"course", req.Course},
		{"section", req.Section},
		{"student_year_level", req.StudentYearLevel},
	}
	for _, f := range scalars {
		if f.value.Set {
			fields[f.column] = helpers.NullIfEmpty(f.value.Value)
		}
	}

	lists := []struct {
		column string
		value  dto.Optional[[]string]
	}{
		{"sections", req.Sections},
		{"courses", req.Courses},
		{"year_levels", req.YearLevel},
	}
	for _, f := range lists {
		if !f.value.Set {
			continue
		}
		var items []string
		if f.value.Value != nil {
			items = *f.value.Value
		}
		encoded, err := helpers.JSONList(items)
		if err != nil {
			return nil, err
		}
		fields[f.column] = encoded
	}

	return fields, nil
}

// DeleteUser removes a user together with their attendance rows
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Msg("User deleted")
	return nil
}

// SeedDefaultUsers upserts the development admin, teacher and student accounts
func (s *UserService) SeedDefaultUsers(ctx context.Context) error {
	return seed.CreateDefaultUsers(ctx, s.users, s.logger)
}
