package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/models/dto"
	"github.com/yigit/attendance/internal/pkg/apperrors"
	"github.com/yigit/attendance/internal/pkg/auth"
)

func strPtr(s string) *string { return &s }

func TestCreateUserHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zerolog.Nop())

	id, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name:             "Ana",
		Email:            "ana@example.com",
		Password:         "secret",
		Role:             models.RoleStudent,
		Course:           strPtr("BSIT"),
		StudentYearLevel: strPtr("1st Year"),
	})
	require.NoError(t, err)

	created := store.users[id]
	require.NotNil(t, created)
	assert.NotEqual(t, "secret", created.Password)
	assert.True(t, auth.CheckPassword(created.Password, "secret"))
	assert.Equal(t, "BSIT", *created.Course)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), zerolog.Nop())

	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "Missing fields", err.Error())

	_, err = svc.CreateUser(context.Background(), &dto.CreateUserRequest{Name: "Ana", Email: "ana@example.com", Password: "x", Role: "principal"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestUpdateUserBuildsPartialUpdate(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: 4, Name: "Old"})
	svc := NewUserService(store, zerolog.Nop())

	req := &dto.UpdateUserRequest{
		Name:     "New",
		Email:    "",
		Course:   dto.Optional[string]{Set: true},
		Section:  dto.Some(""),
		Sections: dto.Some([]string{"1-A", "1-B"}),
		Courses:  dto.Some([]string{}),
	}
	require.NoError(t, svc.UpdateUser(context.Background(), 4, req))

	fields := store.lastUpdate
	assert.Equal(t, "New", fields["name"])
	assert.NotContains(t, fields, "email")
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "student_year_level")
	assert.Equal(t, (*string)(nil), fields["course"])
	assert.Equal(t, (*string)(nil), fields["section"])
	assert.Equal(t, `["1-A","1-B"]`, fields["sections"])
	assert.Contains(t, fields, "courses")
	assert.Nil(t, fields["courses"])
	assert.NotContains(t, fields, "year_levels")
}

func TestUpdateUserHashesNewPassword(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: 4})
	svc := NewUserService(store, zerolog.Nop())

	require.NoError(t, svc.UpdateUser(context.Background(), 4, &dto.UpdateUserRequest{Password: "n3w", Role: models.RoleAdmin}))

	hash, ok := store.lastUpdate["password"].(string)
	require.True(t, ok)
	assert.True(t, auth.CheckPassword(hash, "n3w"))
	assert.Equal(t, "admin", store.lastUpdate["role"])
}

func TestUpdateUserErrors(t *testing.T) {
	svc := NewUserService(newFakeUserStore(&models.User{ID: 4}), zerolog.Nop())

	err := svc.UpdateUser(context.Background(), 4, &dto.UpdateUserRequest{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrNoFieldsToUpdate)

	err = svc.UpdateUser(context.Background(), 4, &dto.UpdateUserRequest{Role: "janitor"})
	assert.ErrorIs(t, err, ErrInvalidRole)

	err = svc.UpdateUser(context.Background(), 77, &dto.UpdateUserRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestGetAndDeleteUser(t *testing.T) {
	store := newFakeUserStore(&models.User{ID: 1, Name: "Admin"}, &models.User{ID: 2, Name: "Teacher"})
	svc := NewUserService(store, zerolog.Nop())

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, svc.DeleteUser(context.Background(), 2))
	_, err = svc.GetUser(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 2), apperrors.ErrUserNotFound)
}

func TestSeedDefaultUsers(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store, zerolog.Nop())

	require.NoError(t, svc.SeedDefaultUsers(context.Background()))
	assert.Len(t, store.upserted, 3)
}
