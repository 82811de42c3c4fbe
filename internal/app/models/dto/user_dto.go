package dto

import "github.com/yigit/attendance/internal/app/models"

// CreateUserRequest represents the admin provisioning request
type CreateUserRequest struct {
	Name             string      `json:"name" binding:"required"`
	Email            string      `json:"email" binding:"required"`
	Password         string      `json:"password" binding:"required"`
	Role             models.Role `json:"role" binding:"required"`
	Course           *string     `json:"course"`
	Section          *string     `json:"section"`
	Sections         []string    `json:"sections"`
	Courses          []string    `json:"courses"`
	YearLevel        []string    `json:"yearLevel"`
	StudentYearLevel *string     `json:"studentYearLevel"`
}

// UpdateUserRequest is a partial update. Empty scalar identity fields are ignored;
// the Optional fields are applied whenever their key is present.
type UpdateUserRequest struct {
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Password         string             `json:"password"`
	Role             models.Role        `json:"role"`
	Course           Optional[string]   `json:"course"`
	Section          Optional[string]   `json:"section"`
	StudentYearLevel Optional[string]   `json:"studentYearLevel"`
	Sections         Optional[[]string] `json:"sections"`
	Courses          Optional[[]string] `json:"courses"`
	YearLevel        Optional[[]string] `json:"yearLevel"`
}

// UserCreatedResponse is returned after a user is provisioned
type UserCreatedResponse struct {
	Success bool  `json:"success"`
	UserID  int64 `json:"userId"`
}

// SeedResponse is returned by the development seed route
type SeedResponse struct {
	Seeded bool `json:"seeded"`
}
