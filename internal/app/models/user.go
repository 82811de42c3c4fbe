package models

import (
	"time"
)

// Role is the account type stored in users.role
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User defines the user model based on the 'users' table.
// Student rows use Course, Section and StudentYearLevel; teacher rows use the list fields.
type User struct {
	ID               int64     `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Password         string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role             Role      `json:"role" db:"role"`
	Course           *string   `json:"course" db:"course"`
	Section          *string   `json:"section" db:"section"`
	Sections         []string  `json:"sections" db:"sections"`
	Courses          []string  `json:"courses" db:"courses"`
	YearLevels       []string  `json:"yearLevel" db:"year_levels"`
	StudentYearLevel *string   `json:"studentYearLevel" db:"student_year_level"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
}
