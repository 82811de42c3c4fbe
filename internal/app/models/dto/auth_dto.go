package dto

import "github.com/yigit/attendance/internal/app/models"

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the public part of the authenticated user
type LoginUser struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}
