package models

import "time"

// User represents a row in the PostgreSQL users table.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // never serialize
	CreatedAt time.Time `json:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetRequest is the JSON body for POST /api/auth/reset/request.
type ResetRequest struct {
	Username string `json:"username"`
}

// ResetConfirmRequest is the JSON body for POST /api/auth/reset/confirm.
type ResetConfirmRequest struct {
	Code            string `json:"code"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
