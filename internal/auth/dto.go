package auth

import (
	"github.com/angelmondragon/marketplace-backend/internal/users"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (r RegisterRequest) Validate() error {
	errs := validation.Errors{}
	errs.Check(validation.IsEmail(r.Email), "email", "Invalid email address")
	errs.Check(len(r.Password) >= minPasswordLength, "password", "Password must be at least 8 characters long")
	errs.Check(validation.MinLen(r.FirstName, 1), "firstName", "First name is required")
	errs.Check(validation.MinLen(r.LastName, 1), "lastName", "Last name is required")
	return errs.Err()
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() error {
	errs := validation.Errors{}
	errs.Check(validation.IsEmail(r.Email), "email", "Invalid email address")
	errs.Check(r.Password != "", "password", "Password is required")
	return errs.Err()
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	User  *users.UserDTO `json:"user"`
	Token string         `json:"token"`
}
