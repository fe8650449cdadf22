package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/validation"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

// UpdateProfileInput carries the optional profile fields a user may change.
type UpdateProfileInput struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
}

func (in UpdateProfileInput) Validate() error {
	errs := validation.Errors{}
	if in.Email != nil {
		errs.Check(validation.IsEmail(validation.NormalizeEmail(*in.Email)), "email", "Invalid email address")
	}
	if in.FirstName != nil {
		errs.Check(validation.MinLen(*in.FirstName, 1), "firstName", "First name is required")
	}
	if in.LastName != nil {
		errs.Check(validation.MinLen(*in.LastName, 1), "lastName", "Last name is required")
	}
	return errs.Err()
}

func (in UpdateProfileInput) columns() map[string]any {
	updates := map[string]any{}
	if in.Email != nil {
		updates["email"] = validation.NormalizeEmail(*in.Email)
	}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	return updates
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
	}
}
