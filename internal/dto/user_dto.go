package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type NewUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r NewUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email, validation.Length(0, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 72)),
		validation.Field(&r.Name, validation.Length(0, 120)),
	)
}

// UpdateUserRequest is a partial patch: nil fields leave the stored values
// untouched.
type UpdateUserRequest struct {
	Email              *string `json:"email"`
	Password           *string `json:"password"`
	Name               *string `json:"name"`
	Role               *string `json:"role"`
	AccountExpired     *bool   `json:"accountExpired"`
	AccountLocked      *bool   `json:"accountLocked"`
	CredentialsExpired *bool   `json:"credentialsExpired"`
	Disabled           *bool   `json:"disabled"`
}

func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, is.Email, validation.Length(0, 200)),
		validation.Field(&r.Password, validation.Length(1, 72)),
		validation.Field(&r.Name, validation.Length(0, 120)),
		validation.Field(&r.Role, validation.In("USER", "ADMIN")),
	)
}

type UserResponse struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type NewProjectRequest struct {
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
}

func (r NewProjectRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProjectID, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
	)
}

type ProjectResponse struct {
	ProjectID string `json:"projectId"`
	UserID    uint64 `json:"userId"`
	Name      string `json:"name"`
}
