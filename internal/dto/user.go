package dto

import "github.com/noah-isme/hcw-deploy-api/internal/models"

// CreateUserRequest provisions an operator account.
type CreateUserRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	FullName string          `json:"full_name" validate:"required,max=200"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN COORDINATOR VIEWER"`
	Active   *bool           `json:"active"`
	Password string          `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest changes an operator's profile, role or status.
type UpdateUserRequest struct {
	FullName string          `json:"full_name" validate:"required,max=200"`
	Role     models.UserRole `json:"role" validate:"required,oneof=ADMIN COORDINATOR VIEWER"`
	Active   *bool           `json:"active"`
	Password *string         `json:"password" validate:"omitempty,min=8"`
}
