package dto

import (
	"time"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
)

// CreateUserRequest registers a staff account. The profile picture
// arrives as a multipart file.
type CreateUserRequest struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Email       string  `json:"email" form:"email" validate:"required,email"`
	Role        string  `json:"role" form:"role" validate:"required"`
	Department  *string `json:"department" form:"department" validate:"required"`
	PhoneNumber *string `json:"phone_number" form:"phone_number" validate:"required"`
}

// UpdateUserRequest edits a staff account.
type UpdateUserRequest struct {
	Name        string  `json:"name" form:"name" validate:"required"`
	Email       string  `json:"email" form:"email" validate:"required,email"`
	Role        string  `json:"role" form:"role" validate:"required"`
	Department  *string `json:"department" form:"department"`
	PhoneNumber *string `json:"phone_number" form:"phone_number"`
}

// ChangePasswordRequest sets a new password.
type ChangePasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Department     *string   `json:"department"`
	PhoneNumber    *string   `json:"phone_number"`
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FromUser maps a domain user, dropping credentials.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		Department:     u.Department,
		PhoneNumber:    u.PhoneNumber,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// FromUsers maps a slice of users.
func FromUsers(users []domain.User) []UserResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, FromUser(&users[i]))
	}
	return items
}
