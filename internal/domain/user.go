package domain

import "time"

// User is a staff account that can be assigned tickets.
type User struct {
	ID             int64
	Name           string
	Email          string
	PasswordHash   string
	Role           string
	Department     *string
	PhoneNumber    *string
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
