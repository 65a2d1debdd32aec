package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusUnresolved TicketStatus = "Unresolved"
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusResolved   TicketStatus = "Resolved"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusUnresolved, TicketStatusPending, TicketStatusResolved:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID               int64
	Name             string
	Email            string
	Phone            *string
	Location         *string
	Department       *string
	Category         *string
	SubCategory      *string
	OtherSubCategory *string
	Title            string
	Details          string
	Image            *string
	Status           TicketStatus
	AssignedTo       *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
