package dto

import (
	"time"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
)

// CreateTicketRequest is the submission payload. The image arrives as
// a multipart file, not a body field.
type CreateTicketRequest struct {
	Name             string  `json:"name" form:"name" validate:"required"`
	Email            string  `json:"email" form:"email" validate:"required,email"`
	Phone            *string `json:"phone" form:"phone"`
	Location         *string `json:"location" form:"location"`
	Department       *string `json:"department" form:"department"`
	Category         *string `json:"category" form:"category"`
	SubCategory      *string `json:"subCategory" form:"subCategory"`
	OtherSubCategory *string `json:"otherSubCategory" form:"otherSubCategory"`
	Title            string  `json:"title" form:"title" validate:"required"`
	Details          string  `json:"details" form:"details" validate:"required"`
}

// UpdateStatusRequest sets a ticket's lifecycle state.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AssignRequest assigns a ticket to a user.
type AssignRequest struct {
	AssignedTo int64 `json:"assigned_to" validate:"required"`
}

// ReassignRequest moves an assigned, unresolved ticket to another user.
type ReassignRequest struct {
	NewAssignedTo int64 `json:"new_assigned_to" validate:"required"`
}

// TicketResponse mirrors the stored ticket; image is the public
// retrieval URL where listing endpoints rewrite it.
type TicketResponse struct {
	ID               int64               `json:"id"`
	Name             string              `json:"name"`
	Email            string              `json:"email"`
	Phone            *string             `json:"phone"`
	Location         *string             `json:"location"`
	Department       *string             `json:"department"`
	Category         *string             `json:"category"`
	SubCategory      *string             `json:"subCategory"`
	OtherSubCategory *string             `json:"otherSubCategory"`
	Title            string              `json:"title"`
	Details          string              `json:"details"`
	Image            *string             `json:"image"`
	Status           domain.TicketStatus `json:"status"`
	AssignedTo       *int64              `json:"assigned_to"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               t.ID,
		Name:             t.Name,
		Email:            t.Email,
		Phone:            t.Phone,
		Location:         t.Location,
		Department:       t.Department,
		Category:         t.Category,
		SubCategory:      t.SubCategory,
		OtherSubCategory: t.OtherSubCategory,
		Title:            t.Title,
		Details:          t.Details,
		Image:            t.Image,
		Status:           t.Status,
		AssignedTo:       t.AssignedTo,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// FromTickets maps a slice of tickets.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}
