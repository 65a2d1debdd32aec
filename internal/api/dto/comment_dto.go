package dto

import (
	"time"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
)

// CreateCommentRequest appends a note to a ticket. isAdmin defaults to
// false when omitted.
type CreateCommentRequest struct {
	TicketID int64  `json:"ticket_id" validate:"required"`
	Content  string `json:"content" validate:"required"`
	IsAdmin  *bool  `json:"isAdmin"`
}

// CommentResponse is one note on the trail.
type CommentResponse struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	Content   string    `json:"content"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"created_at"`
}

// FromComment maps a domain comment.
func FromComment(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TicketID:  c.TicketID,
		Content:   c.Content,
		IsAdmin:   c.IsAdmin,
		CreatedAt: c.CreatedAt,
	}
}

// FromComments maps a slice of comments.
func FromComments(comments []domain.Comment) []CommentResponse {
	items := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, FromComment(&comments[i]))
	}
	return items
}
