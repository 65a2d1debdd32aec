package domain

import "time"

// Comment is an append-only note on a ticket. IsAdmin distinguishes
// staff replies from requester replies.
type Comment struct {
	ID        int64
	TicketID  int64
	Content   string
	IsAdmin   bool
	CreatedAt time.Time
}
