package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/events"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// CommentService manages the append-only note trail. Comments are
// never updated or deleted.
type CommentService struct {
	comments   repository.CommentRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// CommentDependencies bundles collaborators.
type CommentDependencies struct {
	CommentRepo repository.CommentRepository
	TicketRepo  repository.TicketRepository
	Dispatcher  events.Dispatcher
}

// NewCommentService creates the service.
func NewCommentService(deps CommentDependencies) *CommentService {
	return &CommentService{
		comments:   deps.CommentRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Add appends a comment to a ticket. isAdmin defaults to false for
// requester comments; the referenced ticket must exist.
func (s *CommentService) Add(ctx context.Context, ticketID int64, content string, isAdmin bool) (*domain.Comment, error) {
	if ticketID == 0 || strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("ticket_id and content are required", nil)
	}

	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	comment := &domain.Comment{
		TicketID: ticketID,
		Content:  content,
		IsAdmin:  isAdmin,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCommentAdded,
			TicketID:  ticketID,
			Timestamp: time.Now(),
			Payload: events.CommentAddedPayload{
				CommentID: comment.ID,
				IsAdmin:   comment.IsAdmin,
			},
		})
	}
	return comment, nil
}

// ListByTicket returns a ticket's comments newest first.
func (s *CommentService) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Comment, error) {
	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return comments, nil
}
