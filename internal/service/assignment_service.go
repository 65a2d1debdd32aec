package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/events"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// AssignmentService enforces assignment and reassignment rules.
// Assignment is permissive dispatch convenience; reassignment corrects
// an already-triaged ticket and is guarded.
type AssignmentService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Assign sets assigned_to unconditionally, regardless of current status
// or assignment state. Idempotent.
func (s *AssignmentService) Assign(ctx context.Context, ticketID, userID int64) error {
	if err := s.tickets.UpdateAssignee(ctx, ticketID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		Payload:  events.TicketAssignedPayload{AssignedTo: userID},
	})
	return nil
}

// Reassign overwrites assigned_to only while the ticket is Unresolved
// and already assigned. Any other state rejects with no mutation. The
// check and the write are separate round trips; concurrent reassigns
// can interleave (accepted weak-consistency behavior).
func (s *AssignmentService) Reassign(ctx context.Context, ticketID, newUserID int64) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.NewPersistenceError(err)
	}
	if ticket.Status != domain.TicketStatusUnresolved || ticket.AssignedTo == nil {
		return apperrors.NewInvalidTransition(
			"ticket cannot be reassigned: it must be unresolved and already assigned",
			map[string]any{"ticket_id": ticketID, "status": ticket.Status},
		)
	}
	if err := s.tickets.UpdateAssignee(ctx, ticketID, newUserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return apperrors.NewPersistenceError(err)
	}
	s.publish(ctx, events.Event{
		Type:     events.EventTicketReassigned,
		TicketID: ticketID,
		Payload: events.TicketReassignedPayload{
			PreviousAssignee: ticket.AssignedTo,
			AssignedTo:       newUserID,
		},
	})
	return nil
}

func (s *AssignmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}
