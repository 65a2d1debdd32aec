package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kam-ticket/helpdesk-service/internal/config"
	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/events"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	"github.com/kam-ticket/helpdesk-service/internal/storage"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// TicketService coordinates the ticket lifecycle.
type TicketService struct {
	tickets    repository.TicketRepository
	files      storage.FileStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	uploads    config.UploadsConfig
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Files      storage.FileStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Uploads    config.UploadsConfig
}

// TicketCreateInput describes ticket creation payload. Image is the
// stored filename reference; the binary lives with the file store.
type TicketCreateInput struct {
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
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	Status     *domain.TicketStatus
	Email      *string
	Unassigned bool
	Limit      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		files:      deps.Files,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		uploads:    deps.Uploads,
	}
}

// CreateTicket stores a new submission. Every ticket starts Unresolved
// and unassigned.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	missing := map[string]any{}
	for field, value := range map[string]string{
		"name":    input.Name,
		"email":   input.Email,
		"title":   input.Title,
		"details": input.Details,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("name, email, title and details are required", missing)
	}

	ticket := &domain.Ticket{
		Name:             strings.TrimSpace(input.Name),
		Email:            strings.TrimSpace(input.Email),
		Phone:            input.Phone,
		Location:         input.Location,
		Department:       input.Department,
		Category:         input.Category,
		SubCategory:      input.SubCategory,
		OtherSubCategory: input.OtherSubCategory,
		Title:            strings.TrimSpace(input.Title),
		Details:          input.Details,
		Image:            input.Image,
		Status:           domain.TicketStatusUnresolved,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Email:      ticket.Email,
			Department: ticket.Department,
			Title:      ticket.Title,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter with image references
// rewritten into retrieval URLs.
func (s *TicketService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		Status:     filter.Status,
		Email:      filter.Email,
		Unassigned: filter.Unassigned,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	for i := range tickets {
		tickets[i].Image = s.ImageURL(tickets[i].Image)
	}
	return tickets, nil
}

// RecentTickets returns the five newest tickets.
func (s *TicketService) RecentTickets(ctx context.Context) ([]domain.Ticket, error) {
	return s.ListTickets(ctx, TicketListFilter{Limit: 5})
}

// UnresolvedUnassigned returns tickets awaiting triage.
func (s *TicketService) UnresolvedUnassigned(ctx context.Context) ([]domain.Ticket, error) {
	status := domain.TicketStatusUnresolved
	return s.ListTickets(ctx, TicketListFilter{Status: &status, Unassigned: true})
}

// DeleteTicket removes the row, then the stored image. File removal is
// best-effort: a storage failure is logged and never rolls back the
// delete.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}
	if ticket.Image != nil && s.files != nil {
		if err := s.files.Delete(*ticket.Image); err != nil {
			s.logger.Warn("failed to delete ticket image",
				zap.Int64("ticket_id", id),
				zap.String("image", *ticket.Image),
				zap.Error(err))
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
	})
	return nil
}

// SetStatus updates the lifecycle state. The operation is idempotent:
// re-applying a status only advances updated_at.
func (s *TicketService) SetStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewInvalidTransition("invalid ticket status", map[string]any{"status": status})
	}
	if err := s.tickets.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: id,
		Payload:  events.TicketStatusChangedPayload{NewStatus: status},
	})
	return ticket, nil
}

// Resolve marks a ticket Resolved.
func (s *TicketService) Resolve(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.SetStatus(ctx, id, domain.TicketStatusResolved)
}

// MarkPending marks a ticket Pending.
func (s *TicketService) MarkPending(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.SetStatus(ctx, id, domain.TicketStatusPending)
}

// ImageURL rewrites a stored filename into its public retrieval URL.
// Nil stays nil.
func (s *TicketService) ImageURL(image *string) *string {
	if image == nil || *image == "" {
		return nil
	}
	url := s.uploads.PublicURL + "/" + s.uploads.PathPart + "/" + *image
	return &url
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
