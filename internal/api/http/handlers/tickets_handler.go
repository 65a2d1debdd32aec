package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kam-ticket/helpdesk-service/internal/api/dto"
	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/service"
	"github.com/kam-ticket/helpdesk-service/internal/storage"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
	files       storage.FileStore
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, assignments *service.AssignmentService, files storage.FileStore) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, assignments: assignments, files: files}
}

// CreateTicket POST /tickets. Accepts multipart form with an optional
// image file.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	var image *string
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			return apperrors.NewValidationError("unreadable image upload", nil)
		}
		defer file.Close()
		stored, err := h.files.Save(fileHeader.Filename, file)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		image = &stored
	}

	ticket, err := h.tickets.CreateTicket(c.Context(), service.TicketCreateInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Location:         req.Location,
		Department:       req.Department,
		Category:         req.Category,
		SubCategory:      req.SubCategory,
		OtherSubCategory: req.OtherSubCategory,
		Title:            req.Title,
		Details:          req.Details,
		Image:            image,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Ticket submitted successfully!",
		"ticketId": ticket.ID,
	})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{}
	if status := c.Query("status"); status != "" {
		st := domain.TicketStatus(status)
		if !domain.ValidStatus(st) {
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": status})
		}
		filter.Status = &st
	}
	if email := c.Query("email"); email != "" {
		filter.Email = &email
	}
	if c.QueryBool("unassigned") {
		filter.Unassigned = true
	}

	tickets, err := h.tickets.ListTickets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// RecentTickets GET /tickets/recent.
func (h *TicketsHandler) RecentTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.RecentTickets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// UnresolvedTickets GET /tickets/unresolved.
func (h *TicketsHandler) UnresolvedTickets(c *fiber.Ctx) error {
	tickets, err := h.tickets.UnresolvedUnassigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTickets(tickets))
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromTicket(ticket))
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted successfully!"})
}

// UpdateStatus PUT /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	ticket, err := h.tickets.SetStatus(c.Context(), id, domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket status updated.", "ticket": dto.FromTicket(ticket)})
}

// ResolveTicket PUT /tickets/:id/resolve.
func (h *TicketsHandler) ResolveTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if _, err := h.tickets.Resolve(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket marked as Resolved successfully!"})
}

// PendingTicket PUT /tickets/:id/pending.
func (h *TicketsHandler) PendingTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if _, err := h.tickets.MarkPending(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket marked as Pending successfully!"})
}

// AssignTicket PUT /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if err := h.assignments.Assign(c.Context(), id, req.AssignedTo); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "User assigned to ticket successfully!"})
}

// ReassignTicket PUT /tickets/:id/reassign.
func (h *TicketsHandler) ReassignTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.ReassignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if err := h.assignments.Reassign(c.Context(), id, req.NewAssignedTo); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket reassigned successfully!"})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
