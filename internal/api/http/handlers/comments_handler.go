package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kam-ticket/helpdesk-service/internal/api/dto"
	"github.com/kam-ticket/helpdesk-service/internal/service"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// CommentsHandler manages the comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(comments *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: comments}
}

// AddComment POST /comments.
func (h *CommentsHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	isAdmin := false
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}

	comment, err := h.comments.Add(c.Context(), req.TicketID, req.Content, isAdmin)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "Comment added successfully.",
		"commentId": comment.ID,
		"isAdmin":   comment.IsAdmin,
	})
}

// ListComments GET /comments/:ticket_id.
func (h *CommentsHandler) ListComments(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseInt(c.Params("ticket_id"), 10, 64)
	if err != nil || ticketID <= 0 {
		return apperrors.NewValidationError("invalid ticket id", map[string]any{"ticket_id": c.Params("ticket_id")})
	}
	comments, err := h.comments.ListByTicket(c.Context(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromComments(comments))
}
