package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/kam-ticket/helpdesk-service/internal/api/dto"
	"github.com/kam-ticket/helpdesk-service/internal/service"
	"github.com/kam-ticket/helpdesk-service/internal/storage"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// UsersHandler manages staff account endpoints.
type UsersHandler struct {
	users *service.UserService
	files storage.FileStore
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, files storage.FileStore) *UsersHandler {
	return &UsersHandler{users: users, files: files}
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUsers(users))
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.users.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// GetUserByEmail GET /users/email/:email.
func (h *UsersHandler) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	user, err := h.users.GetByEmail(c.Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromUser(user))
}

// CreateUser POST /users. Accepts a multipart profile_picture file.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	picture, err := h.storeProfilePicture(c)
	if err != nil {
		return err
	}

	user, err := h.users.Create(c.Context(), service.UserCreateInput{
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		Department:     req.Department,
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: picture,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"msg":             "User added successfully",
		"userId":          user.ID,
		"profile_picture": user.ProfilePicture,
	})
}

// UpdateUser PUT /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	picture, err := h.storeProfilePicture(c)
	if err != nil {
		return err
	}

	user, err := h.users.Update(c.Context(), id, service.UserUpdateInput{
		Name:           req.Name,
		Email:          req.Email,
		Role:           req.Role,
		Department:     req.Department,
		PhoneNumber:    req.PhoneNumber,
		ProfilePicture: picture,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"msg": "User updated successfully", "user": dto.FromUser(user)})
}

// DeleteUser DELETE /users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"msg": "User deleted successfully"})
}

// ChangePassword PUT /users/:id/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(req); err != nil {
		return err
	}
	if err := h.users.ChangePassword(c.Context(), id, req.Password); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"msg": "Password updated successfully"})
}

func (h *UsersHandler) storeProfilePicture(c *fiber.Ctx) (*string, error) {
	fileHeader, err := c.FormFile("profile_picture")
	if err != nil || fileHeader == nil {
		return nil, nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewValidationError("unreadable profile picture upload", nil)
	}
	defer file.Close()
	stored, err := h.files.Save(fileHeader.Filename, file)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &stored, nil
}

func userID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}
