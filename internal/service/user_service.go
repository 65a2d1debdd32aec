package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kam-ticket/helpdesk-service/internal/auth"
	"github.com/kam-ticket/helpdesk-service/internal/config"
	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/repository"
	"github.com/kam-ticket/helpdesk-service/internal/storage"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

// UserService manages staff accounts.
type UserService struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
	files   storage.FileStore
	logger  *zap.Logger
	cfg     config.AuthConfig
}

// UserDependencies bundles collaborators.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	TicketRepo repository.TicketRepository
	Files      storage.FileStore
	Logger     *zap.Logger
}

// UserCreateInput describes staff account creation payload.
type UserCreateInput struct {
	Name           string
	Email          string
	Role           string
	Department     *string
	PhoneNumber    *string
	ProfilePicture *string
}

// UserUpdateInput describes staff account update payload.
type UserUpdateInput struct {
	Name           string
	Email          string
	Role           string
	Department     *string
	PhoneNumber    *string
	ProfilePicture *string
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	return &UserService{
		users:   deps.UserRepo,
		tickets: deps.TicketRepo,
		files:   deps.Files,
		logger:  deps.Logger,
		cfg:     cfg,
	}
}

// List returns every staff account.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return users, nil
}

// Get fetches one account by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return user, nil
}

// GetByEmail fetches one account by email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.NewPersistenceError(err)
	}
	return user, nil
}

// Create adds a staff account. The initial password is the email
// address, bcrypt-hashed; staff change it on first login.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	missing := map[string]any{}
	for field, value := range map[string]string{
		"name":  input.Name,
		"email": input.Email,
		"role":  input.Role,
	} {
		if strings.TrimSpace(value) == "" {
			missing[field] = "required"
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidationError("name, email and role are required", missing)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("user already exists", map[string]any{"email": input.Email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewPersistenceError(err)
	}

	hashed, err := auth.HashPassword(input.Email, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(input.Email),
		PasswordHash:   hashed,
		Role:           input.Role,
		Department:     input.Department,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistenceError(err)
	}
	return user, nil
}

// Update edits an account. A new profile picture replaces the old one,
// whose file is removed best-effort.
func (s *UserService) Update(ctx context.Context, id int64, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldPicture := user.ProfilePicture
	user.Name = input.Name
	user.Email = input.Email
	user.Role = input.Role
	user.Department = input.Department
	user.PhoneNumber = input.PhoneNumber
	if input.ProfilePicture != nil {
		user.ProfilePicture = input.ProfilePicture
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.NewPersistenceError(err)
	}

	if input.ProfilePicture != nil && oldPicture != nil && *oldPicture != *input.ProfilePicture {
		s.removeFile(id, *oldPicture)
	}
	return user, nil
}

// Delete removes an account. Tickets assigned to the user are released
// back to the unassigned pool first, so no dangling references remain.
// The profile picture is removed best-effort.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tickets.ClearAssignee(ctx, id); err != nil {
		return apperrors.NewPersistenceError(err)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}

	if user.ProfilePicture != nil {
		s.removeFile(id, *user.ProfilePicture)
	}
	return nil
}

// ChangePassword sets a new bcrypt-hashed password.
func (s *UserService) ChangePassword(ctx context.Context, id int64, password string) error {
	if password == "" {
		return apperrors.NewValidationError("password is required", nil)
	}
	hashed, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, id, hashed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return apperrors.NewPersistenceError(err)
	}
	return nil
}

func (s *UserService) removeFile(userID int64, filename string) {
	if s.files == nil {
		return
	}
	if err := s.files.Delete(filename); err != nil {
		s.logger.Warn("failed to delete profile picture",
			zap.Int64("user_id", userID),
			zap.String("file", filename),
			zap.Error(err))
	}
}
