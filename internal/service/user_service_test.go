package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kam-ticket/helpdesk-service/internal/auth"
	"github.com/kam-ticket/helpdesk-service/internal/config"
	"github.com/kam-ticket/helpdesk-service/internal/domain"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

func newUserFixture(t *testing.T) (*UserService, *fakeUserRepo, *fakeTicketRepo, *fakeFileStore) {
	t.Helper()
	users := newFakeUserRepo()
	tickets := newFakeTicketRepo()
	files := &fakeFileStore{}
	svc := NewUserService(config.AuthConfig{BcryptCost: 4}, UserDependencies{
		UserRepo:   users,
		TicketRepo: tickets,
		Files:      files,
		Logger:     zap.NewNop(),
	})
	return svc, users, tickets, files
}

func TestCreateUser_PasswordDefaultsToEmail(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  "admin",
	})
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "dana@example.com"))
}

func TestCreateUser_Validation(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), UserCreateInput{Name: "Dana"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	assert.Contains(t, domainErr.Details, "email")
	assert.Contains(t, domainErr.Details, "role")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, UserCreateInput{Name: "Dana", Email: "dana@example.com", Role: "admin"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, UserCreateInput{Name: "Other", Email: "dana@example.com", Role: "user"})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestUpdateUser_ReplacesProfilePicture(t *testing.T) {
	svc, _, _, files := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserCreateInput{
		Name:           "Dana",
		Email:          "dana@example.com",
		Role:           "admin",
		ProfilePicture: strPtr("old.png"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, UserUpdateInput{
		Name:           "Dana L",
		Email:          "dana@example.com",
		Role:           "admin",
		ProfilePicture: strPtr("new.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new.png", *updated.ProfilePicture)
	assert.Equal(t, []string{"old.png"}, files.deleted)
}

func TestUpdateUser_KeepsPictureWhenOmitted(t *testing.T) {
	svc, _, _, files := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserCreateInput{
		Name:           "Dana",
		Email:          "dana@example.com",
		Role:           "admin",
		ProfilePicture: strPtr("keep.png"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, UserUpdateInput{
		Name:  "Dana L",
		Email: "dana@example.com",
		Role:  "admin",
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ProfilePicture)
	assert.Equal(t, "keep.png", *updated.ProfilePicture)
	assert.Empty(t, files.deleted)
}

func TestDeleteUser_ReleasesAssignedTickets(t *testing.T) {
	svc, _, tickets, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserCreateInput{Name: "Dana", Email: "dana@example.com", Role: "admin"})
	require.NoError(t, err)

	ticket := &domain.Ticket{Name: "n", Email: "n@x.com", Title: "t", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, ticket))
	require.NoError(t, tickets.UpdateAssignee(ctx, ticket.ID, user.ID))

	require.NoError(t, svc.Delete(ctx, user.ID))

	stored, err := tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AssignedTo)

	_, err = svc.Get(ctx, user.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, UserCreateInput{Name: "Dana", Email: "dana@example.com", Role: "admin"})
	require.NoError(t, err)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "fresh-secret"))

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.PasswordHash, "fresh-secret"))
}

func TestChangePassword_EmptyRejected(t *testing.T) {
	svc, _, _, _ := newUserFixture(t)

	err := svc.ChangePassword(context.Background(), 1, "")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}
