package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kam-ticket/helpdesk-service/internal/domain"
	"github.com/kam-ticket/helpdesk-service/internal/events"
	apperrors "github.com/kam-ticket/helpdesk-service/pkg/util"
)

func seedTicket(t *testing.T, repo *fakeTicketRepo, status domain.TicketStatus, assignedTo *int64) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Name:    "Seeder",
		Email:   "seed@example.com",
		Title:   "seed",
		Details: "seed",
		Status:  status,
	}
	require.NoError(t, repo.Create(context.Background(), ticket))
	if assignedTo != nil {
		require.NoError(t, repo.UpdateAssignee(context.Background(), ticket.ID, *assignedTo))
	}
	return ticket
}

func int64Ptr(v int64) *int64 { return &v }

func TestAssign_SetsAssigneeRegardlessOfState(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	ctx := context.Background()

	resolved := seedTicket(t, repo, domain.TicketStatusResolved, int64Ptr(3))

	// Assignment ignores both status and the current assignee.
	require.NoError(t, svc.Assign(ctx, resolved.ID, 7))

	stored, err := repo.GetByID(ctx, resolved.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, int64(7), *stored.AssignedTo)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketAssigned, published[0].Type)
}

func TestAssign_Idempotent(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo})
	ctx := context.Background()

	ticket := seedTicket(t, repo, domain.TicketStatusUnresolved, nil)

	require.NoError(t, svc.Assign(ctx, ticket.ID, 7))
	require.NoError(t, svc.Assign(ctx, ticket.ID, 7))

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), *stored.AssignedTo)
}

func TestAssign_TicketNotFound(t *testing.T) {
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: newFakeTicketRepo()})

	err := svc.Assign(context.Background(), 99, 7)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestReassign_OverwritesWhenUnresolvedAndAssigned(t *testing.T) {
	repo := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	ctx := context.Background()

	ticket := seedTicket(t, repo, domain.TicketStatusUnresolved, int64Ptr(3))

	require.NoError(t, svc.Reassign(ctx, ticket.ID, 8))

	stored, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), *stored.AssignedTo)

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTicketReassigned, published[0].Type)
	payload, ok := published[0].Payload.(events.TicketReassignedPayload)
	require.True(t, ok)
	require.NotNil(t, payload.PreviousAssignee)
	assert.Equal(t, int64(3), *payload.PreviousAssignee)
	assert.Equal(t, int64(8), payload.AssignedTo)
}

func TestReassign_RejectsUnassignedTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo})
	ctx := context.Background()

	ticket := seedTicket(t, repo, domain.TicketStatusUnresolved, nil)

	err := svc.Reassign(ctx, ticket.ID, 8)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

	stored, getErr := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, getErr)
	assert.Nil(t, stored.AssignedTo)
}

func TestReassign_RejectsNonUnresolvedTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: repo})
	ctx := context.Background()

	for _, status := range []domain.TicketStatus{domain.TicketStatusPending, domain.TicketStatusResolved} {
		ticket := seedTicket(t, repo, status, int64Ptr(3))

		err := svc.Reassign(ctx, ticket.ID, 8)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)

		stored, getErr := repo.GetByID(ctx, ticket.ID)
		require.NoError(t, getErr)
		assert.Equal(t, int64(3), *stored.AssignedTo, "assignee must stay untouched for %s", status)
	}
}

func TestReassign_TicketNotFound(t *testing.T) {
	svc := NewAssignmentService(AssignmentDependencies{TicketRepo: newFakeTicketRepo()})

	err := svc.Reassign(context.Background(), 99, 8)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
