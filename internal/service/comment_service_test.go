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

func newCommentFixture(t *testing.T) (*CommentService, *fakeTicketRepo, *recordingDispatcher) {
	t.Helper()
	tickets := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewCommentService(CommentDependencies{
		CommentRepo: newFakeCommentRepo(),
		TicketRepo:  tickets,
		Dispatcher:  dispatcher,
	})
	return svc, tickets, dispatcher
}

func TestAddComment_DefaultsToRequester(t *testing.T) {
	svc, tickets, dispatcher := newCommentFixture(t)
	ctx := context.Background()

	ticket := &domain.Ticket{Name: "n", Email: "n@x.com", Title: "t", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, ticket))

	comment, err := svc.Add(ctx, ticket.ID, "Any update on this?", false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comment.ID)
	assert.False(t, comment.IsAdmin)
	assert.False(t, comment.CreatedAt.IsZero())

	published := dispatcher.published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventCommentAdded, published[0].Type)
}

func TestAddComment_AdminFlagPersists(t *testing.T) {
	svc, tickets, _ := newCommentFixture(t)
	ctx := context.Background()

	ticket := &domain.Ticket{Name: "n", Email: "n@x.com", Title: "t", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, ticket))

	comment, err := svc.Add(ctx, ticket.ID, "We are on it.", true)
	require.NoError(t, err)
	assert.True(t, comment.IsAdmin)
}

func TestAddComment_Validation(t *testing.T) {
	svc, tickets, _ := newCommentFixture(t)
	ctx := context.Background()

	ticket := &domain.Ticket{Name: "n", Email: "n@x.com", Title: "t", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, ticket))

	var domainErr *apperrors.DomainError

	_, err := svc.Add(ctx, 0, "content", false)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)

	_, err = svc.Add(ctx, ticket.ID, "   ", false)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestAddComment_MissingTicket(t *testing.T) {
	svc, _, dispatcher := newCommentFixture(t)

	_, err := svc.Add(context.Background(), 42, "orphan", false)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
	assert.Empty(t, dispatcher.published())
}

func TestListByTicket_NewestFirst(t *testing.T) {
	svc, tickets, _ := newCommentFixture(t)
	ctx := context.Background()

	ticket := &domain.Ticket{Name: "n", Email: "n@x.com", Title: "t", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, ticket))
	other := &domain.Ticket{Name: "m", Email: "m@x.com", Title: "t2", Details: "d", Status: domain.TicketStatusUnresolved}
	require.NoError(t, tickets.Create(ctx, other))

	_, err := svc.Add(ctx, ticket.ID, "first", false)
	require.NoError(t, err)
	_, err = svc.Add(ctx, ticket.ID, "second", true)
	require.NoError(t, err)
	_, err = svc.Add(ctx, other.ID, "elsewhere", false)
	require.NoError(t, err)

	comments, err := svc.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "first", comments[1].Content)
}

func TestListByTicket_EmptyTrail(t *testing.T) {
	svc, _, _ := newCommentFixture(t)

	comments, err := svc.ListByTicket(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
