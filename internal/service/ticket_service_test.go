package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicedesk/support-desk/internal/domain"
	apperrors "github.com/servicedesk/support-desk/pkg/util"
)

type fixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	activities *fakeActivityRepo
	pending    *fakePendingRepo
	gateway    *fakeGateway
}

func newFixture() *fixture {
	tickets := newFakeTicketRepo()
	comments := &fakeCommentRepo{}
	activities := &fakeActivityRepo{}
	pending := newFakePendingRepo()
	gateway := &fakeGateway{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		CommentRepo:  comments,
		ActivityRepo: activities,
		PendingRepo:  pending,
		Gateway:      gateway,
		Currency:     "INR",
		PendingTTL:   30 * time.Minute,
	})
	return &fixture{
		service:    svc,
		tickets:    tickets,
		comments:   comments,
		activities: activities,
		pending:    pending,
		gateway:    gateway,
	}
}

func endUser() *domain.User {
	return &domain.User{ID: "user-1", Name: "Aditya", Email: "aditya@example.com", Role: domain.RoleUser}
}

func adminUser() *domain.User {
	return &domain.User{ID: "admin-1", Name: "Admin", Email: "admin@servicedesk.com", Role: domain.RoleAdmin}
}

func (f *fixture) createTicket(t *testing.T, user *domain.User, priority domain.TicketPriority) *domain.Ticket {
	t.Helper()
	quote, err := f.service.QuoteTicket(context.Background(), user, TicketDraftInput{
		Title:       "Cannot log in",
		Description: "Error 500 on login page",
		Category:    domain.TicketCategoryTechnical,
		Priority:    priority,
	})
	require.NoError(t, err)
	ticket, err := f.service.ConfirmTicket(context.Background(), user, ConfirmInput{
		OrderID:   quote.OrderID,
		PaymentID: "pay_123",
		Signature: validSignature(quote.OrderID, "pay_123"),
	})
	require.NoError(t, err)
	return ticket
}

func TestQuoteTicketRejectsBlankFields(t *testing.T) {
	f := newFixture()

	_, err := f.service.QuoteTicket(context.Background(), endUser(), TicketDraftInput{
		Title:       "   ",
		Description: "something broke",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	// validation failures touch neither the gateway nor any store
	assert.Zero(t, f.gateway.orderCalls)
	assert.Empty(t, f.pending.drafts)
	assert.Empty(t, f.tickets.tickets)
}

func TestQuoteDoesNotCreateTicket(t *testing.T) {
	f := newFixture()

	quote, err := f.service.QuoteTicket(context.Background(), endUser(), TicketDraftInput{
		Title:       "Billing issue",
		Description: "Charged twice",
		Category:    domain.TicketCategoryBilling,
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(299), quote.Price)
	assert.Equal(t, int64(29900), quote.Amount)
	assert.Equal(t, "INR", quote.Currency)
	assert.Empty(t, f.tickets.tickets, "no ticket before payment confirmation")
	assert.Len(t, f.pending.drafts, 1)
}

func TestConfirmTicketScenarioUrgent(t *testing.T) {
	f := newFixture()
	user := endUser()

	quote, err := f.service.QuoteTicket(context.Background(), user, TicketDraftInput{
		Title:       "Cannot log in",
		Description: "Error 500 on login page",
		Category:    domain.TicketCategoryTechnical,
		Priority:    domain.TicketPriorityUrgent,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(499), quote.Price)
	assert.Equal(t, time.Hour, quote.ResponseTime)

	ticket, err := f.service.ConfirmTicket(context.Background(), user, ConfirmInput{
		OrderID:   quote.OrderID,
		PaymentID: "pay_123",
		Signature: validSignature(quote.OrderID, "pay_123"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.AssignedTo)
	assert.Equal(t, user.ID, ticket.UserID)
	require.NotNil(t, ticket.Payment)
	assert.Equal(t, "pay_123", ticket.Payment.PaymentID)
	assert.Equal(t, int64(499), ticket.Payment.Amount)
	assert.Equal(t, "INR", ticket.Payment.Currency)
	assert.Equal(t, domain.PaymentStatusPaid, ticket.Payment.Status)

	// draft consumed
	assert.Empty(t, f.pending.drafts)
}

func TestConfirmTicketRejectsForgedSignature(t *testing.T) {
	f := newFixture()
	user := endUser()

	quote, err := f.service.QuoteTicket(context.Background(), user, TicketDraftInput{
		Title:       "Cannot log in",
		Description: "Error 500 on login page",
	})
	require.NoError(t, err)

	_, err = f.service.ConfirmTicket(context.Background(), user, ConfirmInput{
		OrderID:   quote.OrderID,
		PaymentID: "pay_123",
		Signature: "forged",
	})
	require.Error(t, err)
	assert.Equal(t, "PAYMENT_FAILED", apperrors.ToDomainError(err).Code)
	assert.Empty(t, f.tickets.tickets, "forged callback must not create a ticket")
	assert.Len(t, f.pending.drafts, 1, "draft kept for retry")
}

func TestConfirmTicketRejectsForeignDraft(t *testing.T) {
	f := newFixture()
	owner := endUser()

	quote, err := f.service.QuoteTicket(context.Background(), owner, TicketDraftInput{
		Title:       "Account locked",
		Description: "Too many attempts",
	})
	require.NoError(t, err)

	other := &domain.User{ID: "user-2", Email: "mallory@example.com", Role: domain.RoleUser}
	_, err = f.service.ConfirmTicket(context.Background(), other, ConfirmInput{
		OrderID:   quote.OrderID,
		PaymentID: "pay_999",
		Signature: validSignature(quote.OrderID, "pay_999"),
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestListUserTicketsScopedToOwner(t *testing.T) {
	f := newFixture()
	alice := &domain.User{ID: "user-a", Email: "alice@example.com", Role: domain.RoleUser}
	bob := &domain.User{ID: "user-b", Email: "bob@example.com", Role: domain.RoleUser}

	f.createTicket(t, alice, domain.TicketPriorityLow)
	f.createTicket(t, bob, domain.TicketPriorityMedium)
	f.createTicket(t, alice, domain.TicketPriorityHigh)

	tickets, err := f.service.ListUserTickets(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.Equal(t, alice.ID, ticket.UserID)
	}
	// newest first
	assert.True(t, !tickets[0].CreatedAt.Before(tickets[1].CreatedAt))
}

func TestGetTicketOwnershipAndAdminAccess(t *testing.T) {
	f := newFixture()
	owner := endUser()
	ticket := f.createTicket(t, owner, domain.TicketPriorityMedium)

	_, _, err := f.service.GetTicket(context.Background(), owner, ticket.ID)
	require.NoError(t, err)

	_, _, err = f.service.GetTicket(context.Background(), adminUser(), ticket.ID)
	require.NoError(t, err)

	stranger := &domain.User{ID: "user-x", Email: "x@example.com", Role: domain.RoleUser}
	_, _, err = f.service.GetTicket(context.Background(), stranger, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestUpdateStatusAppendsActivityAndRefreshesUpdatedAt(t *testing.T) {
	f := newFixture()
	ticket := f.createTicket(t, endUser(), domain.TicketPriorityMedium)
	createdUpdatedAt := ticket.UpdatedAt

	updated, err := f.service.UpdateStatus(context.Background(), adminUser(), ticket.ID, domain.TicketStatusInProgress, "")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	assert.True(t, updated.UpdatedAt.After(createdUpdatedAt))

	activities, err := f.service.ListActivities(context.Background(), adminUser(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActivityStatusUpdate, activities[0].Action)
	assert.Equal(t, "admin@servicedesk.com", activities[0].ActorEmail)

	diff, ok := activities[0].Details["status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, domain.TicketStatusOpen, diff["old"])
	assert.Equal(t, domain.TicketStatusInProgress, diff["new"])
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture()
	ticket := f.createTicket(t, endUser(), domain.TicketPriorityMedium)

	_, err := f.service.UpdateStatus(context.Background(), adminUser(), ticket.ID, domain.TicketStatusResolved, "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)

	// re-resolving an already-resolved ticket is likewise rejected
	_, err = f.service.UpdateStatus(context.Background(), adminUser(), ticket.ID, domain.TicketStatusInProgress, "")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), adminUser(), ticket.ID, domain.TicketStatusResolved, "")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), adminUser(), ticket.ID, domain.TicketStatusResolved, "")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)

	activities, err := f.service.ListActivities(context.Background(), adminUser(), ticket.ID)
	require.NoError(t, err)
	assert.Len(t, activities, 2, "rejected writes leave no audit entry")
}

func TestUpdateStatusRequiresAdmin(t *testing.T) {
	f := newFixture()
	user := endUser()
	ticket := f.createTicket(t, user, domain.TicketPriorityMedium)

	_, err := f.service.UpdateStatus(context.Background(), user, ticket.ID, domain.TicketStatusInProgress, "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestAssignScenario(t *testing.T) {
	f := newFixture()
	admin := adminUser()
	ticket := f.createTicket(t, endUser(), domain.TicketPriorityMedium)

	updated, err := f.service.Assign(context.Background(), admin, ticket.ID, AssignInput{
		AssignedTo: "Sarah Johnson",
		Status:     domain.TicketStatusInProgress,
		Comment:    "Looking into it",
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "Sarah Johnson", *updated.AssignedTo)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)

	comments, err := f.comments.ListByTicket(context.Background(), ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsAdmin)
	assert.Equal(t, domain.AdminAuthorName, comments[0].Author)
	assert.Equal(t, "Looking into it", comments[0].Body)

	// assignment writes its own audit entry
	activities, err := f.service.ListActivities(context.Background(), admin, ticket.ID)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Contains(t, activities[0].Details, "assignedTo")
	assert.Contains(t, activities[0].Details, "status")
}

func TestAddCommentThreadOrder(t *testing.T) {
	f := newFixture()
	user := endUser()
	ticket := f.createTicket(t, user, domain.TicketPriorityMedium)

	first, err := f.service.AddComment(context.Background(), user, ticket.ID, "first message")
	require.NoError(t, err)
	second, err := f.service.AddComment(context.Background(), adminUser(), ticket.ID, "second message")
	require.NoError(t, err)

	_, comments, err := f.service.GetTicket(context.Background(), user, ticket.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	assert.False(t, comments[0].IsAdmin)
	assert.True(t, comments[1].IsAdmin)
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture()
	user := endUser()
	ticket := f.createTicket(t, user, domain.TicketPriorityMedium)

	_, err := f.service.AddComment(context.Background(), user, ticket.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestAddCommentRejectedOnceResolved(t *testing.T) {
	f := newFixture()
	user := endUser()
	admin := adminUser()
	ticket := f.createTicket(t, user, domain.TicketPriorityMedium)

	_, err := f.service.UpdateStatus(context.Background(), admin, ticket.ID, domain.TicketStatusInProgress, "")
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), admin, ticket.ID, domain.TicketStatusResolved, "")
	require.NoError(t, err)

	_, err = f.service.AddComment(context.Background(), user, ticket.ID, "are you still there?")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}
