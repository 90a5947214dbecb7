package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/servicedesk/support-desk/internal/domain"
	"github.com/servicedesk/support-desk/internal/events"
	"github.com/servicedesk/support-desk/internal/payment"
	"github.com/servicedesk/support-desk/internal/repository"
	apperrors "github.com/servicedesk/support-desk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: payment-gated creation,
// role-scoped queries, audited mutations, and the comment thread.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	activities repository.ActivityRepository
	pending    repository.PendingTicketRepository
	gateway    payment.Gateway
	dispatcher events.Dispatcher
	currency   string
	pendingTTL time.Duration
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CommentRepo  repository.CommentRepository
	ActivityRepo repository.ActivityRepository
	PendingRepo  repository.PendingTicketRepository
	Gateway      payment.Gateway
	Dispatcher   events.Dispatcher
	Currency     string
	PendingTTL   time.Duration
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	currency := deps.Currency
	if currency == "" {
		currency = "INR"
	}
	ttl := deps.PendingTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		activities: deps.ActivityRepo,
		pending:    deps.PendingRepo,
		gateway:    deps.Gateway,
		dispatcher: deps.Dispatcher,
		currency:   currency,
		pendingTTL: ttl,
	}
}

// TicketDraftInput describes a ticket submission before payment.
type TicketDraftInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// Quote is the payment order handed back to the checkout widget.
type Quote struct {
	OrderID      string
	KeyID        string
	Amount       int64
	Currency     string
	Price        int64
	ResponseTime time.Duration
}

// ConfirmInput carries the checkout callback needed to finalize a ticket.
type ConfirmInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// QuoteTicket validates a draft, prices it from the priority table, opens a
// gateway order, and parks the draft until payment confirmation. No ticket
// row is written here.
func (s *TicketService) QuoteTicket(ctx context.Context, user *domain.User, input TicketDraftInput) (*Quote, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description are required", nil)
	}
	category := input.Category
	if category == "" {
		category = domain.TicketCategoryTechnical
	}
	if !domain.ValidCategory(category) {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	quote := domain.QuoteForPriority(priority)
	amount := quote.Price * domain.SubunitMultiplier
	receipt := "tkt_" + uuid.NewString()

	order, err := s.gateway.CreateOrder(ctx, amount, s.currency, receipt)
	if err != nil {
		return nil, apperrors.NewPaymentError("unable to create payment order", map[string]any{"reason": err.Error()})
	}

	draft := &domain.TicketDraft{
		UserID:      user.ID,
		UserEmail:   user.Email,
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		OrderID:     order.ID,
		Amount:      quote.Price,
		Currency:    s.currency,
		CreatedAt:   time.Now(),
	}
	if err := s.pending.Save(ctx, draft, s.pendingTTL); err != nil {
		return nil, apperrors.MapError(err)
	}

	return &Quote{
		OrderID:      order.ID,
		KeyID:        s.gateway.KeyID(),
		Amount:       amount,
		Currency:     s.currency,
		Price:        quote.Price,
		ResponseTime: quote.ResponseTime,
	}, nil
}

// ConfirmTicket verifies the gateway signature for a pending draft and only
// then persists the ticket. A failed verification keeps the draft so the
// user can retry checkout.
func (s *TicketService) ConfirmTicket(ctx context.Context, user *domain.User, input ConfirmInput) (*domain.Ticket, error) {
	if input.OrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return nil, apperrors.NewValidationError("order_id, payment_id, signature required", nil)
	}

	draft, err := s.pending.Get(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return nil, apperrors.NewNotFound("pending ticket", map[string]any{"order_id": input.OrderID})
		}
		return nil, apperrors.MapError(err)
	}
	if draft.UserID != user.ID {
		return nil, apperrors.NewForbidden("access denied")
	}

	if !s.gateway.VerifySignature(input.OrderID, input.PaymentID, input.Signature) {
		return nil, apperrors.NewPaymentError("payment verification failed", map[string]any{"order_id": input.OrderID})
	}

	ticket := &domain.Ticket{
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
		Priority:    draft.Priority,
		Status:      domain.TicketStatusOpen,
		UserID:      draft.UserID,
		UserEmail:   draft.UserEmail,
		AssignedTo:  nil,
		Payment: &domain.PaymentRecord{
			PaymentID: input.PaymentID,
			OrderID:   input.OrderID,
			Amount:    draft.Amount,
			Currency:  draft.Currency,
			Status:    domain.PaymentStatusPaid,
			PaidAt:    time.Now(),
		},
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	_ = s.pending.Delete(ctx, input.OrderID)

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketCreated,
		TicketID:   ticket.ID,
		ActorEmail: user.Email,
		Payload: events.TicketCreatedPayload{
			Title:     ticket.Title,
			Priority:  ticket.Priority,
			Category:  ticket.Category,
			Amount:    ticket.Payment.Amount,
			Currency:  ticket.Payment.Currency,
			PaymentID: ticket.Payment.PaymentID,
		},
	})
	return ticket, nil
}

// ListUserTickets returns the caller's tickets, newest first.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAllTickets returns every ticket for the admin view, newest first.
func (s *TicketService) ListAllTickets(ctx context.Context, admin *domain.User) ([]domain.Ticket, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket with its comment thread. A ticket is visible to
// its filer and to admins only.
func (s *TicketService) GetTicket(ctx context.Context, caller *domain.User, ticketID string) (*domain.Ticket, []domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	if ticket.UserID != caller.ID && !caller.IsAdmin() {
		return nil, nil, apperrors.NewForbidden("access denied")
	}
	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return ticket, comments, nil
}

// UpdateStatus moves a ticket through the transition table, refreshes
// updated_at, and appends exactly one audit activity carrying the diff.
// A non-empty comment is folded into the ticket's comment thread.
func (s *TicketService) UpdateStatus(ctx context.Context, admin *domain.User, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTransition(ticket.Status, newStatus); err != nil {
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	ticket.Status = newStatus
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	details := map[string]any{
		"status": map[string]any{"old": oldStatus, "new": newStatus},
	}
	if err := s.recordActivity(ctx, admin.Email, ticket.ID, details); err != nil {
		return nil, err
	}
	if err := s.appendAdminComment(ctx, admin, ticket.ID, comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketStatusChanged,
		TicketID:   ticket.ID,
		ActorEmail: admin.Email,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return ticket, nil
}

// AssignInput describes an assignment mutation.
type AssignInput struct {
	AssignedTo string
	Status     domain.TicketStatus
	Comment    string
}

// Assign sets the ticket's agent (and optionally status), appends one audit
// activity for the mutation, and folds a non-empty comment into the thread.
func (s *TicketService) Assign(ctx context.Context, admin *domain.User, ticketID string, input AssignInput) (*domain.Ticket, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	assignedTo := strings.TrimSpace(input.AssignedTo)
	if assignedTo == "" {
		return nil, apperrors.NewValidationError("assigned_to required", nil)
	}

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	details := map[string]any{}
	oldAssignee := ""
	if ticket.AssignedTo != nil {
		oldAssignee = *ticket.AssignedTo
	}
	if oldAssignee != assignedTo {
		details["assignedTo"] = map[string]any{"old": oldAssignee, "new": assignedTo}
	}

	oldStatus := ticket.Status
	if input.Status != "" && input.Status != ticket.Status {
		if !domain.ValidStatus(input.Status) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": input.Status})
		}
		if err := domain.CheckTransition(ticket.Status, input.Status); err != nil {
			return nil, apperrors.MapError(err)
		}
		ticket.Status = input.Status
		details["status"] = map[string]any{"old": oldStatus, "new": input.Status}
	}

	ticket.AssignedTo = &assignedTo
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if len(details) > 0 {
		if err := s.recordActivity(ctx, admin.Email, ticket.ID, details); err != nil {
			return nil, err
		}
	}
	if err := s.appendAdminComment(ctx, admin, ticket.ID, input.Comment); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventTicketAssigned,
		TicketID:   ticket.ID,
		ActorEmail: admin.Email,
		Payload: events.TicketAssignedPayload{
			AssignedTo: assignedTo,
			Status:     ticket.Status,
		},
	})
	return ticket, nil
}

// AddComment appends a message to a ticket's thread. Commenting closes with
// the ticket: resolved and closed tickets reject new comments.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, body string) (*domain.Comment, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("comment required", nil)
	}

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.UserID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("access denied")
	}
	if ticket.Status == domain.TicketStatusResolved || ticket.Status == domain.TicketStatusClosed {
		return nil, apperrors.NewConflict("ticket no longer accepts comments", map[string]any{"status": ticket.Status})
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		Body:     trimmed,
		IsAdmin:  actor.IsAdmin(),
	}
	if actor.IsAdmin() {
		comment.Author = domain.AdminAuthorName
		email := actor.Email
		comment.AuthorEmail = &email
	} else {
		comment.Author = commentAuthor(actor)
		email := actor.Email
		comment.AuthorEmail = &email
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCommentAdded,
		TicketID:   ticket.ID,
		ActorEmail: actor.Email,
		Payload: events.CommentAddedPayload{
			CommentID:   comment.ID,
			IsAdmin:     comment.IsAdmin,
			BodyPreview: bodyPreview(comment.Body, 120),
		},
	})
	return comment, nil
}

// ListActivities returns a ticket's audit trail, most recent first.
func (s *TicketService) ListActivities(ctx context.Context, admin *domain.User, ticketID string) ([]domain.Activity, error) {
	if !admin.IsAdmin() {
		return nil, apperrors.NewForbidden("admin required")
	}
	if _, err := s.loadTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	activities, err := s.activities.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return activities, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) recordActivity(ctx context.Context, actorEmail, ticketID string, details map[string]any) error {
	activity := &domain.Activity{
		TicketID:   ticketID,
		Action:     domain.ActivityStatusUpdate,
		Details:    details,
		ActorEmail: actorEmail,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *TicketService) appendAdminComment(ctx context.Context, admin *domain.User, ticketID, comment string) error {
	trimmed := strings.TrimSpace(comment)
	if trimmed == "" {
		return nil
	}
	email := admin.Email
	record := &domain.Comment{
		TicketID:    ticketID,
		Author:      domain.AdminAuthorName,
		AuthorEmail: &email,
		IsAdmin:     true,
		Body:        trimmed,
	}
	if err := s.comments.Create(ctx, record); err != nil {
		return apperrors.MapError(err)
	}
	return nil
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

func commentAuthor(user *domain.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.Email
}

func bodyPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
