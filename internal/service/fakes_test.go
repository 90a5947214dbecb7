package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/servicedesk/support-desk/internal/domain"
	"github.com/servicedesk/support-desk/internal/payment"
	"github.com/servicedesk/support-desk/internal/repository"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = ticket.Status
	stored.AssignedTo = ticket.AssignedTo
	stored.Priority = ticket.Priority
	stored.UpdatedAt = stored.UpdatedAt.Add(time.Millisecond)
	ticket.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) ListByUser(_ context.Context, userID string) ([]domain.Ticket, error) {
	all, _ := r.ListAll(context.Background())
	var result []domain.Ticket
	for _, ticket := range all {
		if ticket.UserID == userID {
			result = append(result, ticket)
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) ListAll(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	// newest first, matching the repository's ORDER BY created_at DESC
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].CreatedAt.After(result[i].CreatedAt) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	return result, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []domain.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	return result, nil
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	seq        int
	activities []domain.Activity
}

func (r *fakeActivityRepo) Create(_ context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	activity.ID = fmt.Sprintf("activity-%d", r.seq)
	activity.CreatedAt = time.Now()
	r.activities = append(r.activities, *activity)
	return nil
}

func (r *fakeActivityRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Activity
	for i := len(r.activities) - 1; i >= 0; i-- {
		if r.activities[i].TicketID == ticketID {
			result = append(result, r.activities[i])
		}
	}
	return result, nil
}

type fakePendingRepo struct {
	mu     sync.Mutex
	drafts map[string]*domain.TicketDraft
}

func newFakePendingRepo() *fakePendingRepo {
	return &fakePendingRepo{drafts: make(map[string]*domain.TicketDraft)}
}

func (r *fakePendingRepo) Save(_ context.Context, draft *domain.TicketDraft, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *draft
	r.drafts[draft.OrderID] = &stored
	return nil
}

func (r *fakePendingRepo) Get(_ context.Context, orderID string) (*domain.TicketDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[orderID]
	if !ok {
		return nil, repository.ErrDraftNotFound
	}
	copied := *draft
	return &copied, nil
}

func (r *fakePendingRepo) Delete(_ context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, orderID)
	return nil
}

// fakeGateway accepts a single well-known signature per order/payment pair.
type fakeGateway struct {
	mu         sync.Mutex
	seq        int
	orderCalls int
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	g.orderCalls++
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.seq),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "sig:"+orderID+"|"+paymentID
}

func (g *fakeGateway) KeyID() string {
	return "rzp_test_key"
}

func validSignature(orderID, paymentID string) string {
	return "sig:" + orderID + "|" + paymentID
}
