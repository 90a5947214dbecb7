package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/servicedesk/support-desk/internal/domain"
)

// ErrDraftNotFound indicates the pending draft expired or never existed.
var ErrDraftNotFound = errors.New("pending ticket draft not found")

// PendingTicketRepository holds priced drafts between quoting and payment
// confirmation. Drafts expire after the configured TTL; a failed or
// dismissed payment leaves the draft in place so the user can retry.
type PendingTicketRepository interface {
	Save(ctx context.Context, draft *domain.TicketDraft, ttl time.Duration) error
	Get(ctx context.Context, orderID string) (*domain.TicketDraft, error)
	Delete(ctx context.Context, orderID string) error
}

type pendingTicketRepository struct {
	client *redis.Client
}

// NewPendingTicketRepository returns a Redis-backed implementation.
func NewPendingTicketRepository(client *redis.Client) PendingTicketRepository {
	return &pendingTicketRepository{client: client}
}

func draftKey(orderID string) string {
	return "pending_ticket:" + orderID
}

func (r *pendingTicketRepository) Save(ctx context.Context, draft *domain.TicketDraft, ttl time.Duration) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKey(draft.OrderID), payload, ttl).Err()
}

func (r *pendingTicketRepository) Get(ctx context.Context, orderID string) (*domain.TicketDraft, error) {
	payload, err := r.client.Get(ctx, draftKey(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	var draft domain.TicketDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (r *pendingTicketRepository) Delete(ctx context.Context, orderID string) error {
	return r.client.Del(ctx, draftKey(orderID)).Err()
}
