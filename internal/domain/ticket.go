package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketPriority enumerates urgency levels and drives pricing.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory classifies the request.
type TicketCategory string

const (
	TicketCategoryTechnical      TicketCategory = "technical"
	TicketCategoryBilling        TicketCategory = "billing"
	TicketCategoryAccount        TicketCategory = "account"
	TicketCategoryFeatureRequest TicketCategory = "feature-request"
	TicketCategoryOther          TicketCategory = "other"
)

// ValidPriority reports whether p is a known priority.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c TicketCategory) bool {
	switch c {
	case TicketCategoryTechnical, TicketCategoryBilling, TicketCategoryAccount,
		TicketCategoryFeatureRequest, TicketCategoryOther:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// PaymentStatusPaid is the only payment status the service records; there
// are no refunds.
const PaymentStatusPaid = "paid"

// PaymentRecord captures the verified gateway payment backing a ticket.
// It is written once at ticket creation and never modified.
type PaymentRecord struct {
	PaymentID string
	OrderID   string
	Amount    int64
	Currency  string
	Status    string
	PaidAt    time.Time
}

// Ticket is the aggregate for support requests. UserID and UserEmail are
// immutable after creation; Status moves only through the transition table.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      TicketStatus
	UserID      string
	UserEmail   string
	AssignedTo  *string
	Payment     *PaymentRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TicketDraft is a validated, priced ticket awaiting payment confirmation.
// Drafts live outside the ticket store; a ticket row exists only after the
// gateway payment is verified.
type TicketDraft struct {
	UserID      string         `json:"user_id"`
	UserEmail   string         `json:"user_email"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    TicketCategory `json:"category"`
	Priority    TicketPriority `json:"priority"`
	OrderID     string         `json:"order_id"`
	Amount      int64          `json:"amount"`
	Currency    string         `json:"currency"`
	CreatedAt   time.Time      `json:"created_at"`
}
