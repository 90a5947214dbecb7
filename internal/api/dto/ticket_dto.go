package dto

import (
	"time"

	"github.com/servicedesk/support-desk/internal/domain"
)

// QuoteTicketRequest submits a draft for pricing and payment.
type QuoteTicketRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// QuoteResponse hands the gateway order to the checkout widget.
type QuoteResponse struct {
	OrderID           string `json:"order_id"`
	KeyID             string `json:"key_id"`
	Amount            int64  `json:"amount"`
	Currency          string `json:"currency"`
	Price             int64  `json:"price"`
	ResponseTimeHours int    `json:"response_time_hours"`
}

// ConfirmTicketRequest carries the checkout callback.
type ConfirmTicketRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

// AddCommentRequest appends to the thread.
type AddCommentRequest struct {
	Comment string `json:"comment" validate:"required"`
}

// PaymentResponse echoes the immutable payment record.
type PaymentResponse struct {
	PaymentID string    `json:"payment_id"`
	OrderID   string    `json:"order_id"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"`
	PaidAt    time.Time `json:"paid_at"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Category   domain.TicketCategory `json:"category"`
	Priority   domain.TicketPriority `json:"priority"`
	Status     domain.TicketStatus   `json:"status"`
	AssignedTo *string               `json:"assigned_to"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info with the comment thread.
type TicketDetailResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.TicketCategory `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	UserEmail   string                `json:"user_email"`
	AssignedTo  *string               `json:"assigned_to"`
	Payment     *PaymentResponse      `json:"payment"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	Comments    []CommentResponse     `json:"comments"`
}

// CommentResponse represents a thread message.
type CommentResponse struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	AuthorEmail *string   `json:"author_email"`
	IsAdmin     bool      `json:"is_admin"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardResponse aggregates the caller's tickets.
type DashboardResponse struct {
	Stats  DashboardStats  `json:"stats"`
	Recent []TicketSummary `json:"recent"`
}

// DashboardStats counters.
type DashboardStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}
