package dto

import (
	"time"

	"github.com/servicedesk/support-desk/internal/domain"
)

// UpdateStatusRequest mutates a ticket's status.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status" validate:"required"`
	Comment string              `json:"comment"`
}

// AssignRequest sets the handling agent, optionally moving status and
// posting a comment in the same mutation.
type AssignRequest struct {
	AssignedTo string              `json:"assigned_to" validate:"required"`
	Status     domain.TicketStatus `json:"status"`
	Comment    string              `json:"comment"`
}

// ActivityResponse is an audit trail entry.
type ActivityResponse struct {
	ID         string                `json:"id"`
	Action     domain.ActivityAction `json:"action"`
	Details    map[string]any        `json:"details"`
	ActorEmail string                `json:"actor_email"`
	CreatedAt  time.Time             `json:"created_at"`
}

// AdminTicketDetailResponse extends the detail view with the audit trail.
type AdminTicketDetailResponse struct {
	TicketDetailResponse
	Activities []ActivityResponse `json:"activities"`
}
