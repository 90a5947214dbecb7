package domain

import "time"

// ActivityAction identifies the kind of audited mutation.
type ActivityAction string

const (
	ActivityStatusUpdate ActivityAction = "status_update"
)

// Activity is an immutable audit record of a ticket mutation. Every admin
// mutation appends exactly one entry carrying a before/after diff.
type Activity struct {
	ID         string
	TicketID   string
	Action     ActivityAction
	Details    map[string]any
	ActorEmail string
	CreatedAt  time.Time
}
