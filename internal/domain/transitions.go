package domain

import "fmt"

// ErrInvalidTransition is returned when a status write is not permitted by
// the transition table.
type ErrInvalidTransition struct {
	From TicketStatus
	To   TicketStatus
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

var statusTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusOpen:       {TicketStatusInProgress, TicketStatusClosed},
	TicketStatusInProgress: {TicketStatusResolved, TicketStatusOpen, TicketStatusClosed},
	TicketStatusResolved:   {TicketStatusClosed, TicketStatusOpen},
	TicketStatusClosed:     {},
}

// CanTransition reports whether a ticket may move from one status to another.
// Writing the current status again is not a transition and is rejected.
func CanTransition(from, to TicketStatus) bool {
	for _, candidate := range statusTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a typed error when the move is illegal.
func CheckTransition(from, to TicketStatus) error {
	if !CanTransition(from, to) {
		return &ErrInvalidTransition{From: from, To: to}
	}
	return nil
}
