package service

import (
	"context"

	"github.com/servicedesk/support-desk/internal/domain"
	apperrors "github.com/servicedesk/support-desk/pkg/util"
)

// AdminFilter selects a slice of an already-fetched ticket list.
type AdminFilter string

const (
	FilterAll        AdminFilter = "all"
	FilterUnassigned AdminFilter = "unassigned"
)

// FilterTickets is a pure function over a fetched ticket set: "all",
// "unassigned", or an exact status match. Changing the filter never requires
// a re-query.
func FilterTickets(tickets []domain.Ticket, filter AdminFilter) []domain.Ticket {
	if filter == "" || filter == FilterAll {
		return tickets
	}
	result := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		switch filter {
		case FilterUnassigned:
			if ticket.AssignedTo == nil || *ticket.AssignedTo == "" {
				result = append(result, ticket)
			}
		default:
			if ticket.Status == domain.TicketStatus(filter) {
				result = append(result, ticket)
			}
		}
	}
	return result
}

// DashboardStats aggregates a user's own tickets.
type DashboardStats struct {
	Total      int
	Open       int
	InProgress int
	Resolved   int
}

// recentLimit caps the dashboard preview list.
const recentLimit = 5

// BuildDashboard aggregates counts and the most recent tickets from a single
// fetched list, newest first.
func BuildDashboard(tickets []domain.Ticket) (DashboardStats, []domain.Ticket) {
	stats := DashboardStats{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusResolved:
			stats.Resolved++
		}
	}
	recent := tickets
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	return stats, recent
}

// Dashboard fetches the caller's tickets once and derives stats plus the
// recent preview from that list.
func (s *TicketService) Dashboard(ctx context.Context, userID string) (DashboardStats, []domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, userID)
	if err != nil {
		return DashboardStats{}, nil, apperrors.MapError(err)
	}
	stats, recent := BuildDashboard(tickets)
	return stats, recent, nil
}
