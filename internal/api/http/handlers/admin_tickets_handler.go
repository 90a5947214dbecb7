package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicedesk/support-desk/internal/api/dto"
	"github.com/servicedesk/support-desk/internal/auth"
	"github.com/servicedesk/support-desk/internal/domain"
	"github.com/servicedesk/support-desk/internal/service"
	apperrors "github.com/servicedesk/support-desk/pkg/util"
)

// AdminTicketsHandler manages the admin triage endpoints.
type AdminTicketsHandler struct {
	service *service.TicketService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService) *AdminTicketsHandler {
	return &AdminTicketsHandler{service: ticketService}
}

// List GET /admin/tickets?filter=all|unassigned|<status>.
func (h *AdminTicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	tickets, err := h.service.ListAllTickets(c.Context(), principal.User)
	if err != nil {
		return err
	}
	filtered := service.FilterTickets(tickets, service.AdminFilter(c.Query("filter", "all")))
	return c.JSON(fiber.Map{"data": ticketSummaries(filtered)})
}

// Get GET /admin/tickets/:id.
func (h *AdminTicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	ticket, comments, err := h.service.GetTicket(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	activities, err := h.service.ListActivities(c.Context(), principal.User, ticket.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminTicketDetailResponse{
		TicketDetailResponse: ticketDetail(ticket, comments),
		Activities:           activityResponses(activities),
	}})
}

// UpdateStatus PATCH /admin/tickets/:id/status.
func (h *AdminTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	ticket, err := h.service.UpdateStatus(c.Context(), principal.User, c.Params("id"), req.Status, req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Assign POST /admin/tickets/:id/assign.
func (h *AdminTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	ticket, err := h.service.Assign(c.Context(), principal.User, c.Params("id"), service.AssignInput{
		AssignedTo: req.AssignedTo,
		Status:     req.Status,
		Comment:    req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

func activityResponses(activities []domain.Activity) []dto.ActivityResponse {
	items := make([]dto.ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		items = append(items, dto.ActivityResponse{
			ID:         activity.ID,
			Action:     activity.Action,
			Details:    activity.Details,
			ActorEmail: activity.ActorEmail,
			CreatedAt:  activity.CreatedAt,
		})
	}
	return items
}
