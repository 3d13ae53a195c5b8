package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/dto"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/pkg/util"
)

// reservedListParams are query keys with dedicated meaning; everything else
// is treated as a filter and validated against the allow-list downstream.
var reservedListParams = map[string]struct{}{
	"page":       {},
	"page_size":  {},
	"sort_by":    {},
	"sort_order": {},
	"search":     {},
}

// TicketsHandler manages authenticated ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.Context(), principal.OutletID, service.TicketCreateInput{
		Subject:             req.Subject,
		Description:         req.Description,
		Attachment:          req.Attachment,
		RaisedBy:            req.RaisedBy,
		RaisedByID:          req.RaisedByID,
		CustomerDetails:     req.CustomerDetails,
		Tags:                req.Tags,
		Priority:            req.Priority,
		Department:          req.Department,
		OutletIssueID:       req.OutletIssueID,
		OutletCategoryID:    req.OutletCategoryID,
		OutletSubCategoryID: req.OutletSubCategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	tickets, meta, err := h.service.List(c.Context(), principal.OutletID, parseTicketListQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewTicketResponses(tickets),
		"meta": meta,
	})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetByID(c.Context(), principal.OutletID, ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicketByKey GET /api/tickets/by-key/:key.
func (h *TicketsHandler) GetTicketByKey(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetBySupportTicketID(c.Context(), principal.OutletID, c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PATCH /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateStatusAndAgent(c.Context(), principal.OutletID, ticketID, req.Status, req.AssignedAgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// RateTicket POST /api/tickets/:id/rating.
func (h *TicketsHandler) RateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.RateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	switch req.RatedBy {
	case "customer", "":
		err = h.service.RateAgent(c.Context(), principal.OutletID, ticketID, req.Rating)
	case "agent":
		err = h.service.RateCustomer(c.Context(), principal.OutletID, ticketID, req.Rating)
	default:
		return util.NewValidationError("invalid rated_by", map[string]any{"rated_by": req.RatedBy})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rated": true}})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal.OutletID, ticketID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// TicketStats GET /api/tickets/stats.
func (h *TicketsHandler) TicketStats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	stats, err := h.service.Stats(c.Context(), principal.OutletID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// ListAgentTickets GET /api/agents/:id/tickets.
func (h *TicketsHandler) ListAgentTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	agentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	tickets, err := h.service.ListByAssignedAgent(c.Context(), principal.OutletID, agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

func parseTicketListQuery(c *fiber.Ctx) service.TicketListInput {
	input := service.TicketListInput{
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
		Page:      c.QueryInt("page", 1),
		PageSize:  c.QueryInt("page_size", 10),
		Filters:   map[string]any{},
	}
	for key, value := range c.Queries() {
		if _, reserved := reservedListParams[key]; reserved {
			continue
		}
		input.Filters[key] = value
	}
	return input
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}
