package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/dto"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/pkg/util"
)

// AgentsHandler manages the agent directory endpoints.
type AgentsHandler struct {
	service *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agentService *service.AgentService) *AgentsHandler {
	return &AgentsHandler{service: agentService}
}

// RegisterAgent POST /api/agents.
func (h *AgentsHandler) RegisterAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.RegisterAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	agent, err := h.service.Register(c.Context(), principal.OutletID, service.AgentRegisterInput{
		UserID:       req.UserID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		CountryCode:  req.CountryCode,
		Phone:        req.Phone,
		Location:     req.Location,
		Timezone:     req.Timezone,
		Bio:          req.Bio,
		Level:        req.Level,
		Department:   req.Department,
		Status:       req.Status,
		HiredAt:      req.HiredAt,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Skills:       req.Skills,
		Languages:    req.Languages,
		WorkingHours: req.WorkingHours,
		WorkingDays:  req.WorkingDays,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// ListAgents GET /api/agents.
func (h *AgentsHandler) ListAgents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}

	input := service.AgentListInput{
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

	agents, meta, err := h.service.List(c.Context(), principal.OutletID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewAgentResponses(agents),
		"meta": meta,
	})
}

// GetAgent GET /api/agents/:id.
func (h *AgentsHandler) GetAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	agentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	agent, err := h.service.Get(c.Context(), principal.OutletID, agentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// UpdateAgent PATCH /api/agents/:id.
func (h *AgentsHandler) UpdateAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	agentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	agent, err := h.service.Update(c.Context(), principal.OutletID, agentID, service.AgentUpdateInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		CountryCode:  req.CountryCode,
		Phone:        req.Phone,
		Location:     req.Location,
		Timezone:     req.Timezone,
		Bio:          req.Bio,
		Level:        req.Level,
		Department:   req.Department,
		Status:       req.Status,
		HiredAt:      req.HiredAt,
		Category:     req.Category,
		SubCategory:  req.SubCategory,
		Skills:       req.Skills,
		Languages:    req.Languages,
		WorkingHours: req.WorkingHours,
		WorkingDays:  req.WorkingDays,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

// DeleteAgent DELETE /api/agents/:id.
func (h *AgentsHandler) DeleteAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	agentID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), principal.OutletID, agentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// AgentStats GET /api/agents/stats.
func (h *AgentsHandler) AgentStats(c *fiber.Ctx) error {
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
