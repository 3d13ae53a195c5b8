package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/dto"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/domain"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/pkg/util"
)

// StorefrontHandler serves the public, API-key authenticated surface where
// customers raise, rate and withdraw their own tickets.
type StorefrontHandler struct {
	tickets *service.TicketService
}

// NewStorefrontHandler constructs handler.
func NewStorefrontHandler(ticketService *service.TicketService) *StorefrontHandler {
	return &StorefrontHandler{tickets: ticketService}
}

// CreateTicket POST /storefront/tickets.
func (h *StorefrontHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.StorefrontFromContext(c)
	if !ok {
		return util.NewUnauthorized("storefront credentials required")
	}
	var req dto.StorefrontCreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.CustomerDetails == nil || req.CustomerDetails.CustomerID <= 0 {
		return util.NewValidationError("customer_details.customer_id is required", nil)
	}

	ticket, err := h.tickets.Create(c.Context(), principal.OutletID, service.TicketCreateInput{
		Subject:             req.Subject,
		Description:         req.Description,
		Attachment:          req.Attachment,
		RaisedBy:            string(domain.RaisedByCustomer),
		RaisedByID:          req.CustomerDetails.CustomerID,
		CustomerDetails:     req.CustomerDetails,
		Tags:                req.Tags,
		Priority:            req.Priority,
		Department:          req.Department,
		OutletIssueID:       req.OutletIssueID,
		OutletCategoryID:    req.OutletCategoryID,
		OutletSubCategoryID: req.OutletSubCategoryID,
		Source:              req.Source,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// RateTicket POST /storefront/tickets/:id/rating.
func (h *StorefrontHandler) RateTicket(c *fiber.Ctx) error {
	principal, ok := auth.StorefrontFromContext(c)
	if !ok {
		return util.NewUnauthorized("storefront credentials required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StorefrontRateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID <= 0 {
		return util.NewValidationError("customer_id is required", nil)
	}

	if err := h.tickets.StorefrontRate(c.Context(), principal.OutletID, ticketID, req.CustomerID, req.Rating); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rated": true}})
}

// DeleteTicket DELETE /storefront/tickets/:id.
func (h *StorefrontHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.StorefrontFromContext(c)
	if !ok {
		return util.NewUnauthorized("storefront credentials required")
	}
	ticketID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.StorefrontDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.CustomerID <= 0 {
		return util.NewValidationError("customer_id is required", nil)
	}

	if err := h.tickets.StorefrontDelete(c.Context(), principal.OutletID, ticketID, req.CustomerID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}
