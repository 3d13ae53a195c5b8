package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/dto"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/pkg/util"
)

// SettingsHandler manages outlet support settings endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: settingsService}
}

// GetSettings GET /api/settings.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	settings, err := h.service.Get(c.Context(), principal.OutletID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettingsResponse(settings)})
}

// UpsertSettings PUT /api/settings.
func (h *SettingsHandler) UpsertSettings(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	var req dto.UpsertSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	settings, err := h.service.Upsert(c.Context(), principal.OutletID, service.SettingsUpsertInput{
		WebURL:        req.WebURL,
		Prefix:        req.Prefix,
		StartNo:       req.StartNo,
		AutoAssign:    req.AutoAssign,
		EmailRequired: req.EmailRequired,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSettingsResponse(settings)})
}

// IssueAPIKey POST /api/settings/api-key. The plaintext key is returned in
// this response only.
func (h *SettingsHandler) IssueAPIKey(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	key, err := h.service.IssueAPIKey(c.Context(), principal.OutletID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.APIKeyResponse{APIKey: key}})
}
