package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/dto"
	"github.com/deskforge/support-service/internal/auth"
	"github.com/deskforge/support-service/internal/service"
	"github.com/deskforge/support-service/pkg/util"
)

// TaxonomyHandler serves the outlet's classification tree.
type TaxonomyHandler struct {
	service *service.TaxonomyService
}

// NewTaxonomyHandler constructs handler.
func NewTaxonomyHandler(taxonomyService *service.TaxonomyService) *TaxonomyHandler {
	return &TaxonomyHandler{service: taxonomyService}
}

// ListIssues GET /api/taxonomy/issues.
func (h *TaxonomyHandler) ListIssues(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	issues, err := h.service.ListIssues(c.Context(), principal.OutletID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewIssueEntries(issues)})
}

// ListCategories GET /api/taxonomy/issues/:id/categories.
func (h *TaxonomyHandler) ListCategories(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	issueID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	categories, err := h.service.ListCategories(c.Context(), principal.OutletID, issueID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCategoryEntries(categories)})
}

// ListSubCategories GET /api/taxonomy/categories/:id/sub-categories.
func (h *TaxonomyHandler) ListSubCategories(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return util.NewUnauthorized("authentication required")
	}
	categoryID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	subCategories, err := h.service.ListSubCategories(c.Context(), principal.OutletID, categoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubCategoryEntries(subCategories)})
}
