package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/service"
)

const storefrontKey = "storefront_principal"

// Storefront request headers.
const (
	HeaderStorefrontURL = "X-Storefront-Url"
	HeaderAPIKey        = "X-Api-Key"
)

// StorefrontPrincipal identifies the outlet behind a storefront request.
type StorefrontPrincipal struct {
	OutletID int64
}

// StorefrontMiddleware authenticates public storefront calls with the
// outlet's web URL and API key instead of a bearer token.
type StorefrontMiddleware struct {
	settings *service.SettingsService
}

// NewStorefrontMiddleware constructs middleware.
func NewStorefrontMiddleware(settings *service.SettingsService) *StorefrontMiddleware {
	return &StorefrontMiddleware{settings: settings}
}

// Handle verifies the storefront credentials and resolves the outlet.
func (m *StorefrontMiddleware) Handle(c *fiber.Ctx) error {
	settings, err := m.settings.VerifyStorefront(c.Context(), c.Get(HeaderStorefrontURL), c.Get(HeaderAPIKey))
	if err != nil {
		return err
	}

	c.Locals(storefrontKey, &StorefrontPrincipal{OutletID: settings.OutletID})
	return c.Next()
}

// StorefrontFromContext retrieves the storefront principal.
func StorefrontFromContext(c *fiber.Ctx) (*StorefrontPrincipal, bool) {
	val := c.Locals(storefrontKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*StorefrontPrincipal)
	return principal, ok
}
