package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskforge/support-service/internal/api/http/handlers"
	"github.com/deskforge/support-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Tickets    *handlers.TicketsHandler
	Agents     *handlers.AgentsHandler
	Settings   *handlers.SettingsHandler
	Taxonomy   *handlers.TaxonomyHandler
	Storefront *handlers.StorefrontHandler

	AuthMiddleware       *auth.AuthMiddleware
	StorefrontMiddleware *auth.StorefrontMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/stats", cfg.Tickets.TicketStats)
	tickets.Get("/by-key/:key", cfg.Tickets.GetTicketByKey)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/rating", cfg.Tickets.RateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)

	agents := api.Group("/agents")
	agents.Post("", cfg.Agents.RegisterAgent)
	agents.Get("", cfg.Agents.ListAgents)
	agents.Get("/stats", cfg.Agents.AgentStats)
	agents.Get("/:id", cfg.Agents.GetAgent)
	agents.Put("/:id", cfg.Agents.UpdateAgent)
	agents.Patch("/:id", cfg.Agents.UpdateAgent)
	agents.Delete("/:id", cfg.Agents.DeleteAgent)
	agents.Get("/:id/tickets", cfg.Tickets.ListAgentTickets)

	settings := api.Group("/settings")
	settings.Get("", cfg.Settings.GetSettings)
	settings.Put("", cfg.Settings.UpsertSettings)
	settings.Post("", cfg.Settings.UpsertSettings)
	settings.Post("/api-key", cfg.Settings.IssueAPIKey)

	taxonomy := api.Group("/taxonomy")
	taxonomy.Get("/issues", cfg.Taxonomy.ListIssues)
	taxonomy.Get("/issues/:id/categories", cfg.Taxonomy.ListCategories)
	taxonomy.Get("/categories/:id/sub-categories", cfg.Taxonomy.ListSubCategories)

	storefront := app.Group("/storefront", cfg.StorefrontMiddleware.Handle)
	storefront.Post("/tickets", cfg.Storefront.CreateTicket)
	storefront.Post("/tickets/:id/rating", cfg.Storefront.RateTicket)
	storefront.Delete("/tickets/:id", cfg.Storefront.DeleteTicket)
}
