package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/LinkFox/internal/pkg/middleware"
	"github.com/ManuelReschke/LinkFox/internal/pkg/queues"
)

type ApiRouter struct {
	deps Dependencies
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// Service-role traffic (scheduler and worker transport) is not rate limited:
	// a single run fans out one function call per claimed row.
	api := app.Group("/api", limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return middleware.HasServiceRole(c, h.deps.ServiceRoleKey)
		},
		Max:        120,
		Expiration: time.Minute,
		Storage:    h.deps.LimiterStorage,
	}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")

	// Service-role routes: scheduler triggers, worker transport, operator tools
	service := middleware.RequireServiceRole(h.deps.ServiceRoleKey)
	v1.Post("/jobs/enrichment/run", service, h.deps.Jobs.HandleRun(queues.Enrichment))
	v1.Post("/jobs/backlink-review/run", service, h.deps.Jobs.HandleRun(queues.BacklinkReview))
	v1.Post("/functions/:name", service, h.deps.Functions.HandleInvoke)
	v1.Get("/admin/queues", service, h.deps.AdminQueues.HandleStats)
	v1.Post("/admin/queues/:queue/requeue", service, h.deps.AdminQueues.HandleRequeue)
	v1.Post("/admin/users/:id/api-key", service, h.deps.AdminUsers.HandleRotateAPIKey)
	v1.Put("/admin/sites/:domain/credentials", service, h.deps.AdminSites.HandleUpsertCredentials)

	// User routes
	user := middleware.APIKeyAuthMiddleware(h.deps.Users)
	v1.Get("/account", user, h.deps.Account.HandleGetUserAccount)
	if h.deps.Billing != nil {
		v1.Post("/billing/setup-session", user, h.deps.Billing.HandleCreateSetupSession)
	}
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}
