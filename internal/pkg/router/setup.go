package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/app/controllers"
	"github.com/ManuelReschke/LinkFox/app/repository"
)

type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies carries everything the routes need. Billing may be nil when
// Stripe is not configured; its route is then not registered.
type Dependencies struct {
	ServiceRoleKey string
	Users          repository.UserRepository
	LimiterStorage fiber.Storage
	MetricsUsers   map[string]string

	Jobs        *controllers.JobsController
	Functions   *controllers.FunctionsController
	Billing     *controllers.BillingController
	Account     *controllers.AccountController
	AdminQueues *controllers.AdminQueueController
	AdminUsers  *controllers.AdminUserController
	AdminSites  *controllers.AdminSiteController
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	setup(app, NewMetricsRouter(deps.MetricsUsers), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
