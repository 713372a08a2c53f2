package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRouter serves the Prometheus exposition behind basic auth.
type MetricsRouter struct {
	users map[string]string
}

func (m MetricsRouter) InstallRouter(app *fiber.App) {
	if len(m.users) == 0 {
		log.Warn("[Router] /metrics disabled: no metrics credentials configured")
		return
	}
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: m.users,
	}), adaptor.HTTPHandler(promhttp.Handler()))
}

func NewMetricsRouter(users map[string]string) *MetricsRouter {
	return &MetricsRouter{users: users}
}
