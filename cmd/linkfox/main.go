package main

import (
	"os"
	"strconv"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	redisstorage "github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/LinkFox/app/controllers"
	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/billing"
	"github.com/ManuelReschke/LinkFox/internal/pkg/cache"
	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/credentials"
	"github.com/ManuelReschke/LinkFox/internal/pkg/database"
	"github.com/ManuelReschke/LinkFox/internal/pkg/env"
	"github.com/ManuelReschke/LinkFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/LinkFox/internal/pkg/queues"
	"github.com/ManuelReschke/LinkFox/internal/pkg/router"
	"github.com/ManuelReschke/LinkFox/internal/pkg/secrets"
	"github.com/ManuelReschke/LinkFox/internal/pkg/wordpress"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
)

func main() {
	app, cfg := NewApplication()
	log.Fatal(app.Listen(cfg.App.Addr()))
}

func NewApplication() (*fiber.App, *config.Config) {
	env.SetupEnvFile()
	cfg, err := config.Load(config.SectionApp, config.SectionDatabase, config.SectionCache,
		config.SectionQueue, config.SectionCredentials)
	if err != nil {
		log.Fatalf("[Server] %v", err)
	}

	database.SetupDatabase(cfg.Database)
	cache.SetupCache(cfg.Cache)
	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	box, err := secrets.NewBox(cfg.Credentials.EncryptionKey)
	if err != nil {
		log.Fatalf("[Server] %v", err)
	}
	resolver := credentials.NewResolver(repos.SiteCredential, box)

	invoker := queues.NewInvoker(cfg.Queue, jobqueue.GetManager().GetQueue(), cfg.App.ServiceRoleKey)
	workQueues := queues.NewSet(db, invoker, resolver, cfg.Queue)
	registry := workers.NewDefaultRegistry(repos, resolver, wordpress.NewClient())

	deps := router.Dependencies{
		ServiceRoleKey: cfg.App.ServiceRoleKey,
		Users:          repos.User,
		LimiterStorage: newLimiterStorage(cfg.Cache),
		Jobs:           controllers.NewJobsController(workQueues),
		Functions:      controllers.NewFunctionsController(registry),
		Account:        controllers.NewAccountController(repos.User, billing.NewRepository(db)),
		AdminQueues:    controllers.NewAdminQueueController(workQueues, jobqueue.GetManager().GetQueue()),
		AdminUsers:     controllers.NewAdminUserController(repos.User),
		AdminSites:     controllers.NewAdminSiteController(repos.SiteCredential, box),
	}
	if cfg.App.MetricsPassword != "" {
		deps.MetricsUsers = map[string]string{cfg.App.MetricsUser: cfg.App.MetricsPassword}
	}
	if err := cfg.Validate(config.SectionStripe); err == nil {
		api := billing.NewStripeClient(cfg.Stripe.SecretKey)
		deps.Billing = controllers.NewBillingController(
			billing.NewServiceFromDB(db, api, cfg.Stripe.SetupSuccessURL, cfg.Stripe.SetupCancelURL))
	} else {
		log.Warnf("[Server] billing routes disabled: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:           "LinkFox",
		BodyLimit:         1 << 20,
		EnablePrintRoutes: cfg.App.IsDev(),
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// SWAGGER / OPENAPI
	if specPath, ok := findOpenAPISpec(); ok {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/docs/api/",
			FilePath: specPath,
			Path:     "v1",
		}))
	}

	// ROUTER
	router.InstallRouter(app, deps)

	return app, cfg
}

// newLimiterStorage keeps rate-limit counters in Redis database 1 so they are
// shared across server instances.
func newLimiterStorage(cfg config.CacheConfig) fiber.Storage {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		port = 6379
	}
	return redisstorage.New(redisstorage.Config{
		Host:     cfg.Host,
		Port:     port,
		Password: cfg.Password,
		Database: 1,
		Reset:    false,
	})
}

func findOpenAPISpec() (string, bool) {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/linkfox to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		candidate := path + "public/docs/v1/openapi.yml"
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	log.Warn("[Server] openapi.yml not found, /docs/api disabled")
	return "", false
}
