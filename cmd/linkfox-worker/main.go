package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/LinkFox/app/repository"
	"github.com/ManuelReschke/LinkFox/internal/pkg/cache"
	"github.com/ManuelReschke/LinkFox/internal/pkg/config"
	"github.com/ManuelReschke/LinkFox/internal/pkg/credentials"
	"github.com/ManuelReschke/LinkFox/internal/pkg/database"
	"github.com/ManuelReschke/LinkFox/internal/pkg/env"
	"github.com/ManuelReschke/LinkFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/LinkFox/internal/pkg/queues"
	"github.com/ManuelReschke/LinkFox/internal/pkg/secrets"
	"github.com/ManuelReschke/LinkFox/internal/pkg/wordpress"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
)

// linkfox-worker consumes worker jobs from Redis and, when an interval is
// configured, triggers both work-queue runs on a schedule.
func main() {
	env.SetupEnvFile()
	cfg, err := config.Load(config.SectionDatabase, config.SectionCache, config.SectionQueue, config.SectionCredentials)
	if err != nil {
		log.Fatalf("[Worker] %v", err)
	}

	database.SetupDatabase(cfg.Database)
	cache.SetupCache(cfg.Cache)
	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	box, err := secrets.NewBox(cfg.Credentials.EncryptionKey)
	if err != nil {
		log.Fatalf("[Worker] %v", err)
	}
	resolver := credentials.NewResolver(repos.SiteCredential, box)

	manager := jobqueue.GetManager()
	registry := workers.NewDefaultRegistry(repos, resolver, wordpress.NewClient())
	registry.RegisterJobHandlers(manager.GetQueue())

	if cfg.Queue.ScheduleIntervalMinutes > 0 {
		if cfg.Queue.Transport == config.TransportHTTP {
			if err := cfg.Validate(config.SectionApp); err != nil {
				log.Fatalf("[Worker] %v", err)
			}
		}
		invoker := queues.NewInvoker(cfg.Queue, manager.GetQueue(), cfg.App.ServiceRoleKey)
		set := queues.NewSet(db, invoker, resolver, cfg.Queue)
		runs := make([]jobqueue.ScheduledRun, 0, len(set.Names()))
		for _, name := range set.Names() {
			runs = append(runs, jobqueue.ScheduledRun{Name: name, Run: func(ctx context.Context) error {
				_, err := set.Run(ctx, name)
				return err
			}})
		}
		manager.Schedule(time.Duration(cfg.Queue.ScheduleIntervalMinutes)*time.Minute, runs...)
	}

	manager.Start()
	log.Infof("[Worker] running workers: %v", registry.Names())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	manager.Stop()
}
