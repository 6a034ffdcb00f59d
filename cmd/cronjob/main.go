package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/jobs"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/repository/postgres"
	"lawdesk-backend/internal/scheduler"
	"lawdesk-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g. '"+jobs.JobPendingDigest+"')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LawDesk cronjob runner...", "log_level", cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := database.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)

	emailSvc := service.NewEmailServiceFromConfig(cfg.Email)
	jobRunner := jobs.NewJobRunner(&store.Registry, emailSvc, cfg.JoinRequests.DigestAfter)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if err := jobRunner.Run(*runOnce); err != nil {
			fmt.Fprintf(os.Stderr, "Job %s failed: %v\nAvailable jobs:\n  - %s\n", *runOnce, err, jobs.JobPendingDigest)
			db.Close()
			os.Exit(1)
		}
		return
	}

	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Scheduler)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
}
