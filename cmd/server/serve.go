package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpapi "lawdesk-backend/internal/api/http"
	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/database"
	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/jobs"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/metrics"
	"lawdesk-backend/internal/repository"
	"lawdesk-backend/internal/repository/cache"
	"lawdesk-backend/internal/repository/postgres"
	"lawdesk-backend/internal/scheduler"
	"lawdesk-backend/internal/security"
	"lawdesk-backend/internal/service"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API, metrics endpoint and scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger.Info("Starting LawDesk backend...", "log_level", cfg.Log.Level, "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	if cfg.Database.AutoMigrate {
		if err := database.MigrateUp(cfg.GetDatabaseConnectionString()); err != nil {
			return err
		}
	}

	db, err := database.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	repos := store.Registry
	if cfg.Cache.OfficeSize > 0 {
		repos.Offices = cache.NewOfficeRepository(store.Offices, cfg.Cache.OfficeSize, cfg.Cache.OfficeTTL)
		logger.Info("Office cache enabled", "size", cfg.Cache.OfficeSize, "ttl", cfg.Cache.OfficeTTL)
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	emailSvc := service.NewEmailServiceFromConfig(cfg.Email)
	svcs := newServices(store, &repos, tokenManager, emailSvc, cfg.JoinRequests)

	handler := httpapi.NewRouter(svcs, tokenManager, store, httpapi.RouterOptions{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	serverOpts := httpapi.ServerOptions{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		runner := jobs.NewJobRunner(&repos, emailSvc, cfg.JoinRequests.DigestAfter)
		if sched, err = scheduler.NewScheduler(runner, cfg.Scheduler); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Serve(ctx, "api", cfg.GetServerAddress(), handler, serverOpts)
	})
	if cfg.Metrics.ListenAddr != "" {
		g.Go(func() error {
			return httpapi.Serve(ctx, "metrics", cfg.Metrics.ListenAddr, metrics.Handler(), serverOpts)
		})
	}
	if sched != nil {
		g.Go(func() error {
			sched.Start()
			<-ctx.Done()
			sched.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	logger.Info("LawDesk backend stopped")
	return nil
}

func newServices(
	tx repository.Transactor,
	repos *repository.Registry,
	tokenManager security.TokenManager,
	emailSvc service.EmailService,
	cfg config.JoinRequestConfig,
) httpapi.Services {
	return httpapi.Services{
		Auth:   service.NewAuthService(repos.Users, tokenManager),
		User:   service.NewUserService(repos.Users),
		Office: service.NewOfficeService(tx, repos.Offices, repos.Users),
		JoinRequest: service.NewJoinRequestService(tx, repos.JoinRequests, repos.Offices, repos.Users, emailSvc, service.JoinRequestOptions{
			DefaultRole: domain.Role(cfg.DefaultRole),
			MaxPageSize: cfg.MaxPageSize,
		}),
		Notification: service.NewNotificationService(repos.Notifications),
	}
}
