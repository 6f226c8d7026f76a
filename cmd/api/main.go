package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/autoshop-backend/api/routes"
	"github.com/angelmondragon/autoshop-backend/internal/deployments"
	"github.com/angelmondragon/autoshop-backend/internal/parts"
	"github.com/angelmondragon/autoshop-backend/internal/procurements"
	"github.com/angelmondragon/autoshop-backend/internal/reconcile"
	"github.com/angelmondragon/autoshop-backend/internal/refindex"
	"github.com/angelmondragon/autoshop-backend/internal/users"
	"github.com/angelmondragon/autoshop-backend/pkg/config"
	"github.com/angelmondragon/autoshop-backend/pkg/db"
	"github.com/angelmondragon/autoshop-backend/pkg/instance"
	"github.com/angelmondragon/autoshop-backend/pkg/logger"
	"github.com/angelmondragon/autoshop-backend/pkg/metrics"
	"github.com/angelmondragon/autoshop-backend/pkg/migrate"
	"github.com/angelmondragon/autoshop-backend/pkg/outbox"
	"github.com/angelmondragon/autoshop-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()
	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)

	events, err := outbox.NewService(outbox.NewRepository(conn), logg)
	if err != nil {
		logg.Error(ctx, "failed to create outbox service", err)
		os.Exit(1)
	}

	partRepo := parts.NewRepository(conn)
	refs := refindex.NewRepository(conn)

	ledger, err := parts.NewLedger(parts.LedgerParams{
		Repository: partRepo,
		Events:     events,
		Metrics:    ledgerMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create part ledger", err)
		os.Exit(1)
	}

	userService, err := users.NewService(users.NewRepository(conn))
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}

	procurementService, err := procurements.NewService(procurements.ServiceParams{
		DB:         dbClient,
		Repository: procurements.NewRepository(conn),
		Ledger:     ledger,
		Users:      userService,
		References: refs,
		Events:     events,
		Policy:     cfg.Inventory.Policy(),
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create procurement service", err)
		os.Exit(1)
	}

	deploymentService, err := deployments.NewService(deployments.ServiceParams{
		DB:              dbClient,
		Repository:      deployments.NewRepository(conn),
		Ledger:          ledger,
		Users:           userService,
		References:      refs,
		Events:          events,
		TrackCodeLength: cfg.Inventory.TrackCodeLength,
		Logger:          logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create deployment service", err)
		os.Exit(1)
	}

	partService, err := parts.NewService(partRepo, refs)
	if err != nil {
		logg.Error(ctx, "failed to create part service", err)
		os.Exit(1)
	}

	reconciler, err := reconcile.NewService(reconcile.ServiceParams{
		DB:         dbClient,
		Repository: reconcile.NewRepository(conn),
		Parts:      partRepo,
		Events:     events,
		Metrics:    ledgerMetrics,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create reconcile service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			Gatherer:     prometheus.DefaultGatherer,
			Procurements: procurementService,
			Deployments:  deploymentService,
			Parts:        partService,
			Users:        userService,
			Reconciler:   reconciler,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(logCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}
