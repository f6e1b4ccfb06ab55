package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/parkview/rental-system/internal/api"
	"github.com/parkview/rental-system/internal/infrastructure/db/mongo"
	"github.com/parkview/rental-system/internal/infrastructure/db/redis"
	"github.com/parkview/rental-system/internal/infrastructure/db/sqlite"
	"github.com/parkview/rental-system/internal/infrastructure/payment"
	"github.com/parkview/rental-system/internal/infrastructure/queue"
	"github.com/parkview/rental-system/internal/infrastructure/scheduler"
	"github.com/parkview/rental-system/internal/pkg/config"
	"github.com/parkview/rental-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "rentald",
		Env:     cfg.Env,
		File: logger.FileOptions{
			Path:       cfg.LogFile,
			MaxSizeMB:  cfg.LogFileMaxMB,
			MaxBackups: cfg.LogFileKeep,
			MaxAgeDays: cfg.LogFileDays,
		},
	})
	defer func() { _ = logger.Close() }()

	db, err := sqlite.Open(sqlite.Config{
		Path:          cfg.DB.Path,
		MaxOpenConns:  cfg.DB.MaxOpenConns,
		BusyTimeoutMS: cfg.DB.BusyTimeoutMS,
	})
	if err != nil {
		return err
	}
	defer func() { _ = sqlite.Close(db) }()

	applied, err := sqlite.NewMigrator(db).Up(ctx)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("migrations applied")
	}

	deps := api.Dependencies{Config: cfg, Log: log, DB: db}

	var rdb *goredis.Client
	if rc := (redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}); rc.Enabled() {
		rdb, err = redis.Connect(ctx, rc)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		deps.Redis = rdb
		deps.Guard = redis.NewPaymentGuard(rdb)
		log.Info().Str("addr", rc.Addr).Msg("payment claim store connected")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, payment claims rely on the unique payment reference only")
	}

	// Activity workers outlive the request context so queued events flush on shutdown.
	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()

	var mclient *mongodriver.Client
	if mc := (mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}); mc.Enabled() {
		var mdb *mongodriver.Database
		mclient, mdb, err = mongo.Connect(ctx, mc)
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Disconnect(mclient, 5*time.Second) }()

		store := mongo.NewActivityRepository(mdb)
		if err := store.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("activity index creation failed")
		}
		dispatcher := queue.NewDispatcher(cfg.Activity.Workers, store, log)
		dispatcher.Start(workerCtx)
		defer func() {
			stopWorkers()
			dispatcher.Wait()
		}()

		deps.Mongo = mdb
		deps.Activity = dispatcher
		deps.ActivityStore = store
		log.Info().Str("database", mc.Database).Int("workers", cfg.Activity.Workers).Msg("activity trail enabled")
	} else {
		deps.Activity = queue.Discard{}
		log.Warn().Msg("MONGO_URI not set, activity trail disabled")
	}

	provider, err := payment.NewStripeProvider(payment.StripeConfig{
		SecretKey:   cfg.Payment.StripeKey,
		APIURL:      cfg.Payment.APIURL,
		HTTPTimeout: cfg.Payment.Timeout,
	}, log)
	if err != nil {
		return err
	}
	deps.Payments = provider

	e, err := api.NewRouter(deps)
	if err != nil {
		return err
	}

	auditor := scheduler.NewOccupancyAuditor(sqlite.NewApartmentRepository(db), cfg.OccupancyAuditSchedule, log)
	if err := auditor.Start(workerCtx); err != nil {
		return err
	}
	defer auditor.Stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("rentald listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return shutdown(e.Shutdown, stopWorkers, log)
}

func shutdown(stopHTTP func(context.Context) error, stopWorkers context.CancelFunc, log zerolog.Logger) error {
	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := stopHTTP(ctx)
	stopWorkers()
	if err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	return err
}
