package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"educater_backend/internal/auth"
	"educater_backend/internal/email"
	"educater_backend/internal/events"
	apphttp "educater_backend/internal/http"
	"educater_backend/internal/http/router"
	"educater_backend/internal/incentives"
	incentiveservice "educater_backend/internal/incentives/service"
	"educater_backend/internal/messaging"
	"educater_backend/internal/notification"
	"educater_backend/internal/pwa"
	"educater_backend/internal/reps"
	"educater_backend/internal/resources"
	"educater_backend/internal/scheduler"
	"educater_backend/internal/schools"
	"educater_backend/internal/storage"
	"educater_backend/internal/templates"
	"educater_backend/migrations"
	"educater_backend/platform/config"
	"educater_backend/platform/db"
	"educater_backend/platform/logger"
	"educater_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// ensureBuckets verifies every bucket exists, provisioning them in parallel
// since each waits on a round trip to MinIO.
func ensureBuckets(ctx context.Context, log *logger.Logger, store storage.Service, buckets map[string]string) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, bucket := range buckets {
		g.Go(func() error {
			return withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
				return store.EnsureBucketExists(ctx, bucket)
			})
		})
	}
	return g.Wait()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	broadcastEnqueuer, closeEnqueuer := initBroadcastEnqueuer(cfg, log)
	if closeEnqueuer != nil {
		defer closeEnqueuer()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Storage service for file uploads (MinIO)
	store, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := ensureBuckets(ctx, log, store, map[string]string{
		"resources":        cfg.GetMinioBucketResources(),
		"incentive-images": cfg.GetMinioBucketIncentiveImages(),
		"rep-documents":    cfg.GetMinioBucketRepDocuments(),
	}); err != nil {
		log.Error("failed to ensure storage buckets exist", "error", err)
		panic("failed to ensure storage buckets exist: " + err.Error())
	}
	log.Info(
		"storage service initialized",
		"resourcesBucket", cfg.GetMinioBucketResources(),
		"incentiveImagesBucket", cfg.GetMinioBucketIncentiveImages(),
		"repDocumentsBucket", cfg.GetMinioBucketRepDocuments(),
	)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events and pushes over SSE
	notificationModule := notification.NewModule(pool, val, log)
	notificationModule.RegisterHandlers(eventBus)
	defer notificationModule.Close()

	schoolsModule := schools.NewModule(pool, eventBus, val, log)
	repsModule := reps.NewModule(pool, store, cfg.GetMinioBucketRepDocuments(), val, log)
	authModule := auth.NewModule(pool, cfg, sender, log, val)

	// Admin sign-in kicks off the rep assignment sweep
	authModule.Service().SetSweepRunner(schoolsModule.Service())

	if err := authModule.Service().EnsureBootstrapAdmin(ctx); err != nil {
		panic("failed to provision bootstrap admin: " + err.Error())
	}

	resourcesModule := resources.NewModule(pool, store, cfg.GetMinioBucketResources(), val, log)
	templatesModule := templates.NewModule(pool, sender, val, log)
	messagingModule := messaging.NewModule(pool, repsModule.Service(), eventBus, val, log)
	incentivesModule := incentives.NewModule(pool, store, cfg.GetMinioBucketIncentiveImages(), eventBus, broadcastEnqueuer, val, log)
	pwaModule := pwa.NewModule(cfg)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			schoolsModule,
			repsModule,
			resourcesModule,
			templatesModule,
			messagingModule,
			incentivesModule,
			notificationModule,
			pwaModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initBroadcastEnqueuer(cfg config.SchedulerConfig, log *logger.Logger) (incentiveservice.BroadcastEnqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; incentive email broadcasts disabled")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("%s: %w", name, lastErr)
}
