// Package main is the entry point for the content resolution API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/akoun-dev/africahub-sub004/internal/app/service"
	"github.com/akoun-dev/africahub-sub004/internal/config"
	"github.com/akoun-dev/africahub-sub004/internal/domain"
	tieredcache "github.com/akoun-dev/africahub-sub004/internal/infra/cache"
	"github.com/akoun-dev/africahub-sub004/internal/infra/memory"
	"github.com/akoun-dev/africahub-sub004/internal/infra/postgres"
	"github.com/akoun-dev/africahub-sub004/internal/infra/postgres/migrations"
	rediscache "github.com/akoun-dev/africahub-sub004/internal/infra/redis"
	"github.com/akoun-dev/africahub-sub004/internal/infra/webhook"
	"github.com/akoun-dev/africahub-sub004/internal/job"
	"github.com/akoun-dev/africahub-sub004/internal/logger"
	"github.com/akoun-dev/africahub-sub004/internal/transport/httpserver"
	"github.com/akoun-dev/africahub-sub004/internal/validator"
	"github.com/akoun-dev/africahub-sub004/pkg/locker"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting content resolution service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
	)

	// Connect to database
	db, err := postgres.NewConnection(
		postgres.Config{
			Host:         cfg.Database.Host,
			Port:         cfg.Database.Port,
			Name:         cfg.Database.Name,
			User:         cfg.Database.User,
			Password:     cfg.Database.Password,
			SSLMode:      cfg.Database.SSLMode,
			MaxOpenConns: cfg.Database.MaxOpenConns,
			MaxIdleConns: cfg.Database.MaxIdleConns,
			MaxLifetime:  cfg.Database.MaxLifetime,
		},
		log.Logger,
	)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = postgres.Close(db) }()

	// Run migrations
	if err := migrations.Run(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	log.Info("database migrations completed")

	// Create repositories
	contentRepo := postgres.NewRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = redisClient.Close() }()
	log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

	// Assemble the cache tiers
	var resolveCache domain.Cache
	localCache := memory.New(cfg.Cache.LocalTTL, cfg.Cache.LocalSize)
	defer localCache.Close()

	if cfg.Cache.Enabled {
		sharedCache := rediscache.NewCache(redisClient, log.Logger, cfg.Cache.KeyPrefix)
		resolveCache = tieredcache.NewTiered(localCache, sharedCache, log.Logger, cfg.Cache.LocalTTL)
		log.Info("cache enabled",
			zap.Duration("resolve_ttl", cfg.Cache.ResolveTTL),
			zap.Duration("negative_ttl", cfg.Cache.NegativeTTL),
			zap.String("key_prefix", cfg.Cache.KeyPrefix),
		)
	} else {
		resolveCache = localCache
		log.Info("shared cache disabled, using local tier only")
	}

	// Invalidation channel
	publisher := rediscache.NewPublisher(redisClient, log.Logger, cfg.Events.Channel)

	subscriber := rediscache.NewSubscriber(redisClient, log.Logger, cfg.Events.Channel,
		func(evCtx context.Context, event domain.ChangeEvent) {
			// Our own shared-tier eviction already ran at mutation time;
			// the subscription exists to drop this instance's local tier.
			if err := localCache.DeletePattern(evCtx, event.CacheKeyPattern()); err != nil {
				log.Warn("local eviction failed",
					zap.String("content_key", event.ContentKey),
					zap.Error(err),
				)
			}
		})
	if err := subscriber.Start(ctx); err != nil {
		log.Fatal("failed to start invalidation subscriber", zap.Error(err))
	}
	defer func() { _ = subscriber.Stop() }()

	// Purge webhook notifier (optional)
	var notifier service.PurgeNotifier
	if cfg.Webhook.Enabled && len(cfg.Webhook.Endpoints) > 0 {
		notifierCfgs := make([]webhook.ClientConfig, 0, len(cfg.Webhook.Endpoints))
		for _, endpoint := range cfg.Webhook.Endpoints {
			notifierCfgs = append(notifierCfgs, webhook.ClientConfig{
				Endpoint: endpoint,
				Timeout:  cfg.Webhook.Timeout,
				Retry: webhook.RetryConfig{
					MaxAttempts: cfg.Webhook.Retry.MaxAttempts,
					WaitTime:    cfg.Webhook.Retry.WaitTime,
					MaxWaitTime: cfg.Webhook.Retry.MaxWaitTime,
				},
				CB: webhook.CBConfig{
					MaxRequests:  cfg.Webhook.CB.MaxRequests,
					Interval:     cfg.Webhook.CB.Interval,
					Timeout:      cfg.Webhook.CB.Timeout,
					FailureRatio: cfg.Webhook.CB.FailureRatio,
				},
			})
		}
		notifier = webhook.NewNotifier(notifierCfgs, log.Logger)
		log.Info("purge webhooks enabled", zap.Int("endpoints", len(cfg.Webhook.Endpoints)))
	}

	// Create services
	resolutionSvc := service.NewResolutionService(
		contentRepo,
		resolveCache,
		publisher,
		analyticsRepo,
		notifier,
		log.Logger,
		service.Options{
			CacheEnabled:   cfg.Cache.Enabled,
			ResolveTTL:     cfg.Cache.ResolveTTL,
			NegativeTTL:    cfg.Cache.NegativeTTL,
			CacheOpTimeout: cfg.Cache.OpTimeout,
			StoreTimeout:   cfg.Database.OpTimeout,
			PublishTimeout: cfg.Events.PublishTimeout,
		},
	)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, log.Logger)

	// Create distributed locker
	distLocker := locker.NewRedisLocker(redisClient, log.Logger)

	// Create validator
	v := validator.New()

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Port:      cfg.App.Port,
			BodyLimit: 1024 * 1024, // 1MB
		},
		resolutionSvc,
		analyticsSvc,
		db,
		v,
		log.Logger,
	)

	// Start retention scheduler with distributed locking
	scheduler := job.NewRetentionScheduler(
		analyticsSvc,
		job.RetentionConfig{
			Interval:  cfg.Retention.Interval,
			Horizon:   cfg.Retention.Horizon,
			LockTTL:   cfg.Retention.LockTTL,
			OnStartup: cfg.Retention.OnStartup,
		},
		log.Logger,
		distLocker,
	)
	scheduler.Start(cfg.Retention.OnStartup)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
