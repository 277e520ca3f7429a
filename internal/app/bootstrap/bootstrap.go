package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	orderservice "orderhub/contexts/order-management/order-service"
	"orderhub/contexts/order-management/order-service/adapters/payment"
	postgresadapter "orderhub/contexts/order-management/order-service/adapters/postgres"
	redisadapter "orderhub/contexts/order-management/order-service/adapters/redis"
	"orderhub/contexts/order-management/order-service/application/workers"
	"orderhub/contexts/order-management/order-service/ports"
	"orderhub/internal/platform/config"
	"orderhub/internal/platform/db"
	"orderhub/internal/platform/httpserver"
	"orderhub/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server *httpserver.Server
	router *db.Router
	logger *slog.Logger
}

type WorkerApp struct {
	router    *db.Router
	publisher *messaging.Publisher
	consumers []*messaging.Consumer
	scheduler *workers.MessageScheduler
	interval  time.Duration
	logger    *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	router, err := connectRouter(cfg)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(router, logger)
	module := orderservice.NewModule(orderservice.Dependencies{
		Queries:  repo,
		Commands: repo,
		Clock:    postgresadapter.SystemClock{},
		Logger:   logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server: server,
		router: router,
		logger: logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	router, err := connectRouter(cfg)
	if err != nil {
		return nil, err
	}

	topologyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := messaging.ValidateTopics(topologyCtx, cfg.KafkaBrokers, requiredTopics(cfg)); err != nil {
		_ = router.Close()
		return nil, err
	}

	publisher := messaging.NewPublisher(cfg.KafkaBrokers, logger)

	var dedup ports.DedupCache
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		dedup = redisadapter.NewDedupCache(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}

	repo := postgresadapter.NewRepository(router, logger)
	module := orderservice.NewModule(orderservice.Dependencies{
		Queries:  repo,
		Commands: repo,
		Payment:  payment.NewGateway(logger),
		Dedup:    dedup,
		DedupTTL: cfg.DedupTTL,
		Clock:    postgresadapter.SystemClock{},
		Logger:   logger,
	})

	dispatcher := messaging.RetryDispatcher{
		DeadLetters: publisher,
		Policy: messaging.RetryPolicy{
			MaxAttempts:    cfg.RetryMaxAttempts,
			InitialBackoff: cfg.RetryBackoff,
			Multiplier:     cfg.RetryMultiplier,
			BackoffCap:     cfg.RetryBackoffCap,
		},
		Logger: logger,
	}

	consumers := []*messaging.Consumer{
		newConsumer(cfg, cfg.OrderQueue, dispatcher, module.Processor.Handle, logger),
		newConsumer(cfg, cfg.NotifyQueue, dispatcher, workers.NotificationProcessor{Logger: logger}.Handle, logger),
		newConsumer(cfg, cfg.AuditQueue, dispatcher, workers.AuditProcessor{Logger: logger}.Handle, logger),
	}

	var scheduler *workers.MessageScheduler
	if cfg.EnableDemoPublisher {
		scheduler = &workers.MessageScheduler{
			Publisher:         publisher,
			Clock:             postgresadapter.SystemClock{},
			OrderTopic:        cfg.OrderQueue.Topic,
			NotificationTopic: cfg.NotifyQueue.Topic,
			AuditTopic:        cfg.AuditQueue.Topic,
			Logger:            logger,
		}
	}

	return &WorkerApp{
		router:    router,
		publisher: publisher,
		consumers: consumers,
		scheduler: scheduler,
		interval:  cfg.DemoPublishInterval,
		logger:    logger,
	}, nil
}

func connectRouter(cfg config.Config) (*db.Router, error) {
	if strings.TrimSpace(cfg.QueryDSN) == "" {
		return nil, errors.New("QUERY_DSN is required")
	}
	if strings.TrimSpace(cfg.CommandDSN) == "" {
		return nil, errors.New("COMMAND_DSN is required")
	}
	return db.ConnectRouter(
		db.PoolConfig{DSN: cfg.QueryDSN, MaxConns: cfg.QueryMaxConns, MinIdleConns: cfg.QueryMinIdle},
		db.PoolConfig{DSN: cfg.CommandDSN, MaxConns: cfg.CommandMaxConns, MinIdleConns: cfg.CommandMinIdle},
	)
}

func newConsumer(
	cfg config.Config,
	queue config.QueueConfig,
	dispatcher messaging.RetryDispatcher,
	handler messaging.HandlerFunc,
	logger *slog.Logger,
) *messaging.Consumer {
	return messaging.NewConsumer(messaging.ConsumerConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   queue.Topic,
		GroupID: queue.Group,
		Workers: queue.MaxWorkers,
	}, dispatcher, handler, logger)
}

// requiredTopics lists every topic the worker touches: the three queues,
// their dead-letter siblings, and the shared fallback for messages whose
// origin could not be established.
func requiredTopics(cfg config.Config) []string {
	return []string{
		cfg.OrderQueue.Topic,
		cfg.OrderQueue.DeadLetterTopic(),
		cfg.NotifyQueue.Topic,
		cfg.NotifyQueue.DeadLetterTopic(),
		cfg.AuditQueue.Topic,
		cfg.AuditQueue.DeadLetterTopic(),
		messaging.DeadLetterTopic(""),
	}
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.router != nil {
		return a.router.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"consumers", len(w.consumers),
		"demo_publisher", w.scheduler != nil,
	)

	group, ctx := errgroup.WithContext(ctx)
	for _, consumer := range w.consumers {
		group.Go(func() error {
			return consumer.Run(ctx)
		})
	}

	if w.scheduler != nil {
		group.Go(func() error {
			ticker := time.NewTicker(w.interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := w.scheduler.RunOnce(ctx); err != nil {
						w.logger.Error("demo publish failed",
							"event", "demo_publish_failed",
							"module", "internal/app/bootstrap",
							"layer", "platform",
							"error", err.Error(),
						)
					}
				}
			}
		})
	}

	return group.Wait()
}

func (w *WorkerApp) Close() error {
	var errs []error
	for _, consumer := range w.consumers {
		errs = append(errs, consumer.Close())
	}
	if w.publisher != nil {
		errs = append(errs, w.publisher.Close())
	}
	if w.router != nil {
		errs = append(errs, w.router.Close())
	}
	return errors.Join(errs...)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
