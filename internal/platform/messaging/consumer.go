package messaging

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"
)

// ConsumerConfig describes one consumer-group subscription and the size of
// its worker pool.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string
	Workers int
}

// Consumer runs a pool of workers against a shared group reader. Each worker
// fetches, dispatches through the retry policy, and commits only messages
// that were consumed or successfully dead-lettered.
type Consumer struct {
	reader     *kafka.Reader
	dispatcher RetryDispatcher
	handler    HandlerFunc
	workers    int
	logger     *slog.Logger
	stopped    atomic.Bool
}

func NewConsumer(cfg ConsumerConfig, dispatcher RetryDispatcher, handler HandlerFunc, logger *slog.Logger) *Consumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			Topic:    cfg.Topic,
			GroupID:  cfg.GroupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
		dispatcher: dispatcher,
		handler:    handler,
		workers:    workers,
		logger:     logger,
	}
}

// Run blocks until the context is cancelled or Close is called.
func (c *Consumer) Run(ctx context.Context) error {
	if c.logger != nil {
		c.logger.Info("consumer started",
			"event", "consumer_started",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", c.reader.Config().Topic,
			"consumer_group", c.reader.Config().GroupID,
			"workers", c.workers,
		)
	}

	group, ctx := errgroup.WithContext(ctx)
	for i := 0; i < c.workers; i++ {
		group.Go(func() error {
			return c.consumeLoop(ctx)
		})
	}
	return group.Wait()
}

func (c *Consumer) consumeLoop(ctx context.Context) error {
	for {
		if c.stopped.Load() {
			return nil
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || c.stopped.Load() {
				return nil
			}
			if c.logger != nil {
				c.logger.Error("fetch failed",
					"event", "consumer_fetch_failed",
					"module", "internal/platform/messaging",
					"layer", "platform",
					"topic", c.reader.Config().Topic,
					"error", err.Error(),
				)
			}
			// Avoid a tight failure loop against a struggling broker.
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(time.Second):
			}
			continue
		}

		if err := c.dispatcher.Dispatch(ctx, msg, c.handler); err != nil {
			// Not committed: the broker redelivers after rebalance/restart.
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && c.logger != nil {
			c.logger.Error("commit failed",
				"event", "consumer_commit_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err.Error(),
			)
		}
	}
}

// Close stops the workers; Run returns once in-flight dispatches finish.
func (c *Consumer) Close() error {
	c.stopped.Store(true)
	return c.reader.Close()
}
