package messaging

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"orderhub/internal/platform/result"
)

// HandlerFunc processes one message payload. A nil return consumes the
// message; the failure's code decides between retry and dead-letter.
type HandlerFunc func(ctx context.Context, payload []byte) *result.Failure

type republisher interface {
	PublishMessage(ctx context.Context, msg kafka.Message) error
}

// RetryPolicy is the in-process redelivery schedule applied before a message
// dead-letters.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Multiplier     float64
	BackoffCap     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 1000 * time.Millisecond,
		Multiplier:     2.0,
		BackoffCap:     10000 * time.Millisecond,
	}
}

// RetryDispatcher runs a handler with bounded retries. Transient failures
// (TIMEOUT, UNAVAILABLE, DATABASE_ERROR, UNKNOWN) are retried on the backoff
// schedule; terminal failures (VALIDATION, NOT_FOUND, CONFLICT) dead-letter
// immediately. Exhausted messages dead-letter with the last failure attached.
type RetryDispatcher struct {
	DeadLetters republisher
	Policy      RetryPolicy
	// Sleep is swappable for tests; nil means a context-aware real sleep.
	Sleep  func(ctx context.Context, d time.Duration) error
	Logger *slog.Logger
}

// DeadLetterTopic names the parking topic for a failed message. Messages
// whose origin is unknown park under a shared fallback.
func DeadLetterTopic(origin string) string {
	if origin == "" {
		return "unknown.dlq"
	}
	return origin + ".dlq"
}

// Dispatch returns nil when the message is consumed, whether by success or by
// dead-lettering. A non-nil error means the message could not be parked and
// must not be committed.
func (d RetryDispatcher) Dispatch(ctx context.Context, msg kafka.Message, handler HandlerFunc) error {
	backoff := d.Policy.InitialBackoff
	var failure *result.Failure

	for attempt := 1; attempt <= d.Policy.MaxAttempts; attempt++ {
		failure = handler(ctx, msg.Value)
		if failure == nil {
			return nil
		}

		if !failure.Transient() {
			d.log(slog.LevelWarn, "terminal failure, dead-lettering without retry", msg, failure, attempt)
			return d.deadLetter(ctx, msg, failure)
		}

		if attempt < d.Policy.MaxAttempts {
			d.log(slog.LevelWarn, "transient failure, retry scheduled", msg, failure, attempt)
			if err := d.sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = d.nextBackoff(backoff)
		}
	}

	d.log(slog.LevelError, "retries exhausted, dead-lettering", msg, failure, d.Policy.MaxAttempts)
	return d.deadLetter(ctx, msg, failure)
}

func (d RetryDispatcher) nextBackoff(current time.Duration) time.Duration {
	next := time.Duration(float64(current) * d.Policy.Multiplier)
	if d.Policy.BackoffCap > 0 && next > d.Policy.BackoffCap {
		return d.Policy.BackoffCap
	}
	return next
}

func (d RetryDispatcher) sleep(ctx context.Context, duration time.Duration) error {
	if d.Sleep != nil {
		return d.Sleep(ctx, duration)
	}
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// deadLetter republishes the payload unchanged; the origin coordinates and
// the failure travel as headers so operators can trace the parked message.
func (d RetryDispatcher) deadLetter(ctx context.Context, msg kafka.Message, failure *result.Failure) error {
	parked := kafka.Message{
		Topic: DeadLetterTopic(msg.Topic),
		Key:   msg.Key,
		Value: msg.Value,
		Headers: []kafka.Header{
			{Key: "x-origin-topic", Value: []byte(msg.Topic)},
			{Key: "x-origin-partition", Value: []byte(strconv.Itoa(msg.Partition))},
			{Key: "x-origin-offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
			{Key: "x-error-code", Value: []byte(failure.Code)},
			{Key: "x-error-message", Value: []byte(failure.Message)},
		},
	}
	if err := d.DeadLetters.PublishMessage(ctx, parked); err != nil {
		if d.Logger != nil {
			d.Logger.Error("dead-letter publish failed, message will redeliver",
				"event", "dead_letter_publish_failed",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", msg.Topic,
				"dlq_topic", parked.Topic,
				"error", err.Error(),
			)
		}
		return err
	}
	return nil
}

func (d RetryDispatcher) log(level slog.Level, message string, msg kafka.Message, failure *result.Failure, attempt int) {
	if d.Logger == nil {
		return
	}
	d.Logger.Log(context.Background(), level, message,
		"event", "message_retry",
		"module", "internal/platform/messaging",
		"layer", "platform",
		"topic", msg.Topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"attempt", attempt,
		"max_attempts", d.Policy.MaxAttempts,
		"code", string(failure.Code),
		"error", failure.Message,
	)
}
