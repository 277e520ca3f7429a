package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	// CQRS datasources: the query pool serves reads and is sized larger,
	// the command pool serves writes.
	QueryDSN        string
	QueryMaxConns   int
	QueryMinIdle    int
	CommandDSN      string
	CommandMaxConns int
	CommandMinIdle  int

	KafkaBrokers []string
	OrderQueue   QueueConfig
	NotifyQueue  QueueConfig
	AuditQueue   QueueConfig

	RetryMaxAttempts int
	RetryBackoff     time.Duration
	RetryMultiplier  float64
	RetryBackoffCap  time.Duration

	// Optional fast-path dedup cache ahead of the database check.
	RedisAddr string
	DedupTTL  time.Duration

	EnableDemoPublisher bool
	DemoPublishInterval time.Duration
}

// QueueConfig names one durable queue and bounds its consumer pool.
type QueueConfig struct {
	Topic      string
	Group      string
	MinWorkers int
	MaxWorkers int
}

func (q QueueConfig) DeadLetterTopic() string {
	return q.Topic + ".dlq"
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "orderhub"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	order, err := queueConfig("ORDER", "orderhub.order.queue", "order-workers", "1-10")
	if err != nil {
		return Config{}, err
	}
	notify, err := queueConfig("NOTIFICATION", "orderhub.notification.queue", "notification-workers", "1-5")
	if err != nil {
		return Config{}, err
	}
	audit, err := queueConfig("AUDIT", "orderhub.audit.queue", "audit-workers", "1-3")
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,

		QueryDSN:        os.Getenv("QUERY_DSN"),
		QueryMaxConns:   envInt("QUERY_MAX_CONNS", 30),
		QueryMinIdle:    envInt("QUERY_MIN_IDLE", 5),
		CommandDSN:      os.Getenv("COMMAND_DSN"),
		CommandMaxConns: envInt("COMMAND_MAX_CONNS", 5),
		CommandMinIdle:  envInt("COMMAND_MIN_IDLE", 3),

		KafkaBrokers: brokers,
		OrderQueue:   order,
		NotifyQueue:  notify,
		AuditQueue:   audit,

		RetryMaxAttempts: envInt("RETRY_MAX_ATTEMPTS", 3),
		RetryBackoff:     envDuration("RETRY_BACKOFF_MS", 1000*time.Millisecond),
		RetryMultiplier:  envFloat("RETRY_MULTIPLIER", 2.0),
		RetryBackoffCap:  envDuration("RETRY_BACKOFF_CAP_MS", 10000*time.Millisecond),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		DedupTTL:  envDuration("DEDUP_TTL_MS", 24*time.Hour),

		EnableDemoPublisher: envBool("ENABLE_DEMO_PUBLISHER", false),
		DemoPublishInterval: envDuration("DEMO_PUBLISH_INTERVAL_MS", 5000*time.Millisecond),
	}, nil
}

func queueConfig(prefix, topic, group, fallbackConcurrency string) (QueueConfig, error) {
	topic = envString(prefix+"_TOPIC", topic)
	minWorkers, maxWorkers, err := parseConcurrency(envString(prefix+"_CONCURRENCY", fallbackConcurrency))
	if err != nil {
		return QueueConfig{}, fmt.Errorf("%s_CONCURRENCY: %w", prefix, err)
	}
	return QueueConfig{
		Topic:      topic,
		Group:      group,
		MinWorkers: minWorkers,
		MaxWorkers: maxWorkers,
	}, nil
}

// parseConcurrency reads the "min-max" worker range used per queue.
func parseConcurrency(raw string) (int, int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("concurrency must be min-max, got %q", raw)
	}
	minWorkers, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min concurrency %q", parts[0])
	}
	maxWorkers, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max concurrency %q", parts[1])
	}
	if minWorkers < 1 || maxWorkers < minWorkers {
		return 0, 0, fmt.Errorf("concurrency range %q out of order", raw)
	}
	return minWorkers, maxWorkers, nil
}

func envString(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(name string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
