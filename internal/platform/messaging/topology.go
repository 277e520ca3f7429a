package messaging

import (
	"context"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
)

// ValidateTopics confirms every required topic exists on the broker before
// consumers start. Fails fast so a missing queue or dead-letter topic is a
// deploy-time error, not a silent consumer stall.
func ValidateTopics(ctx context.Context, brokers []string, topics []string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("validate topics: no brokers configured")
	}

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("validate topics: dial %s: %w", brokers[0], err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("validate topics: read partitions: %w", err)
	}

	known := make(map[string]struct{}, len(partitions))
	for _, partition := range partitions {
		known[partition.Topic] = struct{}{}
	}

	var missing []string
	for _, topic := range topics {
		if _, ok := known[topic]; !ok {
			missing = append(missing, topic)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("validate topics: missing on broker: %s", strings.Join(missing, ", "))
	}
	return nil
}
