package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/shopspring/decimal"

	application "orderhub/contexts/order-management/order-service/application"
	"orderhub/contexts/order-management/order-service/ports"
)

// MessageScheduler feeds the demo pipeline: each cycle publishes one order
// message plus a notification and an audit event. Feature-flag gated; the
// worker process drives RunOnce on a ticker.
type MessageScheduler struct {
	Publisher         ports.Publisher
	Clock             ports.Clock
	OrderTopic        string
	NotificationTopic string
	AuditTopic        string
	Logger            *slog.Logger

	counter atomic.Int64
}

func (s *MessageScheduler) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	cycle := s.counter.Add(1)
	now := s.Clock.Now().UTC()

	order := OrderMessage{
		OrderID:     fmt.Sprintf("ORD-%d", 1000+cycle),
		CustomerID:  fmt.Sprintf("CUST-%d", 100+cycle%50),
		Amount:      decimal.NewFromFloat(99.99),
		ProductCode: fmt.Sprintf("PROD-%d", 400+cycle%10),
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return err
	}
	if err := s.Publisher.Publish(ctx, s.OrderTopic, []byte(order.OrderID), payload); err != nil {
		return err
	}

	notification := fmt.Sprintf("notification #%d sent at %s", cycle, now.Format("2006-01-02 15:04:05"))
	if err := s.Publisher.Publish(ctx, s.NotificationTopic, nil, []byte(notification)); err != nil {
		return err
	}

	audit := fmt.Sprintf("audit event #%d logged at %s", cycle, now.Format("2006-01-02 15:04:05"))
	if err := s.Publisher.Publish(ctx, s.AuditTopic, nil, []byte(audit)); err != nil {
		return err
	}

	logger.Info("demo messages published",
		"event", "demo_messages_published",
		"module", "order-management/order-service",
		"layer", "worker",
		"cycle", cycle,
		"order_id", order.OrderID,
	)
	return nil
}
