package config

import "testing"

func TestParseConcurrency(t *testing.T) {
	cases := []struct {
		raw      string
		min, max int
		wantErr  bool
	}{
		{"1-10", 1, 10, false},
		{"1-5", 1, 5, false},
		{" 2-3 ", 2, 3, false},
		{"10", 0, 0, true},
		{"0-5", 0, 0, true},
		{"5-1", 0, 0, true},
		{"a-b", 0, 0, true},
	}
	for _, tc := range cases {
		minWorkers, maxWorkers, err := parseConcurrency(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.raw, err)
			continue
		}
		if minWorkers != tc.min || maxWorkers != tc.max {
			t.Errorf("%q: got %d-%d, want %d-%d", tc.raw, minWorkers, maxWorkers, tc.min, tc.max)
		}
	}
}

func TestDeadLetterTopic(t *testing.T) {
	q := QueueConfig{Topic: "orderhub.order.queue"}
	if got := q.DeadLetterTopic(); got != "orderhub.order.queue.dlq" {
		t.Fatalf("unexpected dlq topic %s", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "orderhub" {
		t.Errorf("unexpected service name %s", cfg.ServiceName)
	}
	if cfg.QueryMaxConns <= cfg.CommandMaxConns {
		t.Errorf("query pool should be larger than command pool: %d vs %d",
			cfg.QueryMaxConns, cfg.CommandMaxConns)
	}
	if cfg.RetryMaxAttempts != 3 || cfg.RetryMultiplier != 2.0 {
		t.Errorf("unexpected retry defaults: %+v", cfg)
	}
	if cfg.OrderQueue.MaxWorkers != 10 || cfg.NotifyQueue.MaxWorkers != 5 || cfg.AuditQueue.MaxWorkers != 3 {
		t.Errorf("unexpected queue concurrency defaults: %+v", cfg)
	}
}
