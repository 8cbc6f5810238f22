package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestChannelCapacityWorker_SamplesQueueLength(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	queue := make(chan int, 4)
	queue <- 1
	queue <- 2

	worker := NewChannelCapacityWorker(log, []NamedChannel{
		{Name: "messages", Channel: queue},
		{Name: "broken", Channel: 42},
	}, metrics, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	req.Eventually(func() bool {
		return testutil.ToFloat64(metrics.QueueLength.WithLabelValues("messages")) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	req.NoError(<-done)
}
