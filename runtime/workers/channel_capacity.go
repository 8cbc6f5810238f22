package workers

import (
	"chat-relay/observability"
	"context"
	"log/slog"
	"reflect"
	"time"
)

type NamedChannel struct {
	Name    string
	Channel any
}

// ChannelCapacityWorker periodically samples the length of internal queues.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with the producers or the consumers.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	metrics        *observability.Metrics
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	metrics *observability.Metrics, metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		metrics:        metrics,
		metricInterval: metricInterval,
	}
}

func (w ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w ChannelCapacityWorker) sample() {
	for _, nc := range w.channels {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			continue
		}
		length, capacity := v.Len(), v.Cap()
		w.metrics.SetQueueLength(nc.Name, length)
		if capacity > 0 && length == capacity {
			w.log.Warn("Queue is full", "name", nc.Name, "capacity", capacity)
		}
	}
}
