// Package observability exposes prometheus metrics for the relay.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Message outcomes.
const (
	OutcomeFannedOut           = "fanned_out"
	OutcomeDroppedInactive     = "dropped_inactive"
	OutcomeDroppedMalformed    = "dropped_malformed"
	OutcomeDroppedBackpressure = "dropped_backpressure"
)

// Translation and delivery results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultCached  = "cached"
	ResultSkipped = "skipped"
)

// Metrics tracks fan-out, translation and registry activity.
type Metrics struct {
	Messages            *prometheus.CounterVec
	Translations        *prometheus.CounterVec
	Deliveries          *prometheus.CounterVec
	LanguageMismatches  prometheus.Counter
	ActiveParticipants  prometheus.Gauge
	QueueLength         *prometheus.GaugeVec
	TranslationDuration prometheus.Histogram
	FanoutDuration      prometheus.Histogram
}

// NewMetrics registers every metric on reg. Tests pass a fresh
// prometheus.NewRegistry() so that several instances can coexist.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_messages_total",
			Help: "Inbound messages by outcome",
		}, []string{"outcome"}),
		Translations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_translations_total",
			Help: "Per-recipient translation lookups by result",
		}, []string{"result"}),
		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_relay_deliveries_total",
			Help: "Per-recipient deliveries by result",
		}, []string{"result"}),
		LanguageMismatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_relay_language_mismatch_total",
			Help: "Messages whose detected language differs from the sender's declared one",
		}),
		ActiveParticipants: factory.NewGauge(prometheus.GaugeOpts{
			Name: "chat_relay_active_participants",
			Help: "Participants with both a name and a language",
		}),
		QueueLength: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "chat_relay_queue_length",
			Help: "Sampled length of internal queues",
		}, []string{"queue"}),
		TranslationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chat_relay_translation_duration_seconds",
			Help:    "Duration of translation provider calls",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		FanoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chat_relay_fanout_duration_seconds",
			Help:    "Duration of a whole fan-out, from snapshot to the last delivery",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

func (m *Metrics) IncMessage(outcome string) {
	m.Messages.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncTranslation(result string) {
	m.Translations.WithLabelValues(result).Inc()
}

func (m *Metrics) IncDelivery(result string) {
	m.Deliveries.WithLabelValues(result).Inc()
}

func (m *Metrics) IncLanguageMismatch() {
	m.LanguageMismatches.Inc()
}

func (m *Metrics) SetActiveParticipants(n int) {
	m.ActiveParticipants.Set(float64(n))
}

func (m *Metrics) SetQueueLength(queue string, n int) {
	m.QueueLength.WithLabelValues(queue).Set(float64(n))
}

// ObserveTranslation records the duration of a provider call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveTranslation(start time.Time) {
	m.TranslationDuration.Observe(time.Since(start).Seconds())
}

// ObserveFanout records the duration of a fan-out.
func (m *Metrics) ObserveFanout(start time.Time) {
	m.FanoutDuration.Observe(time.Since(start).Seconds())
}
