package chat

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type chatMetricsProvider struct {
	turns     *prometheus.CounterVec
	actions   *prometheus.CounterVec
	turnTimes prometheus.Histogram
}

func newChatMetricsProvider(registry *prometheus.Registry) *chatMetricsProvider {
	if registry == nil {
		return nil
	}

	provider := &chatMetricsProvider{
		turns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_turns_total",
				Help: "Total number of chat turns by outcome",
			},
			[]string{"status"},
		),
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chat_task_actions_total",
				Help: "Total number of task actions recorded by the model, by kind",
			},
			[]string{"kind"},
		),
		turnTimes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chat_turn_duration_seconds",
				Help:    "Duration of chat turns in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		provider.turns,
		provider.actions,
		provider.turnTimes,
	)

	return provider
}

func (p *chatMetricsProvider) ObserveTurn(status string, duration time.Duration) {
	if p == nil {
		return
	}
	p.turns.WithLabelValues(status).Inc()
	p.turnTimes.Observe(duration.Seconds())
}

func (p *chatMetricsProvider) CountActions(actions Actions) {
	if p == nil {
		return
	}
	p.actions.WithLabelValues("create").Add(float64(len(actions.Create)))
	p.actions.WithLabelValues("delete").Add(float64(len(actions.Delete)))
	p.actions.WithLabelValues("complete").Add(float64(len(actions.Complete)))
	p.actions.WithLabelValues("uncomplete").Add(float64(len(actions.Uncomplete)))
}
