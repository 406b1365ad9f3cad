package llm

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/testgenie/pkg/domain/interfaces"
	"github.com/secmon-lab/testgenie/pkg/domain/model"
)

// Prometheus completion metrics.
var (
	completionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "testgenie_completions_total",
			Help: "Total number of completion calls.",
		},
		[]string{"backend", "result"},
	)
	completionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testgenie_completion_duration_seconds",
			Help:    "Completion call duration in seconds.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"backend"},
	)
	completionReplyBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "testgenie_completion_reply_bytes",
			Help:    "Size of completion replies in bytes.",
			Buckets: prometheus.ExponentialBuckets(256, 2, 10),
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(completionsTotal)
	prometheus.MustRegister(completionDuration)
	prometheus.MustRegister(completionReplyBytes)
}

type instrumented struct {
	backend string
	next    interfaces.Completer
}

// Instrument records call count, latency and reply size of a completer
func Instrument(backend string, next interfaces.Completer) interfaces.Completer {
	return &instrumented{backend: backend, next: next}
}

func (c *instrumented) Complete(ctx context.Context, messages []model.Message) (string, error) {
	start := time.Now()
	text, err := c.next.Complete(ctx, messages)
	completionDuration.WithLabelValues(c.backend).Observe(time.Since(start).Seconds())

	if err != nil {
		completionsTotal.WithLabelValues(c.backend, "error").Inc()
		return "", err
	}
	completionsTotal.WithLabelValues(c.backend, "success").Inc()
	completionReplyBytes.WithLabelValues(c.backend).Observe(float64(len(text)))
	return text, nil
}
