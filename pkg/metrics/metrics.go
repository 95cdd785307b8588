package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Messages handled by the triage pipeline.
	MessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triage_messages_processed_total",
			Help: "Total number of messages processed by the triage pipeline",
		},
		[]string{"category", "outcome"}, // outcome: answered, resolved, audited, error
	)

	// Model call latency in milliseconds.
	ModelCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_call_latency_ms",
			Help:    "Latency of classification/embedding/completion calls in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"operation", "status"},
	)

	// Knowledge retrieval hits that passed the relevance threshold.
	RetrievalKeptSnippets = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retrieval_kept_snippets",
			Help:    "Number of snippets kept per query after relevance filtering",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		},
	)

	// Outbound replies.
	RepliesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "replies_sent_total",
			Help: "Total number of outbound replies attempted",
		},
		[]string{"status"}, // status: success, failed
	)

	// Outbox dispatch results.
	OutboxDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbox_dispatched_total",
			Help: "Total number of outbox events dispatched to MQ",
		},
		[]string{"status"}, // status: sent, failed
	)

	// Poll loop iterations.
	PollIterations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_iterations_total",
			Help: "Total number of poll loop iterations",
		},
		[]string{"result"}, // result: ok, error, idle
	)
)

// ObserveModelCall records a model call duration with its status.
func ObserveModelCall(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	ModelCallLatency.WithLabelValues(operation, status).
		Observe(float64(time.Since(start).Milliseconds()))
}
