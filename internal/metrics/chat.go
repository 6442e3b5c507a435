package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline Prometheus metrics.
var (
	ChatAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvchat",
			Name:      "chat_answers_total",
			Help:      "Chat answers by outcome",
		},
		// outcome: ok, policy_blocked, degraded, fallback, cache_hit
		[]string{"outcome"},
	)

	RetrievalChunks = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "cvchat",
			Name:      "retrieval_chunks",
			Help:      "Number of chunks selected per query",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		},
	)

	CompletionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvchat",
			Name:      "completion_requests_total",
			Help:      "Total completion API requests",
		},
		[]string{"model", "status"},
	)

	CompletionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cvchat",
			Name:      "completion_request_duration_seconds",
			Help:      "Completion API request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	CompletionTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvchat",
			Name:      "completion_tokens_total",
			Help:      "Completion tokens consumed",
		},
		[]string{"model", "type"}, // "prompt" / "completion"
	)

	AnswerCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cvchat",
			Name:      "answer_cache_total",
			Help:      "Answer cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers the chat pipeline metrics. Must be called
// once from main (no init side effects for domain metrics).
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(ChatAnswersTotal)
	prometheus.MustRegister(RetrievalChunks)
	prometheus.MustRegister(CompletionRequestsTotal)
	prometheus.MustRegister(CompletionRequestDuration)
	prometheus.MustRegister(CompletionTokensTotal)
	prometheus.MustRegister(AnswerCacheTotal)
	chatMetricsRegistered = true
}
