package pipeline

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tailored-agentic-units/audioqa/observability"
)

// Request outcomes recorded by MetricsObserver.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeError    = "error"
)

// MetricsObserver turns pipeline events into Prometheus metrics. Combine it
// with a logging observer through observability.Combine.
type MetricsObserver struct {
	Requests        *prometheus.CounterVec
	ProviderCalls   *prometheus.CounterVec
	CacheHits       prometheus.Counter
	StageErrors     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetricsObserver creates the pipeline metrics and registers them with
// reg. A nil reg registers with prometheus.DefaultRegisterer.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &MetricsObserver{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audioqa_requests_total",
			Help: "Total number of answered or failed questions",
		}, []string{"mode", "outcome"}),
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audioqa_provider_calls_total",
			Help: "Total number of model provider calls by call type",
		}, []string{"call"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "audioqa_transcript_cache_hits_total",
			Help: "Total number of transcriptions served from the cache",
		}),
		StageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audioqa_stage_errors_total",
			Help: "Total number of failed requests by pipeline stage",
		}, []string{"stage"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "audioqa_request_duration_seconds",
			Help:    "End-to-end question answering latency",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"mode"}),
	}
}

func (m *MetricsObserver) OnEvent(_ context.Context, event observability.Event) {
	mode, _ := event.Data["mode"].(string)

	switch event.Type {
	case EventProviderCall:
		if call, ok := event.Data["call"].(string); ok {
			m.ProviderCalls.WithLabelValues(call).Inc()
		}
	case EventTranscribeCacheHit:
		m.CacheHits.Inc()
	case EventAnswerComplete:
		outcome := OutcomeSuccess
		if malformed, _ := event.Data["malformed"].(bool); malformed {
			outcome = OutcomeDegraded
		}
		m.Requests.WithLabelValues(mode, outcome).Inc()
		m.observeDuration(mode, event.Data["duration"])
	case EventError:
		m.Requests.WithLabelValues(mode, OutcomeError).Inc()
		if stage, _ := event.Data["stage"].(string); stage != "" {
			m.StageErrors.WithLabelValues(stage).Inc()
		}
		m.observeDuration(mode, event.Data["duration"])
	}
}

func (m *MetricsObserver) observeDuration(mode string, v any) {
	if d, ok := v.(time.Duration); ok {
		m.RequestDuration.WithLabelValues(mode).Observe(d.Seconds())
	}
}
