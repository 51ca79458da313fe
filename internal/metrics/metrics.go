// Package metrics 会话事件的 Prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"commercia-client/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "commercia"

// OtherIntentLabel 所有未知意图共用的标签值，避免服务端标签撑大序列数
const OtherIntentLabel = "other"

type Collector struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	replies     *prometheus.CounterVec
	intents     *prometheus.CounterVec
	latency     prometheus.Histogram
}

// New 使用独立的 registry，避免与默认全局指标冲突
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "User submissions by outcome (accepted, empty, pending, closed).",
		}, []string{"outcome"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Settled assistant requests by outcome (success, failure).",
		}, []string{"outcome"}),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reply_intents_total",
			Help:      "Assistant replies by intent label.",
		}, []string{"intent"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_request_seconds",
			Help:      "Round-trip time of assistant service requests.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	c.registry.MustRegister(
		c.submissions,
		c.replies,
		c.intents,
		c.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// 以下方法允许 nil 接收者，未启用指标时直接忽略

func (c *Collector) ObserveSubmission(outcome string) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome).Inc()
}

func (c *Collector) ObserveReply(outcome string, intent model.Intent) {
	if c == nil {
		return
	}
	c.replies.WithLabelValues(outcome).Inc()
	c.intents.WithLabelValues(IntentLabel(intent)).Inc()
}

// IntentLabel 已知意图使用自身标签，其余归入 OtherIntentLabel
func IntentLabel(intent model.Intent) string {
	if !intent.Known() {
		return OtherIntentLabel
	}
	return intent.Label
}

func (c *Collector) ObserveLatency(d time.Duration) {
	if c == nil {
		return
	}
	c.latency.Observe(d.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
