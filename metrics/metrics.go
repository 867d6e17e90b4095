// Package metrics exposes Prometheus counters for authorization decisions,
// cache operations and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider owns a private registry so tests and multiple servers in one
// process do not collide on the default one.
type Provider struct {
	registry      *prometheus.Registry
	decisions     *prometheus.CounterVec
	cacheOps      *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

func NewProvider(namespace string) *Provider {
	registry := prometheus.NewRegistry()
	p := &Provider{
		registry: registry,
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authz_decisions_total",
			Help:      "Authorization gate decisions by outcome.",
		}, []string{"decision"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache operations by kind and result.",
		}, []string{"op", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(
		p.decisions,
		p.cacheOps,
		p.httpRequests,
		p.httpDurations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveDecision counts one gate decision.
func (p *Provider) ObserveDecision(decision string) {
	p.decisions.WithLabelValues(decision).Inc()
}

// ObserveCacheOperation satisfies cache.Observer.
func (p *Provider) ObserveCacheOperation(op, result string) {
	p.cacheOps.WithLabelValues(op, result).Inc()
}

// Middleware records request counts and latency per matched route.
func (p *Provider) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		p.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		p.httpDurations.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}
