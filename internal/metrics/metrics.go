// Package metrics collects Prometheus metrics for the discussion service.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Collector records RPC traffic and domain events.
type Collector struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	messagesPosted  prometheus.Counter
	linkageFailures prometheus.Counter
	watchStreams    prometheus.Gauge
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "discussions_rpc_requests_total",
			Help: "RPCs handled, by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "discussions_rpc_duration_seconds",
			Help:    "RPC latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		messagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discussions_messages_posted_total",
			Help: "Messages successfully posted.",
		}),
		linkageFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "discussions_linkage_failures_total",
			Help: "Discussions that could not be linked to a member's user document.",
		}),
		watchStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "discussions_watch_streams",
			Help: "Open Watch streams.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.duration,
		c.messagesPosted,
		c.linkageFailures,
		c.watchStreams,
	)
	return c
}

// RecordRPC records one finished call.
func (c *Collector) RecordRPC(method string, err error, d time.Duration) {
	c.requests.WithLabelValues(method, status.Code(err).String()).Inc()
	c.duration.WithLabelValues(method).Observe(d.Seconds())
}

// RecordMessagePosted counts a posted message.
func (c *Collector) RecordMessagePosted() {
	c.messagesPosted.Inc()
}

// RecordLinkageFailures adds n failed member links.
func (c *Collector) RecordLinkageFailures(n int) {
	if n > 0 {
		c.linkageFailures.Add(float64(n))
	}
}

// WatchOpened and WatchClosed track open Watch streams.
func (c *Collector) WatchOpened() { c.watchStreams.Inc() }

func (c *Collector) WatchClosed() { c.watchStreams.Dec() }

// UnaryServerInterceptor records every unary call.
func (c *Collector) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		c.RecordRPC(info.FullMethod, err, time.Since(start))
		return resp, err
	}
}

// StreamServerInterceptor records every stream once it ends.
func (c *Collector) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		c.RecordRPC(info.FullMethod, err, time.Since(start))
		return err
	}
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
