// Package metrics exposes Prometheus metrics for intent execution and
// outgoing collection requests.
//
// Counters:
//
//	jokes_intents_total{intent,outcome}
//	jokes_http_requests_total{code,method}
//
// Histograms:
//
//	jokes_intent_duration_seconds{intent}
//	jokes_http_request_duration_seconds{method}
//
// Gauges:
//
//	jokes_intents_in_flight
//	jokes_collection_items
//
// Every Collector owns a private registry, so several can coexist in tests.
package metrics

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comteq/jokes/internal/collection"
)

const namespace = "jokes"

// Collector records intent and HTTP metrics. It implements
// collection.Recorder.
type Collector struct {
	registry *prometheus.Registry

	intents        *prometheus.CounterVec
	intentDuration *prometheus.HistogramVec
	inFlight       prometheus.Gauge
	items          prometheus.Gauge

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var _ collection.Recorder = (*Collector)(nil)

// NewCollector creates a collector with its own registry. Go runtime and
// process collectors are registered alongside.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intents_total",
			Help:      "Intents executed, by terminal outcome",
		}, []string{"intent", "outcome"}),
		intentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "intent_duration_seconds",
			Help:      "Intent execution time including the follow-up load",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "intents_in_flight",
			Help:      "Intents currently executing",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_items",
			Help:      "Records in the last loaded collection",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests sent to the collection server",
		}, []string{"code", "method"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Round-trip time of collection server requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	c.registry.MustRegister(
		c.intents,
		c.intentDuration,
		c.inFlight,
		c.items,
		c.httpRequests,
		c.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// IntentStarted implements collection.Recorder.
func (c *Collector) IntentStarted(collection.Intent) {
	c.inFlight.Inc()
}

// IntentFinished implements collection.Recorder.
func (c *Collector) IntentFinished(intent collection.Intent, outcome collection.Outcome, elapsed time.Duration) {
	c.inFlight.Dec()
	c.intents.WithLabelValues(string(intent), string(outcome)).Inc()
	c.intentDuration.WithLabelValues(string(intent)).Observe(elapsed.Seconds())
}

// CollectionSize implements collection.Recorder.
func (c *Collector) CollectionSize(n int) {
	c.items.Set(float64(n))
}

// InstrumentTransport wraps next with request counting and timing. A nil
// next uses http.DefaultTransport.
func (c *Collector) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(c.httpRequests,
		promhttp.InstrumentRoundTripperDuration(c.httpDuration, next))
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return c.serve(ctx, ln)
}

func (c *Collector) serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("metrics listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
