package search

import (
	"context"
	"net/http"
	"time"

	dn "github.com/sharnoff/dynet"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of a search. Each Collector has its own registry, so
// several can exist in one process (as in tests).
//
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	Epochs        prometheus.Counter
	AbortedEpochs prometheus.Counter
	Rerolls       prometheus.Counter
	Restarts      prometheus.Counter

	BestAccuracy  prometheus.Gauge
	EpochDuration prometheus.Histogram
}

// NewCollector creates a Collector whose metrics are prefixed with namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Epochs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_total",
			Help:      "Total number of training epochs run",
		}),
		AbortedEpochs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "epochs_aborted_total",
			Help:      "Training epochs stopped early for falling below the cutoff",
		}),
		Rerolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rerolls_total",
			Help:      "Total number of times class weights were redrawn",
		}),
		Restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Total number of networks built",
		}),
		BestAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_accuracy",
			Help:      "Highest training accuracy reached so far, in [0, 1]",
		}),
		EpochDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "epoch_duration_seconds",
			Help:      "Time taken by each training epoch",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}

	c.registry.MustRegister(
		c.Epochs,
		c.AbortedEpochs,
		c.Rerolls,
		c.Restarts,
		c.BestAccuracy,
		c.EpochDuration,
	)

	return c
}

// Registry returns the registry holding the Collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the Collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) epoch(res dn.Result, aborted bool) {
	if c == nil {
		return
	}

	c.Epochs.Inc()
	if aborted {
		c.AbortedEpochs.Inc()
	}
	c.EpochDuration.Observe(res.Elapsed.Seconds())
}

func (c *Collector) reroll() {
	if c != nil {
		c.Rerolls.Inc()
	}
}

func (c *Collector) restart() {
	if c != nil {
		c.Restarts.Inc()
	}
}

func (c *Collector) improved(accuracy float64) {
	if c != nil {
		c.BestAccuracy.Set(accuracy)
	}
}

// Serve runs an HTTP server for the Collector's metrics at addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
