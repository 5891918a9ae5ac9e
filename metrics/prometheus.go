// Package metrics exposes engine, provider and insight telemetry to Prometheus
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/market-bubbles/core"
	"github.com/lixenwraith/market-bubbles/insight"
	"github.com/lixenwraith/market-bubbles/market"
	"github.com/lixenwraith/market-bubbles/physics"
)

const namespace = "market_bubbles"

// Recorder implements engine.Observer, provider.RefreshObserver and insight.Observer
// Each recorder owns its registry so tests and multiple instances do not collide
type Recorder struct {
	registry *prometheus.Registry

	frames      prometheus.Counter
	collisions  prometheus.Counter
	wallBounces prometheus.Counter
	bodies      prometheus.Gauge
	frameTime   prometheus.Histogram
	swaps       prometheus.Counter
	selections  *prometheus.CounterVec
	refreshes   *prometheus.CounterVec
	refreshTime prometheus.Histogram
	insights    *prometheus.CounterVec
	insightTime prometheus.Histogram
}

// New creates a recorder with Go runtime and process collectors registered
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of simulated and rendered frames",
		}),
		collisions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collisions_total",
			Help:      "Total number of resolved body collisions",
		}),
		wallBounces: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wall_bounces_total",
			Help:      "Total number of wall reflections",
		}),
		bodies: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bodies",
			Help:      "Bodies in the current snapshot",
		}),
		frameTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent in step and render per frame",
			Buckets:   []float64{.0005, .001, .002, .004, .008, .016, .032, .064},
		}),
		swaps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_swaps_total",
			Help:      "Total number of installed snapshots",
		}),
		selections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Market selections by category",
		}, []string{"category"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refreshes_total",
			Help:      "Market fetches by result",
		}, []string{"result"}),
		refreshTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Market fetch latency",
			Buckets:   prometheus.DefBuckets,
		}),
		insights: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insight_requests_total",
			Help:      "Insight requests by outcome",
		}, []string{"outcome"}),
		insightTime: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "insight_duration_seconds",
			Help:      "Insight generation latency",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveFrame records one frame
func (r *Recorder) ObserveFrame(stats physics.StepStats, bodies int, elapsed time.Duration) {
	r.frames.Inc()
	r.collisions.Add(float64(stats.Collisions))
	r.wallBounces.Add(float64(stats.WallBounces))
	r.bodies.Set(float64(bodies))
	r.frameTime.Observe(elapsed.Seconds())
}

// ObserveSwap records a snapshot installation
func (r *Recorder) ObserveSwap(bodies int) {
	r.swaps.Inc()
	r.bodies.Set(float64(bodies))
}

// ObserveSelection records a click on a body
func (r *Recorder) ObserveSelection(c market.Category) {
	label := string(c)
	if label == "" {
		label = "none"
	}
	r.selections.WithLabelValues(label).Inc()
}

// ObserveRefresh records a fetch
func (r *Recorder) ObserveRefresh(elapsed time.Duration, _ int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.refreshes.WithLabelValues(result).Inc()
	r.refreshTime.Observe(elapsed.Seconds())
}

// ObserveInsight records an insight request outcome
func (r *Recorder) ObserveInsight(o insight.Outcome, elapsed time.Duration) {
	r.insights.WithLabelValues(string(o)).Inc()
	r.insightTime.Observe(elapsed.Seconds())
}

// Registry returns the recorder's registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	core.Go(func() { errCh <- srv.ListenAndServe() })

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
