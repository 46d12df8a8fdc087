// Package metrics records scanner-gke activity as Prometheus metrics.
//
// A nil *Recorder is valid and records nothing, so components can be
// constructed without metrics in tests and one-shot commands.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scanner_gke"

// Recorder owns a private registry and the counters scanner-gke exports.
type Recorder struct {
	registry *prometheus.Registry

	objectsCreated   *prometheus.CounterVec
	statusPolls      *prometheus.CounterVec
	sessionsStarted  prometheus.Counter
	sessionsStopped  prometheus.Counter
	previousSessions prometheus.Counter
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		objectsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_created_total",
			Help:      "Kubernetes objects created by reconciliation.",
		}, []string{"kind"}),
		statusPolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_polls_total",
			Help:      "Status polls issued while waiting for a resource.",
		}, []string{"resource"}),
		sessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_sessions_started_total",
			Help:      "Port-forward sessions started.",
		}),
		sessionsStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_sessions_stopped_total",
			Help:      "Port-forward sessions torn down by this process.",
		}),
		previousSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bridge_previous_sessions_terminated_total",
			Help:      "Sessions of earlier invocations terminated before a new start.",
		}),
	}

	r.registry.MustRegister(
		r.objectsCreated,
		r.statusPolls,
		r.sessionsStarted,
		r.sessionsStopped,
		r.previousSessions,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObjectCreated counts one created object of kind.
func (r *Recorder) ObjectCreated(kind string) {
	if r == nil {
		return
	}
	r.objectsCreated.WithLabelValues(kind).Inc()
}

// StatusPolled counts one status poll of resource ("cluster", "deployment").
func (r *Recorder) StatusPolled(resource string) {
	if r == nil {
		return
	}
	r.statusPolls.WithLabelValues(resource).Inc()
}

// SessionStarted counts a started bridge session.
func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.sessionsStarted.Inc()
}

// SessionStopped counts a bridge session torn down by this process.
func (r *Recorder) SessionStopped() {
	if r == nil {
		return
	}
	r.sessionsStopped.Inc()
}

// PreviousSessionTerminated counts a session of an earlier invocation that was replaced.
func (r *Recorder) PreviousSessionTerminated() {
	if r == nil {
		return
	}
	r.previousSessions.Inc()
}

// Serve exposes the registry on addr under /metrics until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	if r == nil {
		return errors.New("metrics recorder is not configured")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
