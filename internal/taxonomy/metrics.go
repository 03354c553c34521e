package taxonomy

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/InterWorkAlliance/visual-token-designer/pkg/types"
)

// Recorder observes the outcome of every store operation.
type Recorder interface {
	Observe(operation string, err error, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Observe(string, error, time.Duration) {}

// Result label values.
const (
	resultOK              = "ok"
	resultNotFound        = "not_found"
	resultUnsupportedKind = "unsupported_kind"
	resultValidation      = "validation"
	resultException       = "exception"
	resultError           = "error"
)

// resultLabel maps an operation error onto its result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, types.ErrNotFound):
		return resultNotFound
	case errors.Is(err, types.ErrUnsupportedKind):
		return resultUnsupportedKind
	case errors.Is(err, types.ErrValidation):
		return resultValidation
	case errors.Is(err, types.ErrException):
		return resultException
	}
	return resultError
}

// PrometheusRecorder counts operations by result and tracks their latency.
type PrometheusRecorder struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheusRecorder creates the store collectors and registers them
// with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tokendesigner",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Artifact store operations by operation and result.",
		}, []string{"operation", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tokendesigner",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Artifact store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"operation"}),
	}
	if err := reg.Register(r.operations); err != nil {
		return nil, err
	}
	if err := reg.Register(r.durations); err != nil {
		reg.Unregister(r.operations)
		return nil, err
	}
	return r, nil
}

// Observe implements Recorder.
func (r *PrometheusRecorder) Observe(operation string, err error, duration time.Duration) {
	r.operations.WithLabelValues(operation, resultLabel(err)).Inc()
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
}
