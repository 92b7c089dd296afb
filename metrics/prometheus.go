package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	promNamespace         = "finch"
	promResponseSubsystem = "response"
	promRouteSubsystem    = "route"
)

// Options for the prometheus metrics backend.
type Options struct {

	// Prefix overrides the default metric namespace.
	Prefix string

	// HistogramBuckets for the response duration histogram. When nil,
	// prometheus.DefBuckets is used.
	HistogramBuckets []float64

	// Registry to register the collectors with. When nil, a new one is
	// created.
	Registry *prometheus.Registry
}

// Prometheus implements the prometheus metrics backend.
type Prometheus struct {
	responseM         *prometheus.HistogramVec
	routeErrorsM      prometheus.Counter
	resolutionErrorsM prometheus.Counter

	registry *prometheus.Registry
	handler  http.Handler
}

// NewPrometheus returns a new prometheus metric backend.
func NewPrometheus(opts Options) *Prometheus {
	namespace := promNamespace
	if opts.Prefix != "" {
		namespace = opts.Prefix
	}

	buckets := opts.HistogramBuckets
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}

	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	response := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: promResponseSubsystem,
		Name:      "duration_seconds",
		Help:      "Duration in seconds of a response.",
		Buckets:   buckets,
	}, []string{"code", "method"})

	routeErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: promRouteSubsystem,
		Name:      "error_total",
		Help:      "The total of requests that no endpoint matched.",
	})

	resolutionErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: promResponseSubsystem,
		Name:      "error_total",
		Help:      "The total of requests terminated by a hard error.",
	})

	registry.MustRegister(response, routeErrors, resolutionErrors)

	return &Prometheus{
		responseM:         response,
		routeErrorsM:      routeErrors,
		resolutionErrorsM: resolutionErrors,
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
}

// Handler returns an http.Handler exposing the collected metrics.
func (p *Prometheus) Handler() http.Handler {
	return p.handler
}

func (p *Prometheus) MeasureResponse(code int, method string, start time.Time) {
	p.responseM.WithLabelValues(strconv.Itoa(code), method).
		Observe(time.Since(start).Seconds())
}

func (p *Prometheus) IncRoutingFailed() {
	p.routeErrorsM.Inc()
}

func (p *Prometheus) IncResolutionErrors() {
	p.resolutionErrorsM.Inc()
}
