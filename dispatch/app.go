/*
Package dispatch serves HTTP requests by driving an endpoint through the
preflight and poll phases, converting its output or error into a response.
*/
package dispatch

import (
	"errors"
	"net/http"
	"time"

	ot "github.com/opentracing/opentracing-go"

	"github.com/finchgo/finch/endpoint"
	"github.com/finchgo/finch/logging"
	"github.com/finchgo/finch/metrics"
)

// Used when the client closed the connection before the endpoint resolved.
// Nothing is written to the response in this case.
const statusClientClosedRequest = 499

var errPollLimit = errors.New("poll limit exceeded")

// Params contains the configuration of an App.
type Params struct {

	// Endpoint is the root of the dispatched endpoint tree. Required.
	Endpoint endpoint.Endpoint

	// Responder converts endpoint output to responses. When nil, the
	// default responder is used.
	Responder Responder

	// Logger receives application log entries. When nil, the default
	// logrus backed logger is used.
	Logger logging.Logger

	// Metrics receives resolution timings and error counts. When nil,
	// collection is disabled.
	Metrics metrics.Metrics

	// OpenTracing traces request resolution. When nil, the noop tracer
	// is used.
	OpenTracing ot.Tracer

	// DefaultStatus is the response status for requests that no endpoint
	// matched. Defaults to 404.
	DefaultStatus int

	// PollLimit bounds the number of poll steps per request. Zero means
	// no limit.
	PollLimit int

	// AccessLogDisabled suppresses the access log for this App even when
	// logging.Init enabled it.
	AccessLogDisabled bool
}

// App implements http.Handler on top of an endpoint.
type App struct {
	endpoint          endpoint.Endpoint
	responder         Responder
	log               logging.Logger
	metrics           metrics.Metrics
	tracer            ot.Tracer
	defaultStatus     int
	pollLimit         int
	accessLogDisabled bool
}

// New creates an App from its params, filling in defaults. It panics when
// the endpoint is missing.
func New(p Params) *App {
	if p.Endpoint == nil {
		panic("dispatch: missing endpoint")
	}

	if p.Responder == nil {
		p.Responder = defaultResponder{}
	}

	if p.Logger == nil {
		p.Logger = logging.New()
	}

	if p.Metrics == nil {
		p.Metrics = metrics.Default
	}

	if p.OpenTracing == nil {
		p.OpenTracing = &ot.NoopTracer{}
	}

	if p.DefaultStatus <= 0 {
		p.DefaultStatus = http.StatusNotFound
	}

	return &App{
		endpoint:          p.Endpoint,
		responder:         p.Responder,
		log:               p.Logger,
		metrics:           p.Metrics,
		tracer:            p.OpenTracing,
		defaultStatus:     p.DefaultStatus,
		pollLimit:         p.PollLimit,
		accessLogDisabled: p.AccessLogDisabled,
	}
}

// statusWriter records the written status code so that it can be logged
// and measured after the responder ran.
type statusWriter struct {
	http.ResponseWriter
	code    int
	written bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.written {
		w.code = code
		w.written = true
	}

	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.code = http.StatusOK
		w.written = true
	}

	return w.ResponseWriter.Write(b)
}

// resolve drives one request through the endpoint. It returns the output
// tuple of the matched endpoint, or the error that terminated resolution.
func (a *App) resolve(r *http.Request) (endpoint.Values, error) {
	pcx := endpoint.NewPreflightContext(r)
	act := endpoint.Guard(a.endpoint.Action())

	pf, err := act.Preflight(pcx)
	if err != nil {
		return nil, err
	}

	if pf.IsCompleted() {
		if pcx.RemainingPath() != "" {
			return nil, endpoint.NotMatched("unconsumed path segments")
		}

		return pf.Output(), nil
	}

	acx := endpoint.NewActionContext(r.Context(), r, r.Body)
	defer acx.Close()

	for polls := 0; ; polls++ {
		select {
		case <-r.Context().Done():
			return nil, r.Context().Err()
		default:
		}

		if a.pollLimit > 0 && polls >= a.pollLimit {
			return nil, endpoint.InternalServerError(errPollLimit)
		}

		p, err := act.PollAction(acx)
		if err != nil {
			return nil, err
		}

		if p.IsReady() {
			if pcx.RemainingPath() != "" {
				return nil, endpoint.NotMatched("unconsumed path segments")
			}

			return p.Output(), nil
		}
	}
}

// errorStatus maps a resolution error to a response status and updates the
// error counters. Advisory errors without a more specific status become the
// configured default status.
func (a *App) errorStatus(err error) int {
	code := endpoint.StatusCodeOf(err)
	if endpoint.IsNotMatched(err) {
		a.metrics.IncRoutingFailed()
		if code == http.StatusNotFound {
			code = a.defaultStatus
		}

		return code
	}

	a.metrics.IncResolutionErrors()
	return code
}

func (a *App) sendError(w http.ResponseWriter, code int) {
	http.Error(w, http.StatusText(code), code)
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	span := a.tracer.StartSpan("dispatch")
	span.SetTag("http.method", r.Method)
	span.SetTag("http.url", r.URL.String())
	defer span.Finish()

	sw := &statusWriter{ResponseWriter: w}
	out, err := a.resolve(r)

	switch {
	case r.Context().Err() != nil:
		// Client is gone, write nothing. Status 499 is for the logs.
		sw.code = statusClientClosedRequest
		sw.written = true
		a.log.Infof("client canceled request: %s %s", r.Method, r.URL)
	case err != nil:
		code := a.errorStatus(err)
		if code >= http.StatusInternalServerError {
			a.log.Errorf("error while resolving %s %s: %v", r.Method, r.URL, err)
		} else {
			a.log.Debugf("request not resolved: %s %s: %v", r.Method, r.URL, err)
		}

		a.sendError(sw, code)
	default:
		if err := a.responder.Respond(sw, r, out); err != nil {
			a.log.Errorf("error while writing response for %s %s: %v", r.Method, r.URL, err)
			if !sw.written {
				a.sendError(sw, http.StatusInternalServerError)
			}
		} else if !sw.written {
			sw.code = http.StatusOK
			sw.written = true
		}
	}

	span.SetTag("http.status_code", uint16(sw.code))
	a.metrics.MeasureResponse(sw.code, r.Method, start)

	if !a.accessLogDisabled {
		logging.LogAccess(&logging.AccessEntry{
			Request:     r,
			StatusCode:  sw.code,
			Duration:    time.Since(start),
			RequestTime: start,
		})
	}
}
