/*
Package metrics implements collection of dispatch performance metrics.

The collected metrics include the total request resolution time by status
code and method, the number of unmatched requests, and the number of
terminal resolution errors. The prometheus backend exposes them through a
standard promhttp handler.
*/
package metrics

import "time"

// Metrics is the collector interface used by the dispatch driver. The Void
// implementation discards everything.
type Metrics interface {

	// MeasureResponse records the full resolution duration of a request
	// together with the response status code and the request method.
	MeasureResponse(code int, method string, start time.Time)

	// IncRoutingFailed counts requests that no endpoint matched.
	IncRoutingFailed()

	// IncResolutionErrors counts requests terminated by a hard error.
	IncResolutionErrors()
}

// Void is the no-op implementation of the Metrics interface.
type Void struct{}

func (Void) MeasureResponse(int, string, time.Time) {}
func (Void) IncRoutingFailed()                      {}
func (Void) IncResolutionErrors()                   {}

// Default is used by the dispatch driver when no collector is configured.
var Default Metrics = Void{}
