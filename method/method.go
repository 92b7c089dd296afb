/*
Package method provides endpoints matching the request method. A mismatch
is advisory with method not allowed semantics, so method guarded routes can
be chained with Or.
*/
package method

import (
	"net/http"

	"github.com/finchgo/finch/endpoint"
)

// Match creates an endpoint matching the given request method, producing
// the empty tuple.
func Match(m string) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		if pcx.Request().Method != m {
			return nil, endpoint.NotMatchedStatus(
				http.StatusMethodNotAllowed,
				"method "+pcx.Request().Method+" not allowed")
		}

		return nil, nil
	})
}

func Get() endpoint.Endpoint     { return Match(http.MethodGet) }
func Post() endpoint.Endpoint    { return Match(http.MethodPost) }
func Put() endpoint.Endpoint     { return Match(http.MethodPut) }
func Delete() endpoint.Endpoint  { return Match(http.MethodDelete) }
func Patch() endpoint.Endpoint   { return Match(http.MethodPatch) }
func Head() endpoint.Endpoint    { return Match(http.MethodHead) }
func Options() endpoint.Endpoint { return Match(http.MethodOptions) }
