/*
Package header provides endpoints matching and extracting request headers.
All of them resolve during preflight.
*/
package header

import (
	"mime"
	"net/http"

	"github.com/finchgo/finch/endpoint"
)

// Exact matches a request carrying the given header with exactly the given
// value. A missing header or a different value is an advisory mismatch.
func Exact(name, value string) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		if pcx.Request().Header.Get(name) != value {
			return nil, endpoint.NotMatched("header " + name + " mismatch")
		}

		return nil, nil
	})
}

// Value extracts the value of the given header. A missing header is an
// advisory mismatch with bad request semantics.
func Value(name string) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		v := pcx.Request().Header.Get(name)
		if v == "" {
			return nil, endpoint.NotMatchedStatus(
				http.StatusBadRequest,
				"missing header "+name)
		}

		return endpoint.One(v), nil
	})
}

// Optional extracts the value of the given header, falling back to def when
// the header is absent.
func Optional(name, def string) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		v := pcx.Request().Header.Get(name)
		if v == "" {
			v = def
		}

		return endpoint.One(v), nil
	})
}

// ContentType extracts the media type of the request, parsed from the
// Content-Type header without its parameters. A missing or malformed
// header is an advisory mismatch with bad request semantics.
func ContentType() endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		ct := pcx.Request().Header.Get("Content-Type")
		if ct == "" {
			return nil, endpoint.NotMatchedStatus(http.StatusBadRequest, "missing Content-Type header")
		}

		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, endpoint.NotMatchedStatus(http.StatusBadRequest, "malformed Content-Type header")
		}

		return endpoint.One(mediaType), nil
	})
}
