/*
Package finch provides a combinator library for building HTTP request
handlers out of small, typed matching and extraction primitives.

An endpoint describes which requests it accepts and which values it
produces from them. Endpoints are composed from leaves that match the
request method, path segments, query parameters, headers and the body,
using a small set of combinators. The composed endpoint is served by the
dispatch package, which implements http.Handler on top of it.

# Quickstart

A minimal server matching GET /posts/{id}:

	import (
		"net/http"

		"github.com/finchgo/finch/dispatch"
		"github.com/finchgo/finch/endpoint"
		"github.com/finchgo/finch/method"
		"github.com/finchgo/finch/path"
	)

	func main() {
		post := endpoint.Map(
			endpoint.And(method.Get(), endpoint.And(path.Path("posts"), path.Int())),
			func(out endpoint.Values) interface{} {
				return map[string]interface{}{"id": out[1]}
			},
		)

		http.ListenAndServe(":9090", dispatch.New(dispatch.Params{Endpoint: post}))
	}

Requests to GET /posts/42 respond with a JSON document, requests to any
other path or method respond with 404.

# Endpoints and actions

An Endpoint is an immutable descriptor that can be shared across
concurrent requests. For each request, the dispatcher calls its Action
method and drives the returned Action through two phases:

Preflight runs synchronously and inspects only the request metadata and
the path cursor. Most endpoints resolve completely here. A mismatch is
reported as an advisory error that the Or combinator can catch to try an
alternative.

Polling runs after preflight for endpoints that need the request body or
other asynchronous work. Each poll performs one bounded step, and errors
during polling are terminal.

The output of a resolved endpoint is a flat tuple of values. Combining
two endpoints with And concatenates their tuples, Map and AndThen replace
the tuple with a single derived value.

# Packages

The leaves live in the method, path, query, header and body packages. The
endpoint package defines the protocol, the combinators and the error
taxonomy. The dispatch package serves endpoints over HTTP with access
logging, prometheus metrics and opentracing spans. The endpointtest
package drives endpoints against synthetic requests in tests.
*/
package finch
