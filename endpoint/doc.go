/*
Package endpoint implements composable request-matching endpoints.

An Endpoint is an immutable descriptor that knows how to produce an Action
for an incoming request. The Action resolves the request in two phases:

1. Preflight: a synchronous pass over the request metadata. It may consume
path segments from the cursor and inspect headers, but it never touches the
request body. Errors returned from this phase can be advisory, which allows
an enclosing Or combinator to try its alternative.

2. Poll: zero or more cooperative steps that may read the request body or
run deferred computations. Errors returned from this phase are terminal.

Endpoints are composed with And, Or, OrStrict, Map and AndThen. The leaf
endpoints live in the path, query, header, method and body packages, and the
dispatch package drives a composed endpoint as an http.Handler.
*/
package endpoint
