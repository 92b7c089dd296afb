/*
Package endpointtest provides a request builder and a synchronous driver
for testing endpoints without an HTTP server.

	out, err := endpointtest.Get("/posts/42").Drive(e)

The driver runs the full preflight and poll protocol of the endpoint, so
body extractors and asynchronous continuations work the same way as under
the dispatcher.
*/
package endpointtest

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/finchgo/finch/endpoint"
)

// Request builds a synthetic request and drives endpoints with it.
type Request struct {
	method string
	target string
	body   io.Reader
	header map[string]string
	ctx    context.Context
}

func newRequest(method, target string) *Request {
	return &Request{
		method: method,
		target: target,
		header: make(map[string]string),
		ctx:    context.Background(),
	}
}

func Get(target string) *Request    { return newRequest("GET", target) }
func Post(target string) *Request   { return newRequest("POST", target) }
func Put(target string) *Request    { return newRequest("PUT", target) }
func Delete(target string) *Request { return newRequest("DELETE", target) }

// Method builds a request with an arbitrary method.
func Method(method, target string) *Request { return newRequest(method, target) }

// Header sets a request header.
func (r *Request) Header(name, value string) *Request {
	r.header[name] = value
	return r
}

// Body sets the request body and its content type.
func (r *Request) Body(contentType, body string) *Request {
	r.body = strings.NewReader(body)
	r.header["Content-Type"] = contentType
	return r
}

// BodyReader sets the request body from a reader, for tests that need
// control over chunking or read errors.
func (r *Request) BodyReader(contentType string, body io.Reader) *Request {
	r.body = body
	r.header["Content-Type"] = contentType
	return r
}

// Context sets the context used during the poll phase. It defaults to the
// background context.
func (r *Request) Context(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Drive resolves the endpoint against the built request and returns its
// output tuple. Unconsumed path segments after a successful resolution are
// reported as an advisory mismatch, like the dispatcher does.
func (r *Request) Drive(e endpoint.Endpoint) (endpoint.Values, error) {
	req := httptest.NewRequest(r.method, r.target, r.body)
	for name, value := range r.header {
		req.Header.Set(name, value)
	}

	req = req.WithContext(r.ctx)

	pcx := endpoint.NewPreflightContext(req)
	act := endpoint.Guard(e.Action())

	pf, err := act.Preflight(pcx)
	if err != nil {
		return nil, err
	}

	out := pf.Output()
	if !pf.IsCompleted() {
		acx := endpoint.NewActionContext(r.ctx, req, req.Body)
		defer acx.Close()

		for {
			if err := r.ctx.Err(); err != nil {
				return nil, err
			}

			p, err := act.PollAction(acx)
			if err != nil {
				return nil, err
			}

			if p.IsReady() {
				out = p.Output()
				break
			}
		}
	}

	if pcx.RemainingPath() != "" {
		return nil, endpoint.NotMatched("unconsumed path segments")
	}

	return out, nil
}
