package endpoint

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/dimfeld/httppath"
)

// PreflightContext carries an immutable view of the incoming request plus a
// forward only cursor over the path segments. It is a plain value so that
// combinators can save and restore the cursor position with a copy.
type PreflightContext struct {
	request *http.Request
	path    string
	pos     int
	popped  int
}

// NewPreflightContext creates a context over the request. The path is
// normalized exactly once here: the escaped form is used so that encoded
// separators stay encoded, duplicate slashes are collapsed and the trailing
// slash is dropped.
func NewPreflightContext(req *http.Request) *PreflightContext {
	p := req.URL.EscapedPath()
	if p == "" {
		p = "/"
	}

	p = httppath.Clean(p)
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}

	return &PreflightContext{request: req, path: p, pos: 1}
}

// Request returns the request metadata. Callers must not modify the request
// or read its body during preflight.
func (c *PreflightContext) Request() *http.Request { return c.request }

// NextSegment pops the next path segment and reports whether one was
// available. The returned segment is in its escaped form. Once the path is
// exhausted it keeps returning false.
func (c *PreflightContext) NextSegment() (string, bool) {
	if c.pos >= len(c.path) {
		return "", false
	}

	rest := c.path[c.pos:]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		c.pos += i + 1
		c.popped++
		return rest[:i], true
	}

	c.pos = len(c.path)
	c.popped++
	return rest, true
}

// RemainingPath returns the unconsumed suffix of the path, without a leading
// slash. After full consumption it is the empty string.
func (c *PreflightContext) RemainingPath() string {
	if c.pos >= len(c.path) {
		return ""
	}

	return c.path[c.pos:]
}

// ConsumeAll pops all remaining segments and returns the suffix they formed.
func (c *PreflightContext) ConsumeAll() string {
	rest := c.RemainingPath()
	if rest != "" {
		c.popped += strings.Count(rest, "/") + 1
	}

	c.pos = len(c.path)
	return rest
}

// PoppedSegments returns the number of segments consumed so far.
func (c *PreflightContext) PoppedSegments() int { return c.popped }

// ActionContext carries the mutable request view and the ownership of the
// request body during the poll phase. The body is a single owner resource:
// it can be taken at most once for the whole combinator tree.
type ActionContext struct {
	ctx     context.Context
	request *http.Request
	body    io.ReadCloser
	taken   bool
}

// NewActionContext creates a context for the poll phase. A nil body is
// treated as an empty one.
func NewActionContext(ctx context.Context, req *http.Request, body io.ReadCloser) *ActionContext {
	if body == nil {
		body = http.NoBody
	}

	return &ActionContext{ctx: ctx, request: req, body: body}
}

// Context returns the cancellation context of the in-flight resolution.
func (c *ActionContext) Context() context.Context { return c.ctx }

// Request returns the request metadata.
func (c *ActionContext) Request() *http.Request { return c.request }

// TakeBody moves the request body out of the context. The second take
// returns ErrBodyConsumed.
func (c *ActionContext) TakeBody() (io.ReadCloser, error) {
	if c.taken {
		return nil, ErrBodyConsumed
	}

	c.taken = true
	body := c.body
	c.body = nil
	return body, nil
}

// BodyTaken reports whether the body was already claimed.
func (c *ActionContext) BodyTaken() bool { return c.taken }

// Close releases the body if no endpoint claimed it. It is used by the
// driver when a resolution is abandoned before reaching a terminal state.
func (c *ActionContext) Close() error {
	if c.taken || c.body == nil {
		return nil
	}

	body := c.body
	c.body = nil
	return body.Close()
}
