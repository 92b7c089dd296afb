/*
Package path provides endpoints matching and extracting URL path segments.

Path matches literal patterns, with a trailing "*" consuming all remaining
segments. The typed extractors pop exactly one segment and convert it; a
missing segment or a failed conversion is an advisory mismatch, so an
enclosing Or can still try another route.
*/
package path

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/finchgo/finch/endpoint"
	"github.com/google/uuid"
)

// Wildcard is the pattern segment consuming all remaining path segments.
const Wildcard = "*"

type matchPath struct {
	segments []string
	wildcard bool
}

// New creates an endpoint matching the given pattern against successive
// path segments. Leading and trailing slashes in the pattern are ignored.
// Literal segments are percent encoded once, at construction, and compared
// byte for byte against the escaped request segments. A pattern ending in
// "*" consumes all remaining segments unconditionally.
func New(pattern string) (endpoint.Endpoint, error) {
	trimmed := strings.Trim(strings.TrimSpace(pattern), "/")
	if trimmed == Wildcard {
		return &matchPath{wildcard: true}, nil
	}

	var segments []string
	for i, s := range strings.Split(trimmed, "/") {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("empty segment at position %d in pattern %q", i, pattern)
		}

		if s == Wildcard {
			if i != strings.Count(trimmed, "/") {
				return nil, fmt.Errorf("wildcard must be the last segment in pattern %q", pattern)
			}

			return &matchPath{segments: segments, wildcard: true}, nil
		}

		segments = append(segments, url.PathEscape(s))
	}

	return &matchPath{segments: segments}, nil
}

// Path creates an endpoint matching the given pattern. It panics when the
// pattern is invalid, use New to handle the error instead.
func Path(pattern string) endpoint.Endpoint {
	e, err := New(pattern)
	if err != nil {
		panic(err)
	}

	return e
}

func (e *matchPath) Action() endpoint.Action {
	return endpoint.Oneshot(e.preflight)
}

func (e *matchPath) preflight(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
	for _, want := range e.segments {
		got, ok := pcx.NextSegment()
		if !ok {
			return nil, endpoint.NotMatched("path exhausted before pattern")
		}

		if got != want {
			return nil, endpoint.NotMatched("path segment mismatch")
		}
	}

	if e.wildcard {
		pcx.ConsumeAll()
	}

	return nil, nil
}

// extract builds a single segment extractor with the given conversion.
func extract(kind string, convert func(string) (interface{}, error)) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		s, ok := pcx.NextSegment()
		if !ok {
			return nil, endpoint.NotMatched("missing " + kind + " segment")
		}

		decoded, err := url.PathUnescape(s)
		if err != nil {
			return nil, endpoint.NotMatchedStatus(http.StatusBadRequest, "malformed segment encoding")
		}

		value, err := convert(decoded)
		if err != nil {
			return nil, endpoint.NotMatchedStatus(
				http.StatusBadRequest,
				fmt.Sprintf("segment %q is not a valid %s", decoded, kind))
		}

		return endpoint.One(value), nil
	})
}

// String extracts one segment as a percent decoded string.
func String() endpoint.Endpoint {
	return extract("string", func(s string) (interface{}, error) {
		return s, nil
	})
}

// Int extracts one segment as an int.
func Int() endpoint.Endpoint {
	return extract("int", func(s string) (interface{}, error) {
		return strconv.Atoi(s)
	})
}

// Int64 extracts one segment as an int64.
func Int64() endpoint.Endpoint {
	return extract("int64", func(s string) (interface{}, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// Float64 extracts one segment as a float64.
func Float64() endpoint.Endpoint {
	return extract("float64", func(s string) (interface{}, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// Bool extracts one segment as a bool using strconv.ParseBool.
func Bool() endpoint.Endpoint {
	return extract("bool", func(s string) (interface{}, error) {
		return strconv.ParseBool(s)
	})
}

// UUID extracts one segment as a uuid.UUID.
func UUID() endpoint.Endpoint {
	return extract("uuid", func(s string) (interface{}, error) {
		return uuid.Parse(s)
	})
}

// Remaining consumes all remaining segments and yields the unconsumed
// suffix as a single string value, without a leading slash.
func Remaining() endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		return endpoint.One(pcx.ConsumeAll()), nil
	})
}
