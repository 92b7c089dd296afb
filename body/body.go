/*
Package body provides endpoints reading and decoding the request body.

Preflight only validates headers and never touches the body; the read
happens during the poll phase, one chunk per step, until end of stream.
Content type mismatches are hard errors: once a body endpoint committed to
the body contract, trying an alternative route with a half inspected
request is not meaningful.
*/
package body

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/finchgo/finch/endpoint"
)

const readBufferSize = 8192

const (
	mediaTypeJSON = "application/json"
	mediaTypeForm = "application/x-www-form-urlencoded"
)

// Raw creates an endpoint taking ownership of the request body stream. The
// output is the unread io.ReadCloser; the caller is responsible for closing
// it. Taking the body after another endpoint claimed it is a terminal
// error.
func Raw() endpoint.Endpoint {
	return endpoint.Func(func() endpoint.Action {
		return endpoint.Async(func(acx *endpoint.ActionContext) (endpoint.Poll, error) {
			rc, err := acx.TakeBody()
			if err != nil {
				return endpoint.Poll{}, err
			}

			return endpoint.Ready(endpoint.One(rc)), nil
		})
	})
}

// Bytes creates an endpoint receiving the whole request body as a byte
// slice.
func Bytes() endpoint.Endpoint {
	return endpoint.Func(func() endpoint.Action {
		return &readAllAction{
			decode: func(b []byte) (interface{}, error) {
				return b, nil
			},
		}
	})
}

// Text creates an endpoint receiving the whole request body as a string.
// When the Content-Type header carries a charset parameter it must be
// utf-8; the decoded bytes are validated as well. Both failures are hard
// bad request errors.
func Text() endpoint.Endpoint {
	return endpoint.Func(func() endpoint.Action {
		return &readAllAction{
			validate: validateCharset,
			decode: func(b []byte) (interface{}, error) {
				if !utf8.Valid(b) {
					return nil, endpoint.BadRequest(errors.New("request body is not valid utf-8"))
				}

				return string(b), nil
			},
		}
	})
}

// JSON creates an endpoint decoding the request body into a value of type
// T. The Content-Type header must be application/json; the validation
// happens during preflight, before any body read, and its failure is hard.
func JSON[T any]() endpoint.Endpoint {
	return endpoint.Func(func() endpoint.Action {
		return &readAllAction{
			validate: requireMediaType(mediaTypeJSON),
			decode: func(b []byte) (interface{}, error) {
				var value T
				if err := json.Unmarshal(b, &value); err != nil {
					return nil, endpoint.BadRequest(fmt.Errorf("decoding json body: %w", err))
				}

				return value, nil
			},
		}
	})
}

// Form creates an endpoint decoding an urlencoded request body into
// url.Values. The Content-Type header must be
// application/x-www-form-urlencoded.
func Form() endpoint.Endpoint {
	return endpoint.Func(func() endpoint.Action {
		return &readAllAction{
			validate: requireMediaType(mediaTypeForm),
			decode: func(b []byte) (interface{}, error) {
				values, err := url.ParseQuery(string(b))
				if err != nil {
					return nil, endpoint.BadRequest(fmt.Errorf("decoding form body: %w", err))
				}

				return values, nil
			},
		}
	})
}

func contentType(req *http.Request) (string, map[string]string, error) {
	ct := req.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, nil
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, endpoint.BadRequest(errors.New("malformed Content-Type header"))
	}

	return mediaType, params, nil
}

func requireMediaType(want string) func(*http.Request) error {
	return func(req *http.Request) error {
		mediaType, _, err := contentType(req)
		if err != nil {
			return err
		}

		if mediaType == "" {
			return endpoint.BadRequest(errors.New("missing Content-Type header"))
		}

		if mediaType != want {
			return endpoint.BadRequest(fmt.Errorf("unexpected media type %s, want %s", mediaType, want))
		}

		return nil
	}
}

func validateCharset(req *http.Request) error {
	_, params, err := contentType(req)
	if err != nil {
		return err
	}

	if cs, ok := params["charset"]; ok && strings.ToLower(cs) != "utf-8" {
		return endpoint.BadRequest(fmt.Errorf("unsupported charset %s", cs))
	}

	return nil
}

// readAllAction accumulates the request body one chunk per poll step and
// decodes it after end of stream.
type readAllAction struct {
	validate func(*http.Request) error
	decode   func([]byte) (interface{}, error)
	body     io.ReadCloser
	buf      bytes.Buffer
	chunk    []byte
}

func (a *readAllAction) Preflight(pcx *endpoint.PreflightContext) (endpoint.Preflight, error) {
	if a.validate != nil {
		if err := a.validate(pcx.Request()); err != nil {
			return endpoint.Preflight{}, err
		}
	}

	return endpoint.Incomplete(), nil
}

func (a *readAllAction) PollAction(acx *endpoint.ActionContext) (endpoint.Poll, error) {
	if a.body == nil {
		body, err := acx.TakeBody()
		if err != nil {
			return endpoint.Poll{}, err
		}

		a.body = body
		a.chunk = make([]byte, readBufferSize)
	}

	n, err := a.body.Read(a.chunk)
	a.buf.Write(a.chunk[:n])

	switch {
	case err == io.EOF:
		a.body.Close()
		value, err := a.decode(a.buf.Bytes())
		if err != nil {
			return endpoint.Poll{}, err
		}

		return endpoint.Ready(endpoint.One(value)), nil
	case err != nil:
		a.body.Close()
		return endpoint.Poll{}, endpoint.InternalServerError(fmt.Errorf("reading request body: %w", err))
	}

	return endpoint.Pending(), nil
}
