package body

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/finchgo/finch/endpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingReader tracks read calls and end of stream.
type countingReader struct {
	reader   io.Reader
	reads    int
	sawEOF   bool
	closed   bool
	chunkMax int
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.reads++
	if r.chunkMax > 0 && len(p) > r.chunkMax {
		p = p[:r.chunkMax]
	}

	n, err := r.reader.Read(p)
	if err == io.EOF {
		r.sawEOF = true
	}

	return n, err
}

func (r *countingReader) Close() error {
	r.closed = true
	return nil
}

func resolve(t *testing.T, e endpoint.Endpoint, method, target, contentType, payload string, body io.ReadCloser) (endpoint.Values, error) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if body == nil {
		body = io.NopCloser(strings.NewReader(payload))
	}

	a := endpoint.Guard(e.Action())
	pf, err := a.Preflight(endpoint.NewPreflightContext(req))
	if err != nil {
		return nil, err
	}

	if pf.IsCompleted() {
		return pf.Output(), nil
	}

	acx := endpoint.NewActionContext(context.Background(), req, body)
	for i := 0; i < 1000; i++ {
		p, err := a.PollAction(acx)
		if err != nil {
			return nil, err
		}

		if p.IsReady() {
			return p.Output(), nil
		}
	}

	t.Fatal("action did not resolve within poll budget")
	return nil, nil
}

type payload struct {
	A int    `json:"a"`
	B string `json:"b"`
}

func TestJSONDecodes(t *testing.T) {
	out, err := resolve(t, JSON[payload](), "POST", "/", "application/json", `{"a":1,"b":"x"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, endpoint.Values{payload{A: 1, B: "x"}}, out)
}

func TestJSONContentTypeMismatchIsHard(t *testing.T) {
	reader := &countingReader{reader: strings.NewReader(`{"a":1}`)}

	_, err := resolve(t, JSON[payload](), "POST", "/", "text/plain", "", reader)
	require.Error(t, err)
	assert.False(t, endpoint.IsNotMatched(err), "content type mismatch is not advisory")
	assert.Equal(t, 400, endpoint.StatusCodeOf(err))
	assert.Equal(t, 0, reader.reads, "the body must not be read at all")
}

func TestJSONMissingContentTypeIsHard(t *testing.T) {
	_, err := resolve(t, JSON[payload](), "POST", "/", "", `{"a":1}`, nil)
	require.Error(t, err)
	assert.False(t, endpoint.IsNotMatched(err))
	assert.Equal(t, 400, endpoint.StatusCodeOf(err))
}

func TestJSONMalformedBodyFailsAfterDrain(t *testing.T) {
	reader := &countingReader{reader: strings.NewReader(`{"a":`)}

	_, err := resolve(t, JSON[payload](), "POST", "/", "application/json", "", reader)
	require.Error(t, err)
	assert.False(t, endpoint.IsNotMatched(err))
	assert.Equal(t, 400, endpoint.StatusCodeOf(err))
	assert.True(t, reader.sawEOF, "the body must be fully drained before decoding")
	assert.True(t, reader.closed)
}

func TestJSONChunkedBody(t *testing.T) {
	// force multiple poll steps
	reader := &countingReader{reader: strings.NewReader(`{"a":7,"b":"chunked"}`), chunkMax: 4}

	out, err := resolve(t, JSON[payload](), "POST", "/", "application/json", "", reader)
	require.NoError(t, err)
	assert.Equal(t, endpoint.Values{payload{A: 7, B: "chunked"}}, out)
	assert.Greater(t, reader.reads, 2)
}

func TestText(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		out, err := resolve(t, Text(), "POST", "/", "text/plain", "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, endpoint.Values{"hello"}, out)
	})

	t.Run("charset utf-8 accepted", func(t *testing.T) {
		out, err := resolve(t, Text(), "POST", "/", "text/plain; charset=utf-8", "hello", nil)
		require.NoError(t, err)
		assert.Equal(t, endpoint.Values{"hello"}, out)
	})

	t.Run("unsupported charset is hard", func(t *testing.T) {
		_, err := resolve(t, Text(), "POST", "/", "text/plain; charset=utf-16", "hello", nil)
		require.Error(t, err)
		assert.False(t, endpoint.IsNotMatched(err))
		assert.Equal(t, 400, endpoint.StatusCodeOf(err))
	})

	t.Run("invalid utf-8 is hard", func(t *testing.T) {
		_, err := resolve(t, Text(), "POST", "/", "text/plain", "\xff\xfe", nil)
		require.Error(t, err)
		assert.Equal(t, 400, endpoint.StatusCodeOf(err))
	})
}

func TestForm(t *testing.T) {
	out, err := resolve(t, Form(), "POST", "/", "application/x-www-form-urlencoded", "a=1&b=x&b=y", nil)
	require.NoError(t, err)

	values, ok := out[0].(url.Values)
	require.True(t, ok)
	assert.Equal(t, "1", values.Get("a"))
	assert.Equal(t, []string{"x", "y"}, values["b"])
}

func TestBytes(t *testing.T) {
	out, err := resolve(t, Bytes(), "POST", "/", "", "some bytes", nil)
	require.NoError(t, err)
	assert.Equal(t, endpoint.Values{[]byte("some bytes")}, out)
}

func TestRaw(t *testing.T) {
	out, err := resolve(t, Raw(), "POST", "/", "", "stream", nil)
	require.NoError(t, err)

	rc, ok := out[0].(io.ReadCloser)
	require.True(t, ok)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "stream", string(data))
	require.NoError(t, rc.Close())
}

func TestBodyTakenTwiceIsTerminal(t *testing.T) {
	e := endpoint.And(Bytes(), Bytes())

	_, err := resolve(t, e, "POST", "/", "", "payload", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, endpoint.ErrBodyConsumed)
	assert.False(t, endpoint.IsNotMatched(err))
}
