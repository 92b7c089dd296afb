package dispatch

import (
	"encoding/json"
	"net/http"

	"github.com/finchgo/finch/endpoint"
)

// Response can be implemented by endpoint output values that want full
// control over the response, including the status code and headers.
type Response interface {
	Respond(w http.ResponseWriter, req *http.Request) error
}

// Responder converts the output tuple of a resolved endpoint into an HTTP
// response. Errors returned from Respond are logged by the dispatcher and,
// when nothing was written yet, turned into a 500 response.
type Responder interface {
	Respond(w http.ResponseWriter, req *http.Request, out endpoint.Values) error
}

// ResponderFunc adapts a plain function to the Responder interface.
type ResponderFunc func(w http.ResponseWriter, req *http.Request, out endpoint.Values) error

func (f ResponderFunc) Respond(w http.ResponseWriter, req *http.Request, out endpoint.Values) error {
	return f(w, req, out)
}

type defaultResponder struct{}

// Respond renders an empty tuple as 204 No Content, delegates to values
// implementing Response, writes strings and byte slices verbatim, and JSON
// encodes everything else. Tuples with more than one value are encoded as a
// JSON array.
func (defaultResponder) Respond(w http.ResponseWriter, req *http.Request, out endpoint.Values) error {
	if len(out) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	if len(out) == 1 {
		switch v := out[0].(type) {
		case Response:
			return v.Respond(w, req)
		case string:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, err := w.Write([]byte(v))
			return err
		case []byte:
			w.Header().Set("Content-Type", "application/octet-stream")
			_, err := w.Write(v)
			return err
		}
	}

	var doc interface{} = []interface{}(out)
	if len(out) == 1 {
		doc = out[0]
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, err = w.Write(b)
	return err
}
