/*
Package query provides endpoints extracting typed values from the query
string. Extraction happens during preflight, no body access is involved.
A missing required parameter or a failed conversion is an advisory
mismatch with bad request semantics.
*/
package query

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/finchgo/finch/endpoint"
)

func extract(name, kind string, convert func(string) (interface{}, error)) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		values := pcx.Request().URL.Query()
		if !values.Has(name) {
			return nil, endpoint.NotMatchedStatus(
				http.StatusBadRequest,
				"missing query parameter "+name)
		}

		value, err := convert(values.Get(name))
		if err != nil {
			return nil, endpoint.NotMatchedStatus(
				http.StatusBadRequest,
				fmt.Sprintf("query parameter %s is not a valid %s", name, kind))
		}

		return endpoint.One(value), nil
	})
}

// String extracts a required query parameter as a string.
func String(name string) endpoint.Endpoint {
	return extract(name, "string", func(s string) (interface{}, error) {
		return s, nil
	})
}

// Int extracts a required query parameter as an int.
func Int(name string) endpoint.Endpoint {
	return extract(name, "int", func(s string) (interface{}, error) {
		return strconv.Atoi(s)
	})
}

// Int64 extracts a required query parameter as an int64.
func Int64(name string) endpoint.Endpoint {
	return extract(name, "int64", func(s string) (interface{}, error) {
		return strconv.ParseInt(s, 10, 64)
	})
}

// Float64 extracts a required query parameter as a float64.
func Float64(name string) endpoint.Endpoint {
	return extract(name, "float64", func(s string) (interface{}, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// Bool extracts a required query parameter as a bool.
func Bool(name string) endpoint.Endpoint {
	return extract(name, "bool", func(s string) (interface{}, error) {
		return strconv.ParseBool(s)
	})
}

// OptionalString extracts a query parameter, falling back to def when the
// parameter is absent.
func OptionalString(name, def string) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		values := pcx.Request().URL.Query()
		if !values.Has(name) {
			return endpoint.One(def), nil
		}

		return endpoint.One(values.Get(name)), nil
	})
}

// OptionalInt extracts an integer query parameter, falling back to def when
// the parameter is absent. A present but malformed value is still an
// advisory mismatch.
func OptionalInt(name string, def int) endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		values := pcx.Request().URL.Query()
		if !values.Has(name) {
			return endpoint.One(def), nil
		}

		i, err := strconv.Atoi(values.Get(name))
		if err != nil {
			return nil, endpoint.NotMatchedStatus(
				http.StatusBadRequest,
				"query parameter "+name+" is not a valid int")
		}

		return endpoint.One(i), nil
	})
}

// Raw yields the whole parsed query string as a url.Values value.
func Raw() endpoint.Endpoint {
	return endpoint.Apply(func(pcx *endpoint.PreflightContext) (endpoint.Values, error) {
		return endpoint.One(pcx.Request().URL.Query()), nil
	})
}
