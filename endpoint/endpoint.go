package endpoint

// Value creates an endpoint that matches any request and produces the given
// value as a one element tuple during preflight.
func Value(value interface{}) Endpoint {
	return Func(func() Action {
		return Oneshot(func(*PreflightContext) (Values, error) {
			return One(value), nil
		})
	})
}

// Unit creates an endpoint that matches any request and produces the empty
// tuple during preflight.
func Unit() Endpoint {
	return Func(func() Action {
		return Oneshot(func(*PreflightContext) (Values, error) {
			return nil, nil
		})
	})
}

// Reject creates an endpoint whose preflight always fails with the given
// error. Combined with NotMatched it is useful as the terminal alternative
// of an Or chain.
func Reject(err error) Endpoint {
	return Func(func() Action {
		return Oneshot(func(*PreflightContext) (Values, error) {
			return nil, err
		})
	})
}

// Apply creates an endpoint from a plain preflight function.
func Apply(f OneshotFunc) Endpoint {
	return Func(func() Action {
		return Oneshot(f)
	})
}
