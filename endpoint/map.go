package endpoint

import "context"

// MapFunc transforms a completed output tuple into a single value. It must
// be side effect free.
type MapFunc func(Values) interface{}

// Map wraps an endpoint and transforms its output into the one element
// tuple (f(values),). The transformation is applied exactly once, whether
// the wrapped endpoint completes during preflight or during polling, and
// never on an error path.
func Map(e Endpoint, f MapFunc) Endpoint {
	return &mapEndpoint{inner: e, f: f}
}

type mapEndpoint struct {
	inner Endpoint
	f     MapFunc
}

func (e *mapEndpoint) Action() Action {
	return &mapAction{inner: e.inner.Action(), f: e.f}
}

type mapAction struct {
	inner Action
	f     MapFunc
}

func (a *mapAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	pf, err := a.inner.Preflight(pcx)
	if err != nil {
		return Preflight{}, err
	}

	if pf.IsCompleted() {
		return Completed(One(a.f(pf.Output()))), nil
	}

	return Incomplete(), nil
}

func (a *mapAction) PollAction(acx *ActionContext) (Poll, error) {
	p, err := a.inner.PollAction(acx)
	if err != nil || !p.IsReady() {
		return p, err
	}

	return Ready(One(a.f(p.Output()))), nil
}

// AndThenFunc is an asynchronous continuation over a completed output
// tuple. It runs during the poll phase and receives the cancellation
// context of the resolution.
type AndThenFunc func(context.Context, Values) (interface{}, error)

// AndThen chains an asynchronous computation after an endpoint. The
// continuation runs only after the wrapped endpoint produced its output,
// and its errors are terminal. The combined output is the one element
// tuple holding the continuation's result.
func AndThen(e Endpoint, f AndThenFunc) Endpoint {
	return &andThenEndpoint{inner: e, f: f}
}

type andThenEndpoint struct {
	inner Endpoint
	f     AndThenFunc
}

func (e *andThenEndpoint) Action() Action {
	return &andThenAction{inner: e.inner.Action(), f: e.f}
}

type andThenAction struct {
	inner     Action
	f         AndThenFunc
	innerDone bool
	innerOut  Values
}

func (a *andThenAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	pf, err := a.inner.Preflight(pcx)
	if err != nil {
		return Preflight{}, err
	}

	if pf.IsCompleted() {
		a.innerDone = true
		a.innerOut = pf.Output()
	}

	// the continuation is asynchronous, it never runs during preflight
	return Incomplete(), nil
}

func (a *andThenAction) PollAction(acx *ActionContext) (Poll, error) {
	if !a.innerDone {
		p, err := a.inner.PollAction(acx)
		if err != nil {
			return Poll{}, err
		}

		if !p.IsReady() {
			return Pending(), nil
		}

		a.innerDone = true
		a.innerOut = p.Output()
	}

	value, err := a.f(acx.Context(), a.innerOut)
	if err != nil {
		return Poll{}, err
	}

	return Ready(One(value)), nil
}
