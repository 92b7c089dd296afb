package endpoint

// Either tags the output of an Or combinator with the branch that produced
// it: 0 for the left alternative, 1 for the right one.
type Either struct {
	Branch int
	Values Values
}

// Or tries the left endpoint and, only when its preflight signals an
// advisory mismatch, the right one. The cursor is restored before the
// alternative runs. A hard error from the left preflight aborts without
// trying the right. The two alternatives may produce outputs of different
// shapes, so the combined output is a one element tuple holding an Either.
func Or(left, right Endpoint) Endpoint {
	return &orEndpoint{left: left, right: right, wrap: true}
}

// OrStrict behaves like Or but forwards the winning alternative's output
// unwrapped. It is meant for alternatives producing the same output shape.
func OrStrict(left, right Endpoint) Endpoint {
	return &orEndpoint{left: left, right: right}
}

type orEndpoint struct {
	left, right Endpoint
	wrap        bool
}

func (e *orEndpoint) Action() Action {
	return &orAction{
		left:  e.left.Action(),
		right: e.right.Action(),
		wrap:  e.wrap,
	}
}

type orAction struct {
	left, right Action
	wrap        bool
	chosen      Action
	branch      int
}

func (a *orAction) output(values Values) Values {
	if !a.wrap {
		return values
	}

	return One(Either{Branch: a.branch, Values: values})
}

func (a *orAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	saved := *pcx

	pf, err := a.left.Preflight(pcx)
	switch {
	case err == nil:
		a.chosen = a.left
	case IsNotMatched(err):
		// the left alternative did not match, retry from the saved
		// cursor position
		*pcx = saved
		pf, err = a.right.Preflight(pcx)
		if err != nil {
			return Preflight{}, err
		}

		a.chosen = a.right
		a.branch = 1
	default:
		return Preflight{}, err
	}

	if pf.IsCompleted() {
		return Completed(a.output(pf.Output())), nil
	}

	return Incomplete(), nil
}

func (a *orAction) PollAction(acx *ActionContext) (Poll, error) {
	if a.chosen == nil {
		return Poll{}, ErrPollBeforePreflight
	}

	p, err := a.chosen.PollAction(acx)
	if err != nil || !p.IsReady() {
		return p, err
	}

	return Ready(a.output(p.Output())), nil
}
