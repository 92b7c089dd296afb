package endpoint

// And sequentially combines two endpoints. Both must match; the output is
// the left tuple followed by the right tuple. Path segments consumed by the
// left preflight are visible to the right preflight.
func And(left, right Endpoint) Endpoint {
	return &andEndpoint{left: left, right: right}
}

type andEndpoint struct {
	left, right Endpoint
}

func (e *andEndpoint) Action() Action {
	return &andAction{left: e.left.Action(), right: e.right.Action()}
}

type andAction struct {
	left, right       Action
	leftOut, rightOut Values
	leftDone          bool
	rightDone         bool
}

func (a *andAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	pf, err := a.left.Preflight(pcx)
	if err != nil {
		return Preflight{}, err
	}

	if pf.IsCompleted() {
		a.leftDone = true
		a.leftOut = pf.Output()
	}

	pf, err = a.right.Preflight(pcx)
	if err != nil {
		return Preflight{}, err
	}

	if pf.IsCompleted() {
		a.rightDone = true
		a.rightOut = pf.Output()
	}

	if a.leftDone && a.rightDone {
		return Completed(Combine(a.leftOut, a.rightOut)), nil
	}

	return Incomplete(), nil
}

func (a *andAction) PollAction(acx *ActionContext) (Poll, error) {
	if !a.leftDone {
		p, err := a.left.PollAction(acx)
		if err != nil {
			return Poll{}, err
		}

		if !p.IsReady() {
			return Pending(), nil
		}

		a.leftDone = true
		a.leftOut = p.Output()
	}

	if !a.rightDone {
		p, err := a.right.PollAction(acx)
		if err != nil {
			return Poll{}, err
		}

		if !p.IsReady() {
			return Pending(), nil
		}

		a.rightDone = true
		a.rightOut = p.Output()
	}

	return Ready(Combine(a.leftOut, a.rightOut)), nil
}
