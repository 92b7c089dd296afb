package endpoint

// Preflight is the result of the synchronous matching phase.
type Preflight struct {
	completed bool
	output    Values
}

// Completed signals that the action resolved fully during preflight.
func Completed(output Values) Preflight {
	return Preflight{completed: true, output: output}
}

// Incomplete signals that the action needs polling to resolve.
func Incomplete() Preflight {
	return Preflight{}
}

func (p Preflight) IsCompleted() bool { return p.completed }
func (p Preflight) Output() Values    { return p.output }

// Poll is the result of one cooperative step of the asynchronous phase.
type Poll struct {
	ready  bool
	output Values
}

// Ready signals the final output of the action.
func Ready(output Values) Poll {
	return Poll{ready: true, output: output}
}

// Pending signals that the action made no final progress yet and the driver
// should poll again.
func Pending() Poll {
	return Poll{}
}

func (p Poll) IsReady() bool  { return p.ready }
func (p Poll) Output() Values { return p.output }

// Action is the per request state machine produced by an Endpoint. The
// driver calls Preflight exactly once and, when it returns Incomplete,
// PollAction repeatedly until a terminal result.
type Action interface {
	// Preflight runs the synchronous matching phase. It may advance the
	// segment cursor and inspect request metadata but must not take the
	// body and must not block. Returned errors may be advisory, see
	// NotMatched.
	Preflight(*PreflightContext) (Preflight, error)

	// PollAction runs one step of the asynchronous phase. It may take the
	// body and block for a bounded amount of I/O. Returned errors are
	// terminal.
	PollAction(*ActionContext) (Poll, error)
}

// Endpoint is an immutable, shareable descriptor that manufactures a fresh
// Action per request. Implementations must be safe for concurrent use; the
// produced Actions are owned by a single resolution and need not be.
type Endpoint interface {
	Action() Action
}

// Func adapts an action factory function to the Endpoint interface.
type Func func() Action

func (f Func) Action() Action { return f() }

// OneshotFunc is the shape of an action that always resolves fully during
// preflight, e.g. a pure path matcher.
type OneshotFunc func(*PreflightContext) (Values, error)

// Oneshot wraps f into an Action that completes at preflight. Polling it is
// a contract violation.
func Oneshot(f OneshotFunc) Action {
	return &oneshotAction{f: f}
}

type oneshotAction struct {
	f    OneshotFunc
	used bool
}

func (a *oneshotAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	if a.used {
		return Preflight{}, ErrPreflightRepeated
	}

	a.used = true
	output, err := a.f(pcx)
	if err != nil {
		return Preflight{}, err
	}

	return Completed(output), nil
}

func (a *oneshotAction) PollAction(*ActionContext) (Poll, error) {
	return Poll{}, ErrActionDone
}

// AsyncFunc is the shape of an action that resolves only by polling, e.g. a
// deferred body read.
type AsyncFunc func(*ActionContext) (Poll, error)

// Async wraps f into an Action whose preflight always returns Incomplete.
func Async(f AsyncFunc) Action {
	return &asyncAction{f: f}
}

type asyncAction struct {
	f AsyncFunc
}

func (a *asyncAction) Preflight(*PreflightContext) (Preflight, error) {
	return Incomplete(), nil
}

func (a *asyncAction) PollAction(acx *ActionContext) (Poll, error) {
	return a.f(acx)
}

const (
	guardNew = iota
	guardPreflighted
	guardDone
)

// Guard wraps an action and enforces the lifecycle contract: Preflight
// exactly once, before any PollAction, and no calls after a terminal
// result. Violations surface as explicit errors instead of corrupted state.
func Guard(a Action) Action {
	return &guardedAction{next: a}
}

type guardedAction struct {
	next  Action
	state int
}

func (g *guardedAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	if g.state != guardNew {
		return Preflight{}, ErrPreflightRepeated
	}

	pf, err := g.next.Preflight(pcx)
	if err != nil || pf.IsCompleted() {
		g.state = guardDone
	} else {
		g.state = guardPreflighted
	}

	return pf, err
}

func (g *guardedAction) PollAction(acx *ActionContext) (Poll, error) {
	switch g.state {
	case guardNew:
		return Poll{}, ErrPollBeforePreflight
	case guardDone:
		return Poll{}, ErrActionDone
	}

	p, err := g.next.PollAction(acx)
	if err != nil || p.IsReady() {
		g.state = guardDone
	}

	return p, err
}
