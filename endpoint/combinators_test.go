package endpoint

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// segment creates an endpoint that matches one literal segment and yields
// it as output.
func segment(literal string) Endpoint {
	return Apply(func(pcx *PreflightContext) (Values, error) {
		s, ok := pcx.NextSegment()
		if !ok || s != literal {
			return nil, NotMatched("segment mismatch")
		}

		return One(s), nil
	})
}

// tracked wraps an endpoint and counts preflight invocations.
type tracked struct {
	inner      Endpoint
	preflights int
}

func (e *tracked) Action() Action {
	inner := e.inner.Action()
	return &trackedAction{e: e, inner: inner}
}

type trackedAction struct {
	e     *tracked
	inner Action
}

func (a *trackedAction) Preflight(pcx *PreflightContext) (Preflight, error) {
	a.e.preflights++
	return a.inner.Preflight(pcx)
}

func (a *trackedAction) PollAction(acx *ActionContext) (Poll, error) {
	return a.inner.PollAction(acx)
}

// deferred creates an endpoint resolving via poll after n pending steps.
func deferred(value interface{}, pending int) Endpoint {
	return Func(func() Action {
		steps := 0
		return Async(func(*ActionContext) (Poll, error) {
			if steps < pending {
				steps++
				return Pending(), nil
			}

			return Ready(One(value)), nil
		})
	})
}

func preflightOn(t *testing.T, e Endpoint, path string) (Action, Preflight, error) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	pcx := NewPreflightContext(req)
	a := Guard(e.Action())
	pf, err := a.Preflight(pcx)
	return a, pf, err
}

func drain(t *testing.T, a Action) (Values, error) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	acx := NewActionContext(context.Background(), req, nil)
	for i := 0; i < 100; i++ {
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

func TestAndOutputOrder(t *testing.T) {
	e := And(segment("posts"), segment("latest"))

	_, pf, err := preflightOn(t, e, "/posts/latest")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())
	assert.Equal(t, Values{"posts", "latest"}, pf.Output())
}

func TestAndShortCircuit(t *testing.T) {
	right := &tracked{inner: segment("latest")}
	e := And(segment("posts"), right)

	_, _, err := preflightOn(t, e, "/users/latest")
	require.Error(t, err)
	assert.True(t, IsNotMatched(err))
	assert.Equal(t, 0, right.preflights, "right preflight must not run after a left error")
}

func TestAndSequentialCursor(t *testing.T) {
	e := And(segment("a"), segment("b"))

	_, pf, err := preflightOn(t, e, "/a/b")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())

	// same segments in the wrong order must not match
	_, _, err = preflightOn(t, e, "/b/a")
	assert.True(t, IsNotMatched(err))
}

func TestAndDeferredChildren(t *testing.T) {
	for _, tc := range []struct {
		name string
		e    Endpoint
		want Values
	}{
		{"left deferred", And(deferred("l", 1), segment("x")), Values{"l", "x"}},
		{"right deferred", And(segment("x"), deferred("r", 2)), Values{"x", "r"}},
		{"both deferred", And(deferred("l", 1), deferred("r", 1)), Values{"l", "r"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			a, pf, err := preflightOn(t, tc.e, "/x")
			require.NoError(t, err)
			require.False(t, pf.IsCompleted())

			out, err := drain(t, a)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestOrFallthrough(t *testing.T) {
	e := OrStrict(segment("users"), segment("posts"))

	_, pf, err := preflightOn(t, e, "/posts")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())
	assert.Equal(t, Values{"posts"}, pf.Output())
}

func TestOrCursorRestored(t *testing.T) {
	// both alternatives consume one segment; the second must see the
	// segment the first one popped before failing
	e := OrStrict(And(segment("a"), segment("x")), And(segment("a"), segment("y")))

	_, pf, err := preflightOn(t, e, "/a/y")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())
	assert.Equal(t, Values{"a", "y"}, pf.Output())
}

func TestOrLeftWins(t *testing.T) {
	e := Or(Value("left"), Value("right"))

	_, pf, err := preflightOn(t, e, "/")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())

	either, ok := pf.Output()[0].(Either)
	require.True(t, ok)
	assert.Equal(t, 0, either.Branch)
	assert.Equal(t, Values{"left"}, either.Values)
}

func TestOrHardErrorAborts(t *testing.T) {
	hard := errors.New("boom")
	right := &tracked{inner: Value("right")}
	e := Or(Reject(InternalServerError(hard)), right)

	_, _, err := preflightOn(t, e, "/")
	require.Error(t, err)
	assert.False(t, IsNotMatched(err))
	assert.ErrorIs(t, err, hard)
	assert.Equal(t, 0, right.preflights, "right preflight must not run after a hard error")
}

func TestOrBothMismatch(t *testing.T) {
	e := OrStrict(segment("a"), segment("b"))

	_, _, err := preflightOn(t, e, "/c")
	require.Error(t, err)
	assert.True(t, IsNotMatched(err))
}

func TestOrWrapsDeferredBranch(t *testing.T) {
	e := Or(segment("nope"), deferred(42, 1))

	a, pf, err := preflightOn(t, e, "/")
	require.NoError(t, err)
	require.False(t, pf.IsCompleted())

	out, err := drain(t, a)
	require.NoError(t, err)

	either, ok := out[0].(Either)
	require.True(t, ok)
	assert.Equal(t, 1, either.Branch)
	assert.Equal(t, Values{42}, either.Values)
}

func TestMapAppliedOncePreflight(t *testing.T) {
	calls := 0
	e := Map(segment("posts"), func(v Values) interface{} {
		calls++
		return "mapped:" + v.Args().String()
	})

	_, pf, err := preflightOn(t, e, "/posts")
	require.NoError(t, err)
	require.True(t, pf.IsCompleted())
	assert.Equal(t, Values{"mapped:posts"}, pf.Output())
	assert.Equal(t, 1, calls)
}

func TestMapAppliedOncePoll(t *testing.T) {
	calls := 0
	e := Map(deferred("x", 2), func(v Values) interface{} {
		calls++
		return v[0]
	})

	a, pf, err := preflightOn(t, e, "/")
	require.NoError(t, err)
	require.False(t, pf.IsCompleted())

	out, err := drain(t, a)
	require.NoError(t, err)
	assert.Equal(t, Values{"x"}, out)
	assert.Equal(t, 1, calls, "transform must run exactly once")
}

func TestMapNotAppliedOnError(t *testing.T) {
	calls := 0
	e := Map(segment("posts"), func(Values) interface{} {
		calls++
		return nil
	})

	_, _, err := preflightOn(t, e, "/users")
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestAndThenRunsAfterFirstStage(t *testing.T) {
	e := AndThen(segment("posts"), func(_ context.Context, v Values) (interface{}, error) {
		return "post:" + v.Args().String(), nil
	})

	a, pf, err := preflightOn(t, e, "/posts")
	require.NoError(t, err)
	require.False(t, pf.IsCompleted(), "the continuation is asynchronous")

	out, err := drain(t, a)
	require.NoError(t, err)
	assert.Equal(t, Values{"post:posts"}, out)
}

func TestAndThenPropagatesStageErrors(t *testing.T) {
	t.Run("first stage advisory", func(t *testing.T) {
		e := AndThen(segment("posts"), func(context.Context, Values) (interface{}, error) {
			t.Error("continuation must not run")
			return nil, nil
		})

		_, _, err := preflightOn(t, e, "/users")
		assert.True(t, IsNotMatched(err))
	})

	t.Run("second stage failure", func(t *testing.T) {
		boom := errors.New("boom")
		e := AndThen(segment("posts"), func(context.Context, Values) (interface{}, error) {
			return nil, boom
		})

		a, pf, err := preflightOn(t, e, "/posts")
		require.NoError(t, err)
		require.False(t, pf.IsCompleted())

		_, err = drain(t, a)
		assert.ErrorIs(t, err, boom)
	})
}

func TestGuardContract(t *testing.T) {
	t.Run("preflight twice", func(t *testing.T) {
		a, _, err := preflightOn(t, Value(1), "/")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/", nil)
		_, err = a.Preflight(NewPreflightContext(req))
		assert.ErrorIs(t, err, ErrPreflightRepeated)
	})

	t.Run("poll before preflight", func(t *testing.T) {
		a := Guard(Value(1).Action())
		acx := NewActionContext(context.Background(), httptest.NewRequest("GET", "/", nil), nil)
		_, err := a.PollAction(acx)
		assert.ErrorIs(t, err, ErrPollBeforePreflight)
	})

	t.Run("poll after completion", func(t *testing.T) {
		a, pf, err := preflightOn(t, Value(1), "/")
		require.NoError(t, err)
		require.True(t, pf.IsCompleted())

		acx := NewActionContext(context.Background(), httptest.NewRequest("GET", "/", nil), nil)
		_, err = a.PollAction(acx)
		assert.ErrorIs(t, err, ErrActionDone)
	})
}

func TestCombine(t *testing.T) {
	for _, tc := range []struct {
		name        string
		left, right Values
		want        Values
	}{
		{"both empty", nil, nil, nil},
		{"left empty", nil, Values{1}, Values{1}},
		{"right empty", Values{1}, nil, Values{1}},
		{"order preserved", Values{1, 2}, Values{3}, Values{1, 2, 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Combine(tc.left, tc.right))
		})
	}
}
