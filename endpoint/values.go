package endpoint

import (
	"fmt"
	"time"
)

// Values is the output tuple of a successful match. The element order is
// fixed at composition time: And produces the left operand's values followed
// by the right operand's values.
type Values []interface{}

// One wraps a single value into a one element tuple.
func One(value interface{}) Values {
	return Values{value}
}

// Combine concatenates two output tuples, left elements first. It is the
// only composition operation used by the combinators.
func Combine(left, right Values) Values {
	if len(left) == 0 {
		return right
	}

	if len(right) == 0 {
		return left
	}

	combined := make(Values, 0, len(left)+len(right))
	combined = append(combined, left...)
	return append(combined, right...)
}

// Args wraps an output tuple and provides methods to sequentially access
// and convert its elements. Every call of an accessor method advances the
// expected element counter. The Err method returns a non nil error if the
// counter does not match the tuple length or if there were conversion
// errors.
//
// Example usage:
//
//	a := out.Args()
//	s, i, err := a.String(), a.Int(), a.Err()
type Args struct {
	values Values
	pos    int
	errs   []error
}

// Args returns a sequential accessor over the tuple.
func (v Values) Args() *Args {
	return &Args{values: v}
}

func (a *Args) next() (interface{}, bool) {
	if a.pos >= len(a.values) {
		a.pos++
		return nil, false
	}

	value := a.values[a.pos]
	a.pos++
	return value, true
}

func (a *Args) fail(err error) {
	a.errs = append(a.errs, err)
}

// Any returns the next element without conversion.
func (a *Args) Any() interface{} {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing element at position %d", a.pos-1))
	}

	return value
}

func (a *Args) String() string {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing string at position %d", a.pos-1))
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	a.fail(fmt.Errorf("%v is not a string", value))
	return ""
}

func (a *Args) Int() int {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing int at position %d", a.pos-1))
		return 0
	}

	switch i := value.(type) {
	case int:
		return i
	case int64:
		return int(i)
	case float64:
		ii := int(i)
		if float64(ii) == i {
			return ii
		}
	}

	a.fail(fmt.Errorf("%v is not an int", value))
	return 0
}

func (a *Args) Int64() int64 {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing int64 at position %d", a.pos-1))
		return 0
	}

	switch i := value.(type) {
	case int64:
		return i
	case int:
		return int64(i)
	case float64:
		ii := int64(i)
		if float64(ii) == i {
			return ii
		}
	}

	a.fail(fmt.Errorf("%v is not an int64", value))
	return 0
}

func (a *Args) Float64() float64 {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing float64 at position %d", a.pos-1))
		return 0
	}

	switch f := value.(type) {
	case float64:
		return f
	case int:
		return float64(f)
	}

	a.fail(fmt.Errorf("%v is not a float64", value))
	return 0
}

func (a *Args) Bool() bool {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing bool at position %d", a.pos-1))
		return false
	}

	if b, ok := value.(bool); ok {
		return b
	}

	a.fail(fmt.Errorf("%v is not a bool", value))
	return false
}

// Duration converts a string element using time.ParseDuration and uses a
// time.Duration element as is.
func (a *Args) Duration() time.Duration {
	value, ok := a.next()
	if !ok {
		a.fail(fmt.Errorf("missing duration at position %d", a.pos-1))
		return 0
	}

	switch t := value.(type) {
	case time.Duration:
		return t
	case string:
		d, err := time.ParseDuration(t)
		if err != nil {
			a.fail(err)
			return 0
		}

		return d
	}

	a.fail(fmt.Errorf("%v is not a duration", value))
	return 0
}

// Err returns the first accumulated conversion error, or an error when the
// number of accessor calls does not match the tuple length.
func (a *Args) Err() error {
	if len(a.errs) > 0 {
		return a.errs[0]
	}

	if a.pos != len(a.values) {
		return fmt.Errorf("expected %d elements, got %d", a.pos, len(a.values))
	}

	return nil
}
