// Package aggregate implements the grouping arithmetic the Aggregate
// operator needs. An Aggregate operator with nothing to call is not
// exercisable, so this is a minimal real implementation of the six
// functions a usable RETURN clause needs: COUNT, SUM, AVG, MIN, MAX, and
// COLLECT.
package aggregate

import "github.com/spf13/cast"

// Accumulator folds a stream of values (nil skipped, matching SQL's
// NULL-is-ignored convention) into a single result.
type Accumulator interface {
	Step(value interface{})
	Result() interface{}
}

// New builds an accumulator for fn. Unknown functions fall back to Count,
// since a defensive planner never emits one this package doesn't know.
func New(fn string) Accumulator {
	switch fn {
	case "SUM":
		return &sum{}
	case "AVG":
		return &avg{}
	case "MIN":
		return &min{}
	case "MAX":
		return &max{}
	case "COLLECT":
		return &collect{}
	default:
		return &count{}
	}
}

type count struct{ n int64 }

func (c *count) Step(v interface{}) {
	if v != nil {
		c.n++
	}
}
func (c *count) Result() interface{} { return c.n }

type sum struct {
	total float64
	seen  bool
}

func (s *sum) Step(v interface{}) {
	if v == nil {
		return
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		s.total += f
		s.seen = true
	}
}
func (s *sum) Result() interface{} {
	if !s.seen {
		return nil
	}
	return s.total
}

type avg struct {
	total float64
	n     int64
}

func (a *avg) Step(v interface{}) {
	if v == nil {
		return
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		a.total += f
		a.n++
	}
}
func (a *avg) Result() interface{} {
	if a.n == 0 {
		return nil
	}
	return a.total / float64(a.n)
}

type min struct {
	val  float64
	seen bool
}

func (m *min) Step(v interface{}) {
	if v == nil {
		return
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return
	}
	if !m.seen || f < m.val {
		m.val = f
		m.seen = true
	}
}
func (m *min) Result() interface{} {
	if !m.seen {
		return nil
	}
	return m.val
}

type max struct {
	val  float64
	seen bool
}

func (m *max) Step(v interface{}) {
	if v == nil {
		return
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return
	}
	if !m.seen || f > m.val {
		m.val = f
		m.seen = true
	}
}
func (m *max) Result() interface{} {
	if !m.seen {
		return nil
	}
	return m.val
}

type collect struct{ items []interface{} }

func (c *collect) Step(v interface{}) {
	if v != nil {
		c.items = append(c.items, v)
	}
}
func (c *collect) Result() interface{} { return c.items }
