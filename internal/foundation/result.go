// Package foundation holds small generic helpers shared by the exporter packages.
package foundation

import "fmt"

// Result is the outcome of one operation: a value of T or an error of E.
// The refresh loop keeps one per issue-count query.
type Result[T any, E error] struct {
	value T
	err   E
	ok    bool
}

func Ok[T any, E error](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

func Err[T any, E error](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

// FromTuple wraps a (value, error) return.
func FromTuple[T any, E error](value T, err E) Result[T, E] {
	if any(err) != nil {
		return Err[T](err)
	}
	return Ok[T, E](value)
}

func (r Result[T, E]) IsOk() bool  { return r.ok }
func (r Result[T, E]) IsErr() bool { return !r.ok }

// Unwrap returns the value and panics on an error result.
func (r Result[T, E]) Unwrap() T {
	if !r.ok {
		panic(fmt.Sprintf("foundation: Unwrap on error result: %v", r.err))
	}
	return r.value
}

// UnwrapErr returns the error and panics on a successful result.
func (r Result[T, E]) UnwrapErr() E {
	if r.ok {
		panic("foundation: UnwrapErr on ok result")
	}
	return r.err
}

// UnwrapOr returns the value, or fallback on an error result.
func (r Result[T, E]) UnwrapOr(fallback T) T {
	if r.ok {
		return r.value
	}
	return fallback
}
