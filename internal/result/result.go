// Package result provides a two-variant success/failure container used as the
// return value of every use case.
package result

// Result holds either a value (Ok) or an error (Fail), never both.
// The zero Result is a failure carrying the zero E.
type Result[T, E any] struct {
	value T
	err   E
	ok    bool
}

func Ok[T, E any](value T) Result[T, E] {
	return Result[T, E]{value: value, ok: true}
}

func Fail[T, E any](err E) Result[T, E] {
	return Result[T, E]{err: err}
}

func (r Result[T, E]) IsOk() bool   { return r.ok }
func (r Result[T, E]) IsFail() bool { return !r.ok }

// Value returns the success value and true, or the zero T and false.
func (r Result[T, E]) Value() (T, bool) {
	if !r.ok {
		var zero T
		return zero, false
	}
	return r.value, true
}

// Err returns the failure and true, or the zero E and false.
func (r Result[T, E]) Err() (E, bool) {
	if r.ok {
		var zero E
		return zero, false
	}
	return r.err, true
}

// Match calls exactly one of onOk or onFail.
func Match[T, E, R any](r Result[T, E], onOk func(T) R, onFail func(E) R) R {
	if r.ok {
		return onOk(r.value)
	}
	return onFail(r.err)
}
