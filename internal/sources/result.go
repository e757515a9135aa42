// Package sources holds what the external feed clients (calendar, news,
// market, weather) share: the Result type they report with, an HTTP client
// with timeouts and retries, and an optional response cache.
package sources

import "fmt"

// Status tells which branch of a Result is populated.
type Status int

const (
	StatusOK Status = iota
	StatusEmpty
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of one fetch: Ok(value), Empty (nothing to fetch or
// nothing found), or Failed(reason). Clients never return bare errors so
// callers can apply their placeholder policy without guessing.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] { return Result[T]{Value: v, Status: StatusOK} }

// Empty reports that there was nothing to fetch.
func Empty[T any]() Result[T] { return Result[T]{Status: StatusEmpty} }

// Failed reports an upstream or parse failure.
func Failed[T any](err error) Result[T] { return Result[T]{Status: StatusFailed, Err: err} }

// Failedf is Failed with fmt.Errorf formatting.
func Failedf[T any](format string, args ...any) Result[T] {
	return Failed[T](fmt.Errorf(format, args...))
}

// Ok reports whether the result carries a value.
func (r Result[T]) Ok() bool { return r.Status == StatusOK }

// Or returns the value when Ok, otherwise def.
func (r Result[T]) Or(def T) T {
	if r.Status == StatusOK {
		return r.Value
	}
	return def
}

func (r Result[T]) String() string {
	if r.Status == StatusFailed && r.Err != nil {
		return "failed: " + r.Err.Error()
	}
	return r.Status.String()
}
