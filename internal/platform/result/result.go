package result

// Result is a tagged success-or-failure value. Chains built with Then and
// Map short-circuit at the first failure and propagate it unchanged.
type Result[T any] struct {
	value   T
	failure *Failure
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func Err[T any](failure *Failure) Result[T] {
	return Result[T]{failure: failure}
}

func (r Result[T]) IsErr() bool {
	return r.failure != nil
}

// Value returns the success value; meaningful only when IsErr is false.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Failure() *Failure {
	return r.failure
}

// Unwrap converts the result into Go's usual (value, error) pair.
func (r Result[T]) Unwrap() (T, *Failure) {
	return r.value, r.failure
}

// Then is flatMap: it applies fn to a success and passes a failure through.
func Then[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.failure != nil {
		return Err[U](r.failure)
	}
	return fn(r.value)
}

// Map applies an infallible transform to a success.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.failure != nil {
		return Err[U](r.failure)
	}
	return Ok(fn(r.value))
}
