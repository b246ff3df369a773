package ports

// Result is the uniform outcome of every backend client operation. Exactly one
// of Data or Error is meaningful, selected by Success.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`

	cause error
}

// Err returns the error a failed result was built from, or nil.
func (r Result[T]) Err() error {
	return r.cause
}

// OK wraps data in a successful result.
func OK[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps err in a failed result. A nil err yields a generic message.
func Fail[T any](err error) Result[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Result[T]{Error: msg, cause: err}
}

// Failf builds a failed result from a plain message.
func Failf[T any](msg string) Result[T] {
	return Result[T]{Error: msg}
}
