package workers

import "errors"

var (
	ErrInitWorkerPool = errors.New("worker pool is not initialized")
	ErrPoolClosed     = errors.New("worker pool is closed")
	ErrNilTask        = errors.New("task is nil")
	ErrTaskPanic      = errors.New("task panicked")
)

type WorkerError interface {
	error
	Unwrap() error
}

type InitError struct {
	nested error
}

func (e *InitError) Error() string {
	return "error initializing worker pool: " + e.nested.Error()
}

func (e *InitError) Unwrap() error {
	return e.nested
}

func (e *InitError) Is(target error) bool {
	return target == ErrInitWorkerPool
}
