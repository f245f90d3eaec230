package lifecycle

import (
	"context"
	"errors"

	"github.com/myLogic207/godeque/config"
)

var (
	ErrInvalidSystem = errors.New("invalid subsystem, must implement SubSystem interface")
)

// SubSystem is anything the Initializer can start and stop, buffers and worker pools among them.
type SubSystem interface {
	Init(context.Context, *config.Config) error
	Shutdown() error
}

// systemWrapper remembers whether the system came up, only those are shut down
type systemWrapper struct {
	SubSystem
	name        string
	initialized bool
}

func newSystemWrapper(name string, system SubSystem) *systemWrapper {
	return &systemWrapper{
		name:      name,
		SubSystem: system,
	}
}

func (s *systemWrapper) init(ctx context.Context, cfg *config.Config) error {
	if err := s.Init(ctx, cfg); err != nil {
		return &SystemError{name: s.name, nested: err}
	}
	s.initialized = true
	return nil
}

func (s *systemWrapper) shutdown() error {
	if !s.initialized {
		return nil
	}
	s.initialized = false
	if err := s.Shutdown(); err != nil {
		return &SystemError{name: s.name, nested: err}
	}
	return nil
}

type SystemError struct {
	name   string
	nested error
}

func (e *SystemError) Error() string {
	return "system " + e.name + ": " + e.nested.Error()
}

func (e *SystemError) Unwrap() []error {
	return []error{ErrInitSystem, e.nested}
}
