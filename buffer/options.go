package buffer

import (
	"github.com/myLogic207/godeque/deque"
	"github.com/prometheus/client_golang/prometheus"
)

// Option configures what the config tree cannot express.
type Option[T comparable] func(*bufferOptions[T])

type bufferOptions[T comparable] struct {
	dropCallback deque.DropCallback[T]
	policy       deque.CapacityPolicy

	// metrics are only exported when a registerer is set
	registerer prometheus.Registerer
	component  string
}

// WithMetrics exports the buffer statistics to registerer. An empty component
// falls back to the buffer ID. A nil registerer is ignored.
func WithMetrics[T comparable](registerer prometheus.Registerer, component string) Option[T] {
	return func(opts *bufferOptions[T]) {
		if registerer != nil {
			opts.registerer = registerer
			opts.component = component
		}
	}
}

// WithDropCallback is called with every element a FIXED store evicts.
// It runs while the buffer is locked and must not call back into the buffer.
func WithDropCallback[T comparable](callback deque.DropCallback[T]) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithCapacityPolicy replaces the policy named by the POLICY key of a GROWING store.
func WithCapacityPolicy[T comparable](policy deque.CapacityPolicy) Option[T] {
	return func(opts *bufferOptions[T]) {
		opts.policy = policy
	}
}

func applyOptions[T comparable](options ...Option[T]) *bufferOptions[T] {
	opts := &bufferOptions[T]{}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
