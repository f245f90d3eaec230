package deque

// Option configures a deque at construction time.
type Option[T any] func(*dequeOptions[T])

// DropCallback receives an element a full Circular deque evicted to make room.
type DropCallback[T any] func(item T)

type dequeOptions[T any] struct {
	dropCallback DropCallback[T]
	policy       CapacityPolicy
}

// WithDropCallback is only consulted by Circular; Growable never drops.
func WithDropCallback[T any](callback DropCallback[T]) Option[T] {
	return func(opts *dequeOptions[T]) {
		opts.dropCallback = callback
	}
}

// WithCapacityPolicy replaces the HalfFullPolicy of a Growable deque.
// A nil policy keeps the default.
func WithCapacityPolicy[T any](policy CapacityPolicy) Option[T] {
	return func(opts *dequeOptions[T]) {
		if policy != nil {
			opts.policy = policy
		}
	}
}

func applyOptions[T any](options ...Option[T]) *dequeOptions[T] {
	opts := &dequeOptions[T]{
		policy: HalfFullPolicy,
	}
	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}
	return opts
}
