// Package deque provides two array-backed double-ended queues sharing one contract:
//   - Circular: fixed capacity ring, a push into a full ring evicts the opposite end
//   - Growable: linear store with slack on both sides, compacts or doubles instead of evicting
//
// Neither type locks internally. SyncRoot hands out a mutex that callers may use to
// coordinate access themselves; the deque never acquires it.
//
// Iteration is lazy and reads the live store. A structural change (push, pop, insert,
// remove, clear, trim) while iterating stops the walk with ErrConcurrentModification.
package deque

import (
	"iter"
	"sync"
	"sync/atomic"
)

const (
	DefaultCapacity = 32
	MinCapacity     = 3
)

// Deque is the ordered, indexable, double-ended sequence both variants implement.
type Deque[T comparable] interface {
	Len() int
	Capacity() int

	PushBack(item T)
	PushFront(item T)
	// PopFront and PopBack report false on an empty deque.
	PopFront() (T, bool)
	PopBack() (T, bool)
	PeekFront() (T, bool)
	PeekBack() (T, bool)

	// At fails with ErrIndexOutOfRange outside [0, Len()).
	At(i int) (T, error)
	// Set overwrites in [0, Len()), prepends at -1 and appends at Len().
	Set(i int, item T) error
	// Insert fails with ErrIndexOutOfRange outside [0, Len()].
	Insert(i int, item T) error
	// RemoveAt is a no-op returning false outside [0, Len()).
	RemoveAt(i int) (T, bool)
	Remove(item T) bool

	Contains(item T) bool
	IndexOf(item T) int
	IndexFunc(match func(T) bool) int

	Clear()
	ToSlice() []T
	CopyTo(dst []T, offset int) (int, error)

	All() iter.Seq2[int, T]
	Values() iter.Seq[T]
	Iterator() *Iterator[T]

	SyncRoot() *sync.Mutex
	IsSynchronized() bool
}

var (
	_ Deque[int] = (*Circular[int])(nil)
	_ Deque[int] = (*Growable[int])(nil)
)

// syncRoot lazily provides the external synchronization handle.
type syncRoot struct {
	root atomic.Pointer[sync.Mutex]
}

func (s *syncRoot) SyncRoot() *sync.Mutex {
	if root := s.root.Load(); root != nil {
		return root
	}
	s.root.CompareAndSwap(nil, &sync.Mutex{})
	return s.root.Load()
}

// IsSynchronized is always false: the deques never lock.
func (s *syncRoot) IsSynchronized() bool {
	return false
}

func checkCapacity(capacity int) error {
	if capacity < MinCapacity {
		return &CapacityError{capacity: capacity}
	}
	return nil
}

// copyRoom validates a CopyTo target and reports how many slots it offers past offset.
func copyRoom[T any](dst []T, offset int) (int, error) {
	if dst == nil {
		return 0, ErrNullTarget
	}
	if offset < 0 {
		return 0, &IndexError{index: offset, length: len(dst)}
	}
	room := len(dst) - offset
	if room <= 0 {
		return 0, &CopyError{offset: offset, length: len(dst)}
	}
	return room, nil
}
