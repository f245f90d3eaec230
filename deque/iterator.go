package deque

import "iter"

type iterable[T any] interface {
	Len() int
	at(i int) T
	modCount() uint64
}

// Iterator walks a deque front to back without copying it.
// The length and modification count are captured on creation; any structural
// change afterwards ends the walk with ErrConcurrentModification.
type Iterator[T any] struct {
	source  iterable[T]
	version uint64
	count   int
	index   int
	current T
	err     error
}

func newIterator[T any](source iterable[T]) *Iterator[T] {
	return &Iterator[T]{
		source:  source,
		version: source.modCount(),
		count:   source.Len(),
		index:   -1,
	}
}

func (it *Iterator[T]) Next() bool {
	if it.err != nil || it.index+1 >= it.count {
		return false
	}
	if it.source.modCount() != it.version {
		it.err = ErrConcurrentModification
		var zero T
		it.current = zero
		return false
	}
	it.index++
	it.current = it.source.at(it.index)
	return true
}

func (it *Iterator[T]) Value() T {
	return it.current
}

// Index is the logical position of Value, -1 before the first Next.
func (it *Iterator[T]) Index() int {
	return it.index
}

func (it *Iterator[T]) Err() error {
	return it.err
}

func all[T any](source iterable[T]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		it := newIterator(source)
		for it.Next() {
			if !yield(it.Index(), it.Value()) {
				break
			}
			// a mutation inside the loop body must not go unnoticed on the last element
			if it.source.modCount() != it.version {
				it.err = ErrConcurrentModification
				break
			}
		}
		if err := it.Err(); err != nil {
			panic(err)
		}
	}
}

func values[T any](source iterable[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range all(source) {
			if !yield(v) {
				return
			}
		}
	}
}
