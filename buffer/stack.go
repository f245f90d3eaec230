package buffer

import "github.com/myLogic207/godeque/deque"

// stackBuffer hands out the most recent element first
type stackBuffer[T comparable] struct {
	deque.Deque[T]
}

func (b stackBuffer[T]) add(element T) {
	b.PushBack(element)
}

func (b stackBuffer[T]) get() (T, bool) {
	return b.PopBack()
}

func (b stackBuffer[T]) peek() (T, bool) {
	return b.PeekBack()
}
