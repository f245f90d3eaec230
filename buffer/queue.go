package buffer

import "github.com/myLogic207/godeque/deque"

// queueBuffer hands out the oldest element first
type queueBuffer[T comparable] struct {
	deque.Deque[T]
}

func (b queueBuffer[T]) add(element T) {
	b.PushBack(element)
}

func (b queueBuffer[T]) get() (T, bool) {
	return b.PopFront()
}

func (b queueBuffer[T]) peek() (T, bool) {
	return b.PeekFront()
}
