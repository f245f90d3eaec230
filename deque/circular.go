package deque

import "iter"

// Circular is a fixed-capacity deque over a ring. Pushing into a full ring
// overwrites the element at the opposite end, so it always keeps the most
// recent Capacity() pushes of each direction.
type Circular[T comparable] struct {
	syncRoot
	items  []T
	front  int // slot of the first element
	back   int // slot the next PushBack writes to
	count  int
	mods   uint64
	onDrop DropCallback[T]
}

// NewCircular fails with ErrInvalidCapacity below MinCapacity.
func NewCircular[T comparable](capacity int, options ...Option[T]) (*Circular[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	opts := applyOptions(options...)
	return &Circular[T]{
		items:  make([]T, capacity),
		onDrop: opts.dropCallback,
	}, nil
}

func (c *Circular[T]) Len() int {
	return c.count
}

func (c *Circular[T]) Capacity() int {
	return len(c.items)
}

func (c *Circular[T]) IsFull() bool {
	return c.count == len(c.items)
}

func (c *Circular[T]) next(slot int) int {
	slot++
	if slot == len(c.items) {
		return 0
	}
	return slot
}

func (c *Circular[T]) prev(slot int) int {
	if slot == 0 {
		return len(c.items) - 1
	}
	return slot - 1
}

// slot maps a logical index onto the ring.
func (c *Circular[T]) slot(i int) int {
	return (c.front + i) % len(c.items)
}

func (c *Circular[T]) drop(item T) {
	if c.onDrop != nil {
		c.onDrop(item)
	}
}

func (c *Circular[T]) PushBack(item T) {
	c.mods++
	if c.IsFull() {
		// front == back, the write lands on the oldest element
		dropped := c.items[c.back]
		c.items[c.back] = item
		c.back = c.next(c.back)
		c.front = c.back
		c.drop(dropped)
		return
	}
	c.items[c.back] = item
	c.back = c.next(c.back)
	c.count++
}

func (c *Circular[T]) PushFront(item T) {
	c.mods++
	c.front = c.prev(c.front)
	if c.IsFull() {
		dropped := c.items[c.front]
		c.items[c.front] = item
		c.back = c.front
		c.drop(dropped)
		return
	}
	c.items[c.front] = item
	c.count++
}

func (c *Circular[T]) PopFront() (T, bool) {
	var zero T
	if c.count == 0 {
		return zero, false
	}
	c.mods++
	item := c.items[c.front]
	c.items[c.front] = zero
	c.front = c.next(c.front)
	c.count--
	return item, true
}

func (c *Circular[T]) PopBack() (T, bool) {
	var zero T
	if c.count == 0 {
		return zero, false
	}
	c.mods++
	c.back = c.prev(c.back)
	item := c.items[c.back]
	c.items[c.back] = zero
	c.count--
	return item, true
}

func (c *Circular[T]) PeekFront() (T, bool) {
	if c.count == 0 {
		var zero T
		return zero, false
	}
	return c.items[c.front], true
}

func (c *Circular[T]) PeekBack() (T, bool) {
	if c.count == 0 {
		var zero T
		return zero, false
	}
	return c.items[c.prev(c.back)], true
}

func (c *Circular[T]) At(i int) (T, error) {
	if i < 0 || i >= c.count {
		var zero T
		return zero, &IndexError{index: i, length: c.count}
	}
	return c.items[c.slot(i)], nil
}

func (c *Circular[T]) Set(i int, item T) error {
	switch {
	case i == -1:
		c.PushFront(item)
	case i == c.count:
		c.PushBack(item)
	case i < -1 || i > c.count:
		return &IndexError{index: i, length: c.count}
	default:
		c.items[c.slot(i)] = item
	}
	return nil
}

// Insert places item at logical index i. In a full ring the front element is
// evicted, as PushBack would, and the elements before i move one step toward
// the front. Otherwise the shorter side is shifted.
func (c *Circular[T]) Insert(i int, item T) error {
	if i < 0 || i > c.count {
		return &IndexError{index: i, length: c.count}
	}
	if i == 0 {
		c.PushFront(item)
		return nil
	}
	if i == c.count {
		c.PushBack(item)
		return nil
	}

	c.mods++
	if c.IsFull() {
		dropped := c.items[c.front]
		for j := 0; j < i-1; j++ {
			c.items[c.slot(j)] = c.items[c.slot(j+1)]
		}
		c.items[c.slot(i-1)] = item
		c.drop(dropped)
		return nil
	}

	if i < c.count/2 {
		c.front = c.prev(c.front)
		for j := 0; j < i; j++ {
			c.items[c.slot(j)] = c.items[c.slot(j+1)]
		}
	} else {
		for j := c.count; j > i; j-- {
			c.items[c.slot(j)] = c.items[c.slot(j-1)]
		}
		c.back = c.next(c.back)
	}
	c.items[c.slot(i)] = item
	c.count++
	return nil
}

// RemoveAt closes the gap from the nearer end.
func (c *Circular[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= c.count {
		return zero, false
	}
	c.mods++
	item := c.items[c.slot(i)]
	if i < c.count/2 {
		for j := i; j > 0; j-- {
			c.items[c.slot(j)] = c.items[c.slot(j-1)]
		}
		c.items[c.front] = zero
		c.front = c.next(c.front)
	} else {
		for j := i; j < c.count-1; j++ {
			c.items[c.slot(j)] = c.items[c.slot(j+1)]
		}
		c.back = c.prev(c.back)
		c.items[c.back] = zero
	}
	c.count--
	return item, true
}

// Remove deletes the first element equal to item.
func (c *Circular[T]) Remove(item T) bool {
	if i := c.IndexOf(item); i >= 0 {
		c.RemoveAt(i)
		return true
	}
	return false
}

func (c *Circular[T]) Contains(item T) bool {
	return c.IndexOf(item) >= 0
}

func (c *Circular[T]) IndexOf(item T) int {
	for i := 0; i < c.count; i++ {
		if c.items[c.slot(i)] == item {
			return i
		}
	}
	return -1
}

func (c *Circular[T]) IndexFunc(match func(T) bool) int {
	for i := 0; i < c.count; i++ {
		if match(c.items[c.slot(i)]) {
			return i
		}
	}
	return -1
}

// Clear keeps the ring and zeroes it in place.
func (c *Circular[T]) Clear() {
	c.mods++
	clear(c.items)
	c.front = 0
	c.back = 0
	c.count = 0
}

func (c *Circular[T]) ToSlice() []T {
	out := make([]T, c.count)
	c.copyOut(out)
	return out
}

// CopyTo copies as many elements as fit into dst[offset:], front first.
func (c *Circular[T]) CopyTo(dst []T, offset int) (int, error) {
	room, err := copyRoom(dst, offset)
	if err != nil {
		return 0, err
	}
	return c.copyOut(dst[offset : offset+min(room, c.count)]), nil
}

// copyOut fills dst from the front, splitting at the wrap boundary.
func (c *Circular[T]) copyOut(dst []T) int {
	n := min(len(dst), c.count)
	if n == 0 {
		return 0
	}
	head := copy(dst[:n], c.items[c.front:min(c.front+n, len(c.items))])
	if head < n {
		copy(dst[head:n], c.items[:n-head])
	}
	return n
}

func (c *Circular[T]) All() iter.Seq2[int, T] {
	return all[T](c)
}

func (c *Circular[T]) Values() iter.Seq[T] {
	return values[T](c)
}

func (c *Circular[T]) Iterator() *Iterator[T] {
	return newIterator[T](c)
}

func (c *Circular[T]) at(i int) T {
	return c.items[c.slot(i)]
}

func (c *Circular[T]) modCount() uint64 {
	return c.mods
}
