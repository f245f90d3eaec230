package deque

import "iter"

// Growable is a deque over a linear store with slack on both sides. Elements
// are never evicted: when a push finds its end exhausted the CapacityPolicy
// either compacts the live range inside the store or doubles the store.
type Growable[T comparable] struct {
	syncRoot
	items           []T
	front           int // slot of the first element
	back            int // slot after the last element
	initialCapacity int
	policy          CapacityPolicy
	mods            uint64
}

// NewGrowable fails with ErrInvalidCapacity below MinCapacity.
func NewGrowable[T comparable](capacity int, options ...Option[T]) (*Growable[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	opts := applyOptions(options...)
	g := &Growable[T]{
		initialCapacity: capacity,
		policy:          opts.policy,
	}
	g.reset()
	return g, nil
}

func (g *Growable[T]) reset() {
	g.items = make([]T, g.initialCapacity)
	g.front = g.initialCapacity / 2
	g.back = g.front
}

func (g *Growable[T]) Len() int {
	return g.back - g.front
}

func (g *Growable[T]) Capacity() int {
	return len(g.items)
}

func (g *Growable[T]) state() CapacityState {
	return CapacityState{
		Len:      g.Len(),
		Capacity: len(g.items),
		Front:    g.front,
		Back:     g.back,
	}
}

// adjust makes room at the exhausted end before a write lands there.
func (g *Growable[T]) adjust(atBack bool) {
	g.mods++
	count := g.Len()
	capacity := len(g.items)

	if g.policy(g.state()) == Compact {
		start := capacity / 4
		fits := start+count <= capacity && start != g.front
		if atBack {
			fits = fits && start+count < capacity
		} else {
			fits = fits && start > 0
		}
		if fits {
			copy(g.items[start:], g.items[g.front:g.back])
			clear(g.items[:start])
			clear(g.items[start+count:])
			g.front = start
			g.back = start + count
			return
		}
	}

	items := make([]T, capacity*2)
	start := capacity / 2
	copy(items[start:], g.items[g.front:g.back])
	g.items = items
	g.front = start
	g.back = start + count
}

func (g *Growable[T]) PushBack(item T) {
	if g.back == len(g.items) {
		g.adjust(true)
	}
	g.mods++
	g.items[g.back] = item
	g.back++
}

func (g *Growable[T]) PushFront(item T) {
	if g.front == 0 {
		g.adjust(false)
	}
	g.mods++
	g.front--
	g.items[g.front] = item
}

func (g *Growable[T]) PopFront() (T, bool) {
	var zero T
	if g.front == g.back {
		return zero, false
	}
	g.mods++
	item := g.items[g.front]
	g.items[g.front] = zero
	g.front++
	return item, true
}

func (g *Growable[T]) PopBack() (T, bool) {
	var zero T
	if g.front == g.back {
		return zero, false
	}
	g.mods++
	g.back--
	item := g.items[g.back]
	g.items[g.back] = zero
	return item, true
}

func (g *Growable[T]) PeekFront() (T, bool) {
	if g.front == g.back {
		var zero T
		return zero, false
	}
	return g.items[g.front], true
}

func (g *Growable[T]) PeekBack() (T, bool) {
	if g.front == g.back {
		var zero T
		return zero, false
	}
	return g.items[g.back-1], true
}

func (g *Growable[T]) At(i int) (T, error) {
	if i < 0 || i >= g.Len() {
		var zero T
		return zero, &IndexError{index: i, length: g.Len()}
	}
	return g.items[g.front+i], nil
}

func (g *Growable[T]) Set(i int, item T) error {
	count := g.Len()
	switch {
	case i == -1:
		g.PushFront(item)
	case i == count:
		g.PushBack(item)
	case i < -1 || i > count:
		return &IndexError{index: i, length: count}
	default:
		g.items[g.front+i] = item
	}
	return nil
}

// Insert shifts everything from i to the back one slot right, adjusting the
// store first when the back is exhausted.
func (g *Growable[T]) Insert(i int, item T) error {
	count := g.Len()
	if i < 0 || i > count {
		return &IndexError{index: i, length: count}
	}
	if i == 0 {
		g.PushFront(item)
		return nil
	}
	if i == count {
		g.PushBack(item)
		return nil
	}

	if g.back == len(g.items) {
		g.adjust(true)
	}
	g.mods++
	pos := g.front + i
	copy(g.items[pos+1:g.back+1], g.items[pos:g.back])
	g.items[pos] = item
	g.back++
	return nil
}

// RemoveAt shifts everything after i one slot left.
func (g *Growable[T]) RemoveAt(i int) (T, bool) {
	var zero T
	if i < 0 || i >= g.Len() {
		return zero, false
	}
	if i == 0 {
		return g.PopFront()
	}
	g.mods++
	pos := g.front + i
	item := g.items[pos]
	copy(g.items[pos:g.back-1], g.items[pos+1:g.back])
	g.back--
	g.items[g.back] = zero
	return item, true
}

// Remove deletes the first element equal to item.
func (g *Growable[T]) Remove(item T) bool {
	if i := g.IndexOf(item); i >= 0 {
		g.RemoveAt(i)
		return true
	}
	return false
}

func (g *Growable[T]) Contains(item T) bool {
	return g.IndexOf(item) >= 0
}

func (g *Growable[T]) IndexOf(item T) int {
	for i := g.front; i < g.back; i++ {
		if g.items[i] == item {
			return i - g.front
		}
	}
	return -1
}

func (g *Growable[T]) IndexFunc(match func(T) bool) int {
	for i := g.front; i < g.back; i++ {
		if match(g.items[i]) {
			return i - g.front
		}
	}
	return -1
}

// Clear drops the store and starts over at the construction capacity.
func (g *Growable[T]) Clear() {
	g.mods++
	g.reset()
}

// TrimExcess shrinks the store to Len()+2 slots, one slack slot per side.
// An empty deque is shrunk to MinCapacity.
func (g *Growable[T]) TrimExcess() {
	g.mods++
	count := g.Len()
	if count == 0 {
		g.items = make([]T, MinCapacity)
		g.front = 1
		g.back = 1
		return
	}
	items := make([]T, count+2)
	copy(items[1:], g.items[g.front:g.back])
	g.items = items
	g.front = 1
	g.back = 1 + count
}

func (g *Growable[T]) ToSlice() []T {
	out := make([]T, g.Len())
	copy(out, g.items[g.front:g.back])
	return out
}

// CopyTo copies as many elements as fit into dst[offset:], front first.
func (g *Growable[T]) CopyTo(dst []T, offset int) (int, error) {
	room, err := copyRoom(dst, offset)
	if err != nil {
		return 0, err
	}
	n := min(room, g.Len())
	return copy(dst[offset:offset+n], g.items[g.front:g.front+n]), nil
}

func (g *Growable[T]) All() iter.Seq2[int, T] {
	return all[T](g)
}

func (g *Growable[T]) Values() iter.Seq[T] {
	return values[T](g)
}

func (g *Growable[T]) Iterator() *Iterator[T] {
	return newIterator[T](g)
}

func (g *Growable[T]) at(i int) T {
	return g.items[g.front+i]
}

func (g *Growable[T]) modCount() uint64 {
	return g.mods
}
