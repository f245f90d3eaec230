package deque

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCircular(t *testing.T, capacity int, values ...int) *Circular[int] {
	t.Helper()
	c, err := NewCircular[int](capacity)
	require.NoError(t, err)
	for _, v := range values {
		c.PushBack(v)
	}
	return c
}

// checkRing asserts the index bookkeeping and that no stale values survive outside the live range.
func checkRing[T comparable](t *testing.T, c *Circular[T]) {
	t.Helper()
	capacity := len(c.items)
	require.GreaterOrEqual(t, c.front, 0)
	require.Less(t, c.front, capacity)
	require.GreaterOrEqual(t, c.back, 0)
	require.Less(t, c.back, capacity)
	require.LessOrEqual(t, c.count, capacity)
	require.Equal(t, (c.front+c.count)%capacity, c.back)

	var zero T
	for i := c.count; i < capacity; i++ {
		require.Equal(t, zero, c.items[c.slot(i)], "stale value in free slot %d", c.slot(i))
	}
}

func TestNewCircularCapacity(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		wantErr  bool
	}{
		{"negative", -1, true},
		{"zero", 0, true},
		{"two", 2, true},
		{"three", 3, false},
		{"default", DefaultCapacity, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCircular[string](tc.capacity)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidCapacity)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.capacity, c.Capacity())
			assert.Equal(t, 0, c.Len())
		})
	}
}

func TestCircularOrder(t *testing.T) {
	c := newTestCircular(t, 8)
	for i := 0; i < 5; i++ {
		c.PushBack(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := c.PopFront()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	for i := 0; i < 5; i++ {
		c.PushFront(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := c.PopBack()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := c.PopFront()
	assert.False(t, ok)
	_, ok = c.PopBack()
	assert.False(t, ok)
	assert.Equal(t, 8, c.Capacity())
	checkRing(t, c)
}

func TestCircularPushPopSameEnd(t *testing.T) {
	for capacity := MinCapacity; capacity < 12; capacity++ {
		for k := 0; k <= capacity; k++ {
			c := newTestCircular(t, capacity)
			for i := 0; i < k; i++ {
				c.PushBack(i)
			}
			for i := k - 1; i >= 0; i-- {
				v, ok := c.PopBack()
				require.True(t, ok)
				require.Equal(t, i, v)
			}
			require.Equal(t, 0, c.Len())
			require.Equal(t, capacity, c.Capacity())
			checkRing(t, c)
		}
	}
}

func TestCircularEviction(t *testing.T) {
	var dropped []int
	c, err := NewCircular[int](4, WithDropCallback(func(item int) {
		dropped = append(dropped, item)
	}))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c.PushBack(i)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, c.ToSlice())
	assert.Equal(t, []int{0}, dropped)

	for k := 1; k < 10; k++ {
		c := newTestCircular(t, 5)
		for i := 0; i < 5+k; i++ {
			c.PushBack(i)
		}
		want := []int{k, k + 1, k + 2, k + 3, k + 4}
		require.Equal(t, want, c.ToSlice())
		checkRing(t, c)
	}
}

func TestCircularPushFrontEvictsBack(t *testing.T) {
	var dropped []int
	c, err := NewCircular[int](3, WithDropCallback(func(item int) {
		dropped = append(dropped, item)
	}))
	require.NoError(t, err)
	c.PushBack(1)
	c.PushBack(2)
	c.PushBack(3)

	c.PushFront(0)
	assert.Equal(t, []int{0, 1, 2}, c.ToSlice())
	assert.Equal(t, []int{3}, dropped)
	assert.Equal(t, 3, c.Len())
	checkRing(t, c)
}

func TestCircularPeek(t *testing.T) {
	c := newTestCircular(t, 3)
	_, ok := c.PeekFront()
	assert.False(t, ok)
	_, ok = c.PeekBack()
	assert.False(t, ok)

	c.PushBack(1)
	c.PushBack(2)
	front, ok := c.PeekFront()
	require.True(t, ok)
	assert.Equal(t, 1, front)
	back, ok := c.PeekBack()
	require.True(t, ok)
	assert.Equal(t, 2, back)
	assert.Equal(t, 2, c.Len())
}

func TestCircularIndexing(t *testing.T) {
	c := newTestCircular(t, 5, 0, 1, 2, 3, 4)
	c.PushBack(5) // wraps, front is no longer slot 0

	for i := 0; i < c.Len(); i++ {
		v, err := c.At(i)
		require.NoError(t, err)
		assert.Equal(t, i+1, v)

		require.NoError(t, c.Set(i, i*10))
		v, err = c.At(i)
		require.NoError(t, err)
		assert.Equal(t, i*10, v)
	}

	_, err := c.At(-1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = c.At(c.Len())
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	assert.ErrorIs(t, c.Set(-2, 1), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Set(c.Len()+1, 1), ErrIndexOutOfRange)
}

func TestCircularSetEnds(t *testing.T) {
	c := newTestCircular(t, 5, 1, 2)
	require.NoError(t, c.Set(-1, 0))
	require.NoError(t, c.Set(c.Len(), 3))
	assert.Equal(t, []int{0, 1, 2, 3}, c.ToSlice())
	checkRing(t, c)
}

func TestCircularInsert(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		initial  []int
		index    int
		want     []int
	}{
		{"front", 6, []int{1, 2, 3}, 0, []int{9, 1, 2, 3}},
		{"back", 6, []int{1, 2, 3}, 3, []int{1, 2, 3, 9}},
		{"near front", 6, []int{1, 2, 3, 4, 5}, 1, []int{1, 9, 2, 3, 4, 5}},
		{"near back", 6, []int{1, 2, 3, 4, 5}, 4, []int{1, 2, 3, 4, 9, 5}},
		{"middle", 8, []int{1, 2, 3, 4}, 2, []int{1, 2, 9, 3, 4}},
		{"full evicts front", 4, []int{1, 2, 3, 4}, 2, []int{2, 9, 3, 4}},
		{"full at one", 4, []int{1, 2, 3, 4}, 1, []int{9, 2, 3, 4}},
		{"full at back", 4, []int{1, 2, 3, 4}, 4, []int{2, 3, 4, 9}},
		{"full at front", 4, []int{1, 2, 3, 4}, 0, []int{9, 1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestCircular(t, tc.capacity)
			// start mid ring so shifts cross the wrap boundary
			for i := 0; i < tc.capacity-1; i++ {
				c.PushBack(0)
				c.PopFront()
			}
			for _, v := range tc.initial {
				c.PushBack(v)
			}
			require.NoError(t, c.Insert(tc.index, 9))
			assert.Equal(t, tc.want, c.ToSlice())
			checkRing(t, c)
		})
	}

	c := newTestCircular(t, 4, 1, 2)
	assert.ErrorIs(t, c.Insert(-1, 9), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.Insert(3, 9), ErrIndexOutOfRange)
	assert.Equal(t, []int{1, 2}, c.ToSlice())
}

func TestCircularRemoveAt(t *testing.T) {
	for i := 0; i < 6; i++ {
		c := newTestCircular(t, 6)
		c.PushFront(-1)
		c.PopBack()
		for v := 0; v < 6; v++ {
			c.PushBack(v)
		}
		removed, ok := c.RemoveAt(i)
		require.True(t, ok)
		assert.Equal(t, i, removed)

		want := []int{}
		for v := 0; v < 6; v++ {
			if v != i {
				want = append(want, v)
			}
		}
		assert.Equal(t, want, c.ToSlice())
		checkRing(t, c)
	}

	c := newTestCircular(t, 4, 1, 2)
	_, ok := c.RemoveAt(-1)
	assert.False(t, ok)
	_, ok = c.RemoveAt(2)
	assert.False(t, ok)
	assert.Equal(t, []int{1, 2}, c.ToSlice())

	empty := newTestCircular(t, 4)
	_, ok = empty.RemoveAt(0)
	assert.False(t, ok)
}

func TestCircularSearch(t *testing.T) {
	c, err := NewCircular[string](4)
	require.NoError(t, err)
	for _, v := range []string{"a", "b", "c", "b"} {
		c.PushBack(v)
	}

	assert.True(t, c.Contains("c"))
	assert.False(t, c.Contains("z"))
	assert.Equal(t, 1, c.IndexOf("b"))
	assert.Equal(t, -1, c.IndexOf("z"))
	assert.Equal(t, 2, c.IndexFunc(func(s string) bool { return s > "b" }))

	assert.True(t, c.Remove("b"))
	assert.Equal(t, []string{"a", "c", "b"}, c.ToSlice())
	assert.False(t, c.Remove("z"))
}

func TestCircularClear(t *testing.T) {
	c := newTestCircular(t, 4, 1, 2, 3, 4, 5)
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 4, c.Capacity())
	assert.Equal(t, []int{}, c.ToSlice())
	for _, v := range c.items {
		assert.Zero(t, v)
	}
	checkRing(t, c)

	c.PushBack(7)
	assert.Equal(t, []int{7}, c.ToSlice())
}

func TestCircularCopyTo(t *testing.T) {
	c := newTestCircular(t, 5, 0, 1, 2, 3, 4, 5, 6) // wrapped: [2 3 4 5 6]

	dst := make([]int, 7)
	n, err := c.CopyTo(dst, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{0, 2, 3, 4, 5, 6, 0}, dst)

	short := make([]int, 3)
	n, err = c.CopyTo(short, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int{0, 2, 3}, short)

	_, err = c.CopyTo(nil, 0)
	assert.ErrorIs(t, err, ErrNullTarget)
	_, err = c.CopyTo(make([]int, 3), 3)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	_, err = c.CopyTo([]int{}, 0)
	assert.ErrorIs(t, err, ErrInsufficientSpace)
	_, err = c.CopyTo(make([]int, 3), -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

// TestCircularAgainstModel replays random operations against a plain slice.
func TestCircularAgainstModel(t *testing.T) {
	rng := rand.New(rand.NewSource(207))
	const capacity = 7
	c := newTestCircular(t, capacity)
	var model []int

	for step := 0; step < 5000; step++ {
		v := rng.Intn(1000) + 1
		switch op := rng.Intn(7); op {
		case 0:
			c.PushBack(v)
			model = append(model, v)
			if len(model) > capacity {
				model = model[1:]
			}
		case 1:
			c.PushFront(v)
			model = append([]int{v}, model...)
			if len(model) > capacity {
				model = model[:capacity]
			}
		case 2:
			got, ok := c.PopFront()
			require.Equal(t, len(model) > 0, ok)
			if ok {
				require.Equal(t, model[0], got)
				model = model[1:]
			}
		case 3:
			got, ok := c.PopBack()
			require.Equal(t, len(model) > 0, ok)
			if ok {
				require.Equal(t, model[len(model)-1], got)
				model = model[:len(model)-1]
			}
		case 4:
			i := rng.Intn(len(model) + 1)
			require.NoError(t, c.Insert(i, v))
			switch {
			case i == 0:
				model = append([]int{v}, model...)
				if len(model) > capacity {
					model = model[:capacity]
				}
			case len(model) == capacity:
				next := append([]int{}, model[1:i]...)
				next = append(next, v)
				model = append(next, model[i:]...)
			default:
				model = append(model[:i], append([]int{v}, model[i:]...)...)
			}
		case 5:
			if len(model) == 0 {
				continue
			}
			i := rng.Intn(len(model))
			got, ok := c.RemoveAt(i)
			require.True(t, ok)
			require.Equal(t, model[i], got)
			model = append(model[:i], model[i+1:]...)
		case 6:
			if len(model) == 0 {
				continue
			}
			i := rng.Intn(len(model))
			require.NoError(t, c.Set(i, v))
			model[i] = v
		}
		require.Equal(t, len(model), c.Len(), "step %d", step)
		if len(model) == 0 {
			require.Empty(t, c.ToSlice())
		} else {
			require.Equal(t, model, c.ToSlice(), "step %d", step)
		}
		checkRing(t, c)
	}
}
