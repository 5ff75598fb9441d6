// Package queue provides the fixed-capacity ring buffer backing the event
// log and the telemetry window.
package queue

// Ring is a fixed-capacity, insertion-ordered double-ended queue.
//
// Pushing onto a full ring evicts the oldest item. Index 0 is always the
// oldest item and Len()-1 the newest. Push and both pops are O(1); removal
// from the middle is O(n) and preserves the order of the remaining items.
//
// Ring is not goroutine-safe.
type Ring[T any] struct {
	items   []T
	head    int
	size    int
	evicted uint64
}

// NewRing creates a ring holding at most capacity items. A capacity below 1
// is raised to 1.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Ring[T]{items: make([]T, capacity)}
}

// Len returns the number of items in the ring.
func (r *Ring[T]) Len() int { return r.size }

// Cap returns the fixed capacity of the ring.
func (r *Ring[T]) Cap() int { return len(r.items) }

// IsEmpty returns true if the ring holds no items.
func (r *Ring[T]) IsEmpty() bool { return r.size == 0 }

// Evicted returns how many items were dropped by PushBack on a full ring.
func (r *Ring[T]) Evicted() uint64 { return r.evicted }

// PushBack appends item as the newest entry. When the ring is full the oldest
// item is dropped and returned with ok set to true.
func (r *Ring[T]) PushBack(item T) (dropped T, ok bool) {
	if r.size == len(r.items) {
		dropped = r.items[r.head]
		r.items[r.head] = item
		r.head = r.wrap(r.head + 1)
		r.evicted++

		return dropped, true
	}

	r.items[r.wrap(r.head+r.size)] = item
	r.size++

	return dropped, false
}

// PopFront removes and returns the oldest item.
func (r *Ring[T]) PopFront() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	item := r.items[r.head]
	r.items[r.head] = zero
	r.head = r.wrap(r.head + 1)
	r.size--

	return item, true
}

// PopBack removes and returns the newest item.
func (r *Ring[T]) PopBack() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}

	idx := r.wrap(r.head + r.size - 1)
	item := r.items[idx]
	r.items[idx] = zero
	r.size--

	return item, true
}

// At returns the item at position i, where 0 is the oldest item.
// It panics if i is out of range.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("queue: ring index out of range")
	}

	return r.items[r.wrap(r.head+i)]
}

// RemoveAt removes the item at position i and returns it.
// It panics if i is out of range.
func (r *Ring[T]) RemoveAt(i int) T {
	item := r.At(i)

	for j := i; j < r.size-1; j++ {
		r.items[r.wrap(r.head+j)] = r.items[r.wrap(r.head+j+1)]
	}

	var zero T
	r.items[r.wrap(r.head+r.size-1)] = zero
	r.size--

	return item
}

// RemoveFunc removes every item for which match returns true and returns the
// number of removed items.
func (r *Ring[T]) RemoveFunc(match func(T) bool) int {
	w := 0
	for i := 0; i < r.size; i++ {
		item := r.items[r.wrap(r.head+i)]
		if match(item) {
			continue
		}
		r.items[r.wrap(r.head+w)] = item
		w++
	}

	var zero T
	for i := w; i < r.size; i++ {
		r.items[r.wrap(r.head+i)] = zero
	}

	removed := r.size - w
	r.size = w

	return removed
}

// Slice returns a copy of the items, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.items[r.wrap(r.head+i)]
	}

	return out
}

// Reset empties the ring. The eviction counter is kept.
func (r *Ring[T]) Reset() {
	clear(r.items)
	r.head = 0
	r.size = 0
}

func (r *Ring[T]) wrap(i int) int {
	return i % len(r.items)
}
