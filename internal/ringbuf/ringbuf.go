// Package ringbuf provides a fixed-capacity FIFO that evicts its oldest
// element when full.
package ringbuf

// Ring is a bounded buffer. The zero value is unusable; create one with New.
type Ring[T any] struct {
	items []T
	start int
	size  int
}

// New creates a ring holding at most capacity elements.
// A capacity below 1 is treated as 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v, evicting the oldest element if the ring is full.
// It reports whether an element was evicted.
func (r *Ring[T]) Push(v T) bool {
	capacity := len(r.items)
	if r.size < capacity {
		r.items[(r.start+r.size)%capacity] = v
		r.size++
		return false
	}
	r.items[r.start] = v
	r.start = (r.start + 1) % capacity
	return true
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// At returns the i-th element, oldest first. It panics when i is out of range.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("ringbuf: index out of range")
	}
	return r.items[(r.start+i)%len(r.items)]
}

// Last returns the newest element and false when the ring is empty.
func (r *Ring[T]) Last() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.At(r.size - 1), true
}

// Snapshot copies the contents, oldest first.
func (r *Ring[T]) Snapshot() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.At(i)
	}
	return out
}

// Reset empties the ring without changing its capacity.
func (r *Ring[T]) Reset() {
	var zero T
	for i := range r.items {
		r.items[i] = zero
	}
	r.start = 0
	r.size = 0
}
