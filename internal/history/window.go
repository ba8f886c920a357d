package history

// Window is a fixed-capacity FIFO over values of T.
//
// Push appends at the newest end and evicts from the oldest end while the
// length exceeds the capacity. Iteration is always oldest-to-newest.
type Window[T any] struct {
	capacity int
	elements []T
	first    int
	len      int
}

// NewWindow allocates a window holding at most capacity values.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window[T]{
		capacity: capacity,
		elements: make([]T, capacity),
	}
}

// Push appends v and evicts the oldest value when the window overflows.
// The evicted value is returned with ok=true.
func (w *Window[T]) Push(v T) (evicted T, ok bool) {
	if w.len == w.capacity {
		evicted = w.elements[w.first]
		w.elements[w.first] = v
		w.first = (w.first + 1) % w.capacity
		return evicted, true
	}

	w.elements[(w.first+w.len)%w.capacity] = v
	w.len++
	return evicted, false
}

func (w *Window[T]) Len() int {
	return w.len
}

func (w *Window[T]) Cap() int {
	return w.capacity
}

// At returns the i-th value counted from the oldest. idx must be < Len().
func (w *Window[T]) At(idx int) T {
	if idx < 0 || idx >= w.len {
		var empty T
		return empty
	}
	return w.elements[(w.first+idx)%w.capacity]
}

// Oldest returns the oldest value, ok=false when empty.
func (w *Window[T]) Oldest() (T, bool) {
	if w.len == 0 {
		var empty T
		return empty, false
	}
	return w.At(0), true
}

// Newest returns the newest value, ok=false when empty.
func (w *Window[T]) Newest() (T, bool) {
	if w.len == 0 {
		var empty T
		return empty, false
	}
	return w.At(w.len - 1), true
}

// Each calls fn for every value, oldest first.
func (w *Window[T]) Each(fn func(T)) {
	for i := 0; i < w.len; i++ {
		fn(w.elements[(w.first+i)%w.capacity])
	}
}

// Last copies up to n of the newest values, oldest first.
func (w *Window[T]) Last(n int) []T {
	if n > w.len {
		n = w.len
	}
	if n <= 0 {
		return nil
	}
	out := make([]T, 0, n)
	for i := w.len - n; i < w.len; i++ {
		out = append(out, w.elements[(w.first+i)%w.capacity])
	}
	return out
}

// Values copies the whole window, oldest first.
func (w *Window[T]) Values() []T {
	return w.Last(w.len)
}
