package batcher

// maxPrealloc bounds the up-front allocation of a stripe; larger batches grow by append.
const maxPrealloc = 1024

// stripe holds the pending items of the current batch.
// It is NOT thread-safe; the owning buffer guards it with its mutex.
type stripe[T any] struct {
	data []T
	cap  int
}

// newStripe creates a new stripe with the given capacity.
func newStripe[T any](capacity int) *stripe[T] {
	return &stripe[T]{
		data: make([]T, 0, min(capacity, maxPrealloc)),
		cap:  capacity,
	}
}

// push appends an item to the stripe.
// If the stripe becomes full, the full batch is returned and the stripe is reset.
func (s *stripe[T]) push(item T) []T {
	s.data = append(s.data, item)

	if len(s.data) < s.cap {
		return nil
	}

	// A new slice is allocated so the Consumer owns the returned batch.
	full := s.data
	s.data = make([]T, 0, min(s.cap, maxPrealloc))
	return full
}

// drain returns the pending items, or nil when there are none.
func (s *stripe[T]) drain() []T {
	if len(s.data) == 0 {
		return nil
	}
	rest := s.data
	s.data = nil
	return rest
}

// size returns the number of pending items.
func (s *stripe[T]) size() int {
	return len(s.data)
}
