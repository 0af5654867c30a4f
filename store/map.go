package store

// IMPORTANT:
// mapStore is intentionally NOT thread-safe. It belongs to a single memo
// driven from a single goroutine.
type mapStore[K comparable, V any] struct {
	m      map[K]V
	closed bool
}

// NewMap returns an unbounded store over a plain Go map.
func NewMap[K comparable, V any]() Store[K, V] {
	return &mapStore[K, V]{m: make(map[K]V)}
}

func (s *mapStore[K, V]) Load(key K) (V, bool, error) {
	if s.closed {
		return *new(V), false, ErrClosed
	}
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *mapStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if _, ok := s.m[key]; ok {
		return false, nil
	}
	s.m[key] = value
	return true, nil
}

func (s *mapStore[K, V]) Len() int { return len(s.m) }

func (s *mapStore[K, V]) Clear() error {
	if s.closed {
		return ErrClosed
	}
	clear(s.m)
	return nil
}

func (s *mapStore[K, V]) Close() error {
	s.closed = true
	s.m = nil
	return nil
}
