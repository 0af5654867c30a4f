package store

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type lruStore[K comparable, V any] struct {
	lru    *lru.Cache[K, V]
	closed atomic.Bool
}

// NewLRU returns a store holding at most size entries, evicting the least
// recently used one. onEvict may be nil.
func NewLRU[K comparable, V any](size int, onEvict func(K, V)) (Store[K, V], error) {
	var (
		l   *lru.Cache[K, V]
		err error
	)
	if onEvict != nil {
		l, err = lru.NewWithEvict[K, V](size, onEvict)
	} else {
		l, err = lru.New[K, V](size)
	}
	if err != nil {
		return nil, err
	}
	return &lruStore[K, V]{lru: l}, nil
}

func (s *lruStore[K, V]) Load(key K) (V, bool, error) {
	if s.closed.Load() {
		return *new(V), false, ErrClosed
	}
	v, ok := s.lru.Get(key)
	return v, ok, nil
}

func (s *lruStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	present, _ := s.lru.ContainsOrAdd(key, value)
	return !present, nil
}

func (s *lruStore[K, V]) Len() int { return s.lru.Len() }

func (s *lruStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.lru.Purge()
	return nil
}

func (s *lruStore[K, V]) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.lru.Purge()
	}
	return nil
}
