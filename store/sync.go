package store

import (
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

type syncStore[K comparable, V any] struct {
	m      *sync.Map
	size   atomic.Int64
	closed atomic.Bool
}

// NewSync returns an unbounded store over sync.Map. Safe for concurrent use.
func NewSync[K comparable, V any]() Store[K, V] {
	return &syncStore[K, V]{m: &sync.Map{}}
}

func (s *syncStore[K, V]) Load(key K) (V, bool, error) {
	if s.closed.Load() {
		return *new(V), false, ErrClosed
	}
	v, ok := helper.GetTypedValueOf2[V](func() (any, bool) {
		return s.m.Load(key)
	})
	return v, ok, nil
}

func (s *syncStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	_, loaded := s.m.LoadOrStore(key, value)
	if !loaded {
		s.size.Add(1)
	}
	return !loaded, nil
}

func (s *syncStore[K, V]) Len() int { return int(s.size.Load()) }

func (s *syncStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.m.Range(func(k, _ any) bool {
		if _, deleted := s.m.LoadAndDelete(k); deleted {
			s.size.Add(-1)
		}
		return true
	})
	return nil
}

func (s *syncStore[K, V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.m.Clear()
	s.size.Store(0)
	return nil
}
