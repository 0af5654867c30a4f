package store

import (
	"sync/atomic"

	ristretto "github.com/dgraph-io/ristretto/v2"
)

// RistrettoKey is the set of key types ristretto can hash that are also
// usable as memo keys.
type RistrettoKey interface {
	ristretto.Key
	comparable
}

// RistrettoConfig sizes a ristretto-backed store. Zero fields take defaults.
type RistrettoConfig[V any] struct {
	MaxCost     int64         // default: 1 << 20 (cost units, 1 per entry unless Cost is set)
	NumCounters int64         // default: 10 * MaxCost
	BufferItems int64         // default: 64
	Cost        func(V) int64 // default: every entry costs 1
}

type ristrettoStore[K RistrettoKey, V any] struct {
	cache  *ristretto.Cache[K, V]
	cost   func(V) int64
	closed atomic.Bool
}

// NewRistretto returns a cost-bounded store backed by ristretto. Writes are
// flushed before InsertIfAbsent returns, so an accepted result is visible to
// the very next Load.
func NewRistretto[K RistrettoKey, V any](cfg RistrettoConfig[V]) (Store[K, V], error) {
	if cfg.MaxCost <= 0 {
		cfg.MaxCost = 1 << 20
	}
	if cfg.NumCounters <= 0 {
		cfg.NumCounters = 10 * cfg.MaxCost
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	if cfg.Cost == nil {
		cfg.Cost = func(V) int64 { return 1 }
	}
	cache, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		Metrics:            true,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &ristrettoStore[K, V]{cache: cache, cost: cfg.Cost}, nil
}

func (s *ristrettoStore[K, V]) Load(key K) (V, bool, error) {
	if s.closed.Load() {
		return *new(V), false, ErrClosed
	}
	v, ok := s.cache.Get(key)
	return v, ok, nil
}

func (s *ristrettoStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	if _, ok := s.cache.Get(key); ok {
		return false, nil
	}
	if !s.cache.Set(key, value, s.cost(value)) {
		return false, nil
	}
	// the admission policy may still reject the write once the buffers drain
	s.cache.Wait()
	_, present := s.cache.Get(key)
	return present, nil
}

func (s *ristrettoStore[K, V]) Len() int {
	m := s.cache.Metrics
	return int(m.KeysAdded() - m.KeysEvicted())
}

func (s *ristrettoStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	s.cache.Clear()
	return nil
}

func (s *ristrettoStore[K, V]) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.cache.Close()
	}
	return nil
}
