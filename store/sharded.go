package store

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is used when NewSharded is given a non-positive shard count.
const DefaultShards = 16

type shard[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

type shardedStore[K comparable, V any] struct {
	shards []*shard[K, V]
	closed atomic.Bool
}

// NewSharded returns an unbounded store split into shards, each guarded by
// its own lock. Keys are routed by their xxhash digest; the digest only picks
// a shard, identity is still decided by key equality.
func NewSharded[K comparable, V any](numShards int) Store[K, V] {
	if numShards <= 0 {
		numShards = DefaultShards
	}
	shards := make([]*shard[K, V], numShards)
	for i := range shards {
		shards[i] = &shard[K, V]{m: make(map[K]V)}
	}
	return &shardedStore[K, V]{shards: shards}
}

func hashKey[K comparable](key K) uint64 {
	switch k := any(key).(type) {
	case string:
		return xxhash.Sum64String(k)
	case int:
		return xxhash.Sum64(strconv.AppendInt(nil, int64(k), 10))
	case int64:
		return xxhash.Sum64(strconv.AppendInt(nil, k, 10))
	case uint64:
		return xxhash.Sum64(strconv.AppendUint(nil, k, 10))
	case fmt.Stringer:
		return xxhash.Sum64String(k.String())
	default:
		d := xxhash.New()
		fmt.Fprintf(d, "%v", k)
		return d.Sum64()
	}
}

func (s *shardedStore[K, V]) shardOf(key K) *shard[K, V] {
	if len(s.shards) == 1 {
		return s.shards[0]
	}
	return s.shards[hashKey(key)%uint64(len(s.shards))]
}

func (s *shardedStore[K, V]) Load(key K) (V, bool, error) {
	if s.closed.Load() {
		return *new(V), false, ErrClosed
	}
	sh := s.shardOf(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.m[key]
	return v, ok, nil
}

func (s *shardedStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	sh := s.shardOf(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sh.m == nil {
		return false, ErrClosed
	}
	if _, ok := sh.m[key]; ok {
		return false, nil
	}
	sh.m[key] = value
	return true, nil
}

func (s *shardedStore[K, V]) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		n += len(sh.m)
		sh.mu.RUnlock()
	}
	return n
}

func (s *shardedStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	for _, sh := range s.shards {
		sh.mu.Lock()
		clear(sh.m)
		sh.mu.Unlock()
	}
	return nil
}

func (s *shardedStore[K, V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.m = nil
		sh.mu.Unlock()
	}
	return nil
}
