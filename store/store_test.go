package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/on-the-ground/memo_ive_go/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type factory struct {
	name       string
	new        func(t *testing.T) store.Store[int, string]
	concurrent bool
}

func factories() []factory {
	return []factory{
		{
			name: "map",
			new:  func(*testing.T) store.Store[int, string] { return store.NewMap[int, string]() },
		},
		{
			name:       "sync",
			new:        func(*testing.T) store.Store[int, string] { return store.NewSync[int, string]() },
			concurrent: true,
		},
		{
			name:       "sharded",
			new:        func(*testing.T) store.Store[int, string] { return store.NewSharded[int, string](4) },
			concurrent: true,
		},
		{
			name: "lru",
			new: func(t *testing.T) store.Store[int, string] {
				s, err := store.NewLRU[int, string](128, nil)
				require.NoError(t, err)
				return s
			},
			concurrent: true,
		},
		{
			name: "ristretto",
			new: func(t *testing.T) store.Store[int, string] {
				s, err := store.NewRistretto[int](store.RistrettoConfig[string]{MaxCost: 1024})
				require.NoError(t, err)
				return s
			},
			concurrent: true,
		},
		{
			name: "memdb",
			new: func(t *testing.T) store.Store[int, string] {
				s, err := store.NewMemDB[int, string](nil)
				require.NoError(t, err)
				return s
			},
			concurrent: true,
		},
		{
			name: "bigcache",
			new: func(t *testing.T) store.Store[int, string] {
				s, err := store.NewBigCache[int, string](context.Background(), store.BigCacheConfig{}, nil, nil)
				require.NoError(t, err)
				return s
			},
			concurrent: true,
		},
	}
}

func TestStore_InsertAtMostOnce(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.new(t)
			defer s.Close()

			_, ok, err := s.Load(1)
			require.NoError(t, err)
			assert.False(t, ok)

			inserted, err := s.InsertIfAbsent(1, "one")
			require.NoError(t, err)
			assert.True(t, inserted)

			// a second insert never overwrites
			inserted, err = s.InsertIfAbsent(1, "uno")
			require.NoError(t, err)
			assert.False(t, inserted)

			v, ok, err := s.Load(1)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "one", v)
			assert.Equal(t, 1, s.Len())
		})
	}
}

func TestStore_Clear(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.new(t)
			defer s.Close()

			for i := range 5 {
				_, err := s.InsertIfAbsent(i, "v")
				require.NoError(t, err)
			}
			require.NoError(t, s.Clear())

			for i := range 5 {
				_, ok, err := s.Load(i)
				require.NoError(t, err)
				assert.False(t, ok, "key %d survived Clear", i)
			}
			assert.Equal(t, 0, s.Len())

			inserted, err := s.InsertIfAbsent(3, "again")
			require.NoError(t, err)
			assert.True(t, inserted)
		})
	}
}

func TestStore_ClosedStoreRejectsOperations(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.new(t)
			require.NoError(t, s.Close())
			require.NoError(t, s.Close(), "close is idempotent")

			_, _, err := s.Load(1)
			assert.ErrorIs(t, err, store.ErrClosed)
			_, err = s.InsertIfAbsent(1, "one")
			assert.ErrorIs(t, err, store.ErrClosed)
			assert.ErrorIs(t, s.Clear(), store.ErrClosed)
		})
	}
}

func TestStore_ConcurrentInsertsHaveOneWinner(t *testing.T) {
	for _, f := range factories() {
		if !f.concurrent {
			continue
		}
		t.Run(f.name, func(t *testing.T) {
			s := f.new(t)
			defer s.Close()

			const numGoroutines = 16
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				winners int
			)
			for range numGoroutines {
				wg.Add(1)
				go func() {
					defer wg.Done()
					inserted, err := s.InsertIfAbsent(7, "seven")
					assert.NoError(t, err)
					if inserted {
						mu.Lock()
						winners++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			v, ok, err := s.Load(7)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "seven", v)
			if f.name != "ristretto" && f.name != "bigcache" {
				// lock-free check-then-set backends may let more than one
				// writer through; the stored value is still the same.
				assert.Equal(t, 1, winners)
			}
		})
	}
}

func TestRistretto_RejectedWriteIsNotInserted(t *testing.T) {
	s, err := store.NewRistretto[int](store.RistrettoConfig[string]{
		MaxCost: 4,
		Cost:    func(v string) int64 { return int64(len(v)) },
	})
	require.NoError(t, err)
	defer s.Close()

	inserted, err := s.InsertIfAbsent(1, "much too large")
	require.NoError(t, err)
	assert.False(t, inserted)

	_, ok, err := s.Load(1)
	require.NoError(t, err)
	assert.False(t, ok)

	inserted, err = s.InsertIfAbsent(2, "ok")
	require.NoError(t, err)
	assert.True(t, inserted)
}

var errUndecodable = errors.New("undecodable")

// garbledCodec encodes anything and decodes nothing.
type garbledCodec struct{}

func (garbledCodec) Encode(string) ([]byte, error) { return []byte("garbled"), nil }

func (garbledCodec) Decode([]byte) (string, error) { return "", errUndecodable }

func TestBigCache_DecodeFailureIsNotAHit(t *testing.T) {
	s, err := store.NewBigCache[int, string](context.Background(), store.BigCacheConfig{}, nil, garbledCodec{})
	require.NoError(t, err)
	defer s.Close()

	inserted, err := s.InsertIfAbsent(1, "one")
	require.NoError(t, err)
	assert.True(t, inserted)

	v, ok, err := s.Load(1)
	assert.ErrorIs(t, err, errUndecodable)
	assert.False(t, ok)
	assert.Empty(t, v)
}
