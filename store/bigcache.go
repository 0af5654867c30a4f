package store

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/allegro/bigcache/v3"
	"github.com/on-the-ground/memo_ive_go/codec"
)

// BigCacheConfig sizes a bigcache-backed store. Zero fields take defaults.
type BigCacheConfig struct {
	LifeWindow         time.Duration // default: 1h; entries older than this may be evicted
	Shards             int           // default: 16; must be a power of two
	MaxEntriesInWindow int           // default: 1024; sizes the initial allocation only
	MaxEntrySize       int           // default: 64 bytes; sizes the initial allocation only
	HardMaxCacheSizeMB int           // 0 = unlimited
}

type bigcacheStore[K comparable, V any] struct {
	c      *bigcache.BigCache
	keys   codec.Codec[K]
	values codec.Codec[V]
	closed atomic.Bool
}

// NewBigCache returns a byte-oriented store backed by bigcache. Keys are
// encoded with keys (nil selects codec.KeyCodec) and results with values
// (nil selects codec.Msgpack). Decode failures are reported as errors and
// never as hits.
func NewBigCache[K comparable, V any](
	ctx context.Context,
	cfg BigCacheConfig,
	keys codec.Codec[K],
	values codec.Codec[V],
) (Store[K, V], error) {
	if keys == nil {
		keys = codec.KeyCodec[K]()
	}
	if values == nil {
		values = codec.Msgpack[V]{}
	}
	if cfg.LifeWindow <= 0 {
		cfg.LifeWindow = time.Hour
	}
	conf := bigcache.DefaultConfig(cfg.LifeWindow)
	conf.Shards = coalesce(cfg.Shards, 16)
	conf.MaxEntriesInWindow = coalesce(cfg.MaxEntriesInWindow, 1024)
	conf.MaxEntrySize = coalesce(cfg.MaxEntrySize, 64)
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	conf.Verbose = false

	c, err := bigcache.New(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &bigcacheStore[K, V]{c: c, keys: keys, values: values}, nil
}

func (s *bigcacheStore[K, V]) Load(key K) (V, bool, error) {
	var zero V
	if s.closed.Load() {
		return zero, false, ErrClosed
	}
	k, err := codec.EncodeKey(s.keys, key)
	if err != nil {
		return zero, false, fmt.Errorf("failed to encode key %v: %w", key, err)
	}
	b, err := s.c.Get(k)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return zero, false, nil
	} else if err != nil {
		return zero, false, err
	}
	v, err := s.values.Decode(b)
	if err != nil {
		return zero, false, fmt.Errorf("failed to decode value of %v: %w", key, err)
	}
	return v, true, nil
}

func (s *bigcacheStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	k, err := codec.EncodeKey(s.keys, key)
	if err != nil {
		return false, fmt.Errorf("failed to encode key %v: %w", key, err)
	}
	if _, err := s.c.Get(k); err == nil {
		return false, nil
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		return false, err
	}
	b, err := s.values.Encode(value)
	if err != nil {
		return false, fmt.Errorf("failed to encode value of %v: %w", key, err)
	}
	if err := s.c.Set(k, b); err != nil {
		return false, err
	}
	return true, nil
}

func (s *bigcacheStore[K, V]) Len() int { return s.c.Len() }

func (s *bigcacheStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return s.c.Reset()
}

func (s *bigcacheStore[K, V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.c.Close()
}
