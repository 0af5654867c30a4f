// Package store provides the caches a memo writes its results into.
//
// Every store honours the same contract: a key is inserted at most once and
// its value never changes while it is resident. Bounded stores may evict a
// key, after which the memo is free to compute and insert it again.
package store

import (
	"errors"
)

// ErrClosed is returned by every operation on a closed store.
var ErrClosed = errors.New("store is closed")

// Store is the cache behind a memo.
//
// Load returns (value, true, nil) on hit and (zero, false, nil) on miss.
// InsertIfAbsent never overwrites: it reports false when the key is already
// present.
type Store[K comparable, V any] interface {
	Load(key K) (value V, ok bool, err error)
	InsertIfAbsent(key K, value V) (inserted bool, err error)
	Len() int
	Clear() error
	Close() error
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
