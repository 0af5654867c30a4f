package store

import (
	"fmt"
	"sync/atomic"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/on-the-ground/memo_ive_go/codec"
	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

const (
	memoTable = "memo"
	memoIndex = "id"
)

type memdbEntry[V any] struct {
	Key   string
	Value V
}

func memoSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			memoTable: {
				Name: memoTable,
				Indexes: map[string]*memdb.IndexSchema{
					memoIndex: {
						Name:    memoIndex,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Key"},
					},
				},
			},
		},
	}
}

type memdbStore[K comparable, V any] struct {
	db     *memdb.MemDB
	keys   codec.Codec[K]
	closed atomic.Bool
}

// NewMemDB returns a transactional in-memory store backed by go-memdb.
// Keys are indexed by their encoding under keys, which must be
// deterministic; nil selects codec.KeyCodec.
func NewMemDB[K comparable, V any](keys codec.Codec[K]) (Store[K, V], error) {
	if keys == nil {
		keys = codec.KeyCodec[K]()
	}
	db, err := memdb.NewMemDB(memoSchema())
	if err != nil {
		return nil, err
	}
	return &memdbStore[K, V]{db: db, keys: keys}, nil
}

func (s *memdbStore[K, V]) indexKey(key K) (string, error) {
	k, err := codec.EncodeKey(s.keys, key)
	if err != nil {
		return "", fmt.Errorf("failed to encode key %v: %w", key, err)
	}
	return k, nil
}

func (s *memdbStore[K, V]) Load(key K) (V, bool, error) {
	var zero V
	if s.closed.Load() {
		return zero, false, ErrClosed
	}
	k, err := s.indexKey(key)
	if err != nil {
		return zero, false, err
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	entry, ok, err := helper.LookupTyped[*memdbEntry[V]](func() (any, error) {
		return txn.First(memoTable, memoIndex, k)
	})
	if !ok {
		return zero, false, err
	}
	return entry.Value, true, nil
}

func (s *memdbStore[K, V]) InsertIfAbsent(key K, value V) (bool, error) {
	if s.closed.Load() {
		return false, ErrClosed
	}
	k, err := s.indexKey(key)
	if err != nil {
		return false, err
	}

	txn := s.db.Txn(true)
	defer txn.Abort()

	old, err := txn.First(memoTable, memoIndex, k)
	if err != nil {
		return false, err
	} else if old != nil {
		return false, nil
	}

	if err := txn.Insert(memoTable, &memdbEntry[V]{Key: k, Value: value}); err != nil {
		return false, err
	}
	txn.Commit()
	return true, nil
}

func (s *memdbStore[K, V]) Len() int {
	txn := s.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(memoTable, memoIndex)
	if err != nil {
		return 0
	}
	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n
}

func (s *memdbStore[K, V]) Clear() error {
	if s.closed.Load() {
		return ErrClosed
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if _, err := txn.DeleteAll(memoTable, memoIndex); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (s *memdbStore[K, V]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	txn := s.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll(memoTable, memoIndex); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
