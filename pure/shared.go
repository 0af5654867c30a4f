package pure

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/on-the-ground/memo_ive_go/codec"
	"github.com/on-the-ground/memo_ive_go/store"
)

// frame is one key on the active call path of a goroutine.
type frame[K comparable] struct {
	key    K
	parent *frame[K]
}

func (f *frame[K]) contains(k K) bool {
	for ; f != nil; f = f.parent {
		if f.key == k {
			return true
		}
	}
	return false
}

// keys lists the path oldest first.
func (f *frame[K]) keys() []K {
	var out []K
	for ; f != nil; f = f.parent {
		out = append(out, f.key)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SharedMemo memoizes a Step for concurrent callers.
//
// Concurrent calls for the same uncomputed key run the step once; the other
// callers wait for that result. Cycle detection follows the call path of each
// goroutine, so two goroutines waiting on each other's keys deadlock instead
// of failing. That needs an ill-founded recursion to begin with.
type SharedMemo[K comparable, V any] struct {
	name        string
	step        Step[K, V]
	store       store.Store[K, V]
	session     *Session
	ownsSession bool
	logger      *zap.Logger
	detect      bool

	// flight collapses concurrent misses, keyed by the deterministic key encoding
	flight   singleflight.Group
	keys     codec.Codec[K]
	seedMu   sync.Mutex
	seeds    map[K]V
	closed   atomic.Bool
	warnOnce sync.Once
	counters counters
}

// FixShared memoizes step over a sharded store.
func FixShared[K comparable, V any](step Step[K, V], cfg ...Config) *SharedMemo[K, V] {
	return FixSharedWith(store.NewSharded[K, V](store.DefaultShards), step, cfg...)
}

// FixSharedWith memoizes step over st, which must be safe for concurrent use.
//
// SharePerCall has no meaning across concurrent callers and panics.
func FixSharedWith[K comparable, V any](st store.Store[K, V], step Step[K, V], cfg ...Config) *SharedMemo[K, V] {
	c := normalizeConfig(cfg)
	if c.Sharing == SharePerCall {
		panic("FixSharedWith: SharePerCall is not supported by SharedMemo")
	}
	session, owns := c.Session, false
	if session == nil {
		session, owns = NewSession(c.Logger), true
	}
	m := &SharedMemo[K, V]{
		name:        c.Name,
		step:        step,
		store:       st,
		session:     session,
		ownsSession: owns,
		logger:      session.Logger().With(zap.String("memo", c.Name)),
		detect:      !c.DisableCycleDetection,
		keys:        codec.KeyCodec[K](),
		seeds:       make(map[K]V),
	}
	if err := session.attach(m); err != nil {
		m.logger.Warn("memo created on a closed session, caching disabled")
		m.closed.Store(true)
	}
	return m
}

// Call returns the memoized value for k. Safe for concurrent use.
func (m *SharedMemo[K, V]) Call(k K) V {
	return m.call(k, nil)
}

// TryCall is Call that reports a cycle as an error instead of panicking.
func (m *SharedMemo[K, V]) TryCall(k K) (v V, err error) {
	defer recoverCycle(&err)
	return m.call(k, nil), nil
}

func (m *SharedMemo[K, V]) call(k K, parent *frame[K]) V {
	if m.isClosed() {
		m.warnOnce.Do(func() {
			m.logger.Warn("memo used after close, evaluating without cache")
		})
		return m.step(m.Call, k)
	}
	if v, ok := m.load(k); ok {
		return v
	}

	var fr *frame[K]
	if m.detect {
		if parent.contains(k) {
			cerr := &CycleError{Memo: m.name, Path: cyclePath(parent.keys(), k)}
			m.logger.Error("cycle detected", zap.Error(cerr))
			panic(cerr)
		}
		fr = &frame[K]{key: k, parent: parent}
	}
	self := func(sub K) V { return m.call(sub, fr) }

	v, collapsed := m.collapse(k, func() V {
		// another leader may have finished between the load and the flight
		if v, ok := m.load(k); ok {
			return v
		}
		m.counters.misses.Add(1)
		v := m.step(self, k)
		m.insert(k, v)
		return v
	})
	if collapsed {
		m.counters.collapsed.Add(1)
	}
	return v
}

// flightResult carries the key so that a waiter can tell an encoding
// collision from its own key.
type flightResult[K comparable, V any] struct {
	key K
	val V
}

// stepPanic carries a step panic through the flight so that every waiter
// re-raises the original value.
type stepPanic struct {
	value any
}

func (p *stepPanic) Error() string { return fmt.Sprintf("step panicked: %v", p.value) }

// collapse runs eval once for all concurrent callers of k. collapsed reports
// that this caller waited on another goroutine's evaluation.
func (m *SharedMemo[K, V]) collapse(k K, eval func() V) (v V, collapsed bool) {
	flightKey, err := codec.EncodeKey(m.keys, k)
	if err != nil {
		m.logger.Debug("key is not encodable, evaluating without collapse", zap.Any("key", k), zap.Error(err))
		return eval(), false
	}
	led := false
	res, err, _ := m.flight.Do(flightKey, func() (out any, ferr error) {
		led = true
		defer func() {
			if r := recover(); r != nil {
				ferr = &stepPanic{value: r}
			}
		}()
		return flightResult[K, V]{key: k, val: eval()}, nil
	})
	if p, ok := err.(*stepPanic); ok {
		panic(p.value)
	}
	r := res.(flightResult[K, V])
	if r.key != k {
		return eval(), false
	}
	return r.val, !led
}

// Seed inserts a base case. An existing entry is left untouched.
// Seeded entries survive Reset.
func (m *SharedMemo[K, V]) Seed(k K, v V) error {
	if m.isClosed() {
		return ErrSessionClosed
	}
	inserted, err := m.store.InsertIfAbsent(k, v)
	if err != nil {
		return err
	}
	if inserted {
		m.seedMu.Lock()
		m.seeds[k] = v
		m.seedMu.Unlock()
		m.counters.seeds.Add(1)
	}
	return nil
}

// Func returns the memoized function.
func (m *SharedMemo[K, V]) Func() func(K) V { return m.Call }

func (m *SharedMemo[K, V]) Stats() Stats { return m.counters.snapshot() }

func (m *SharedMemo[K, V]) Session() *Session { return m.session }

func (m *SharedMemo[K, V]) Len() int {
	if m.isClosed() {
		return 0
	}
	return m.store.Len()
}

// Reset drops every computed entry. Seeded base cases stay.
func (m *SharedMemo[K, V]) Reset() error {
	if m.isClosed() {
		return ErrSessionClosed
	}
	m.seedMu.Lock()
	defer m.seedMu.Unlock()
	if err := m.store.Clear(); err != nil {
		return err
	}
	return reseed(m.store, m.seeds)
}

// Close releases the cache, and the session too when the memo opened it.
func (m *SharedMemo[K, V]) Close() error {
	if m.ownsSession {
		return m.session.Close()
	}
	return m.release()
}

func (m *SharedMemo[K, V]) release() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return m.store.Close()
}

func (m *SharedMemo[K, V]) isClosed() bool {
	return m.closed.Load() || m.session.Closed()
}

func (m *SharedMemo[K, V]) load(k K) (V, bool) {
	v, ok, err := m.store.Load(k)
	if err != nil {
		m.counters.storeErrors.Add(1)
		m.logger.Warn("cache load failed", zap.Any("key", k), zap.Error(err))
		var zero V
		return zero, false
	}
	if ok {
		m.counters.hits.Add(1)
	}
	return v, ok
}

func (m *SharedMemo[K, V]) insert(k K, v V) {
	if _, err := m.store.InsertIfAbsent(k, v); err != nil {
		m.counters.storeErrors.Add(1)
		m.logger.Warn("cache insert failed", zap.Any("key", k), zap.Error(err))
	}
}
