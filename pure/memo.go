package pure

import (
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/memo_ive_go/store"
)

// Step is one unfolding of a recursive function. It recurses through self,
// which answers from the cache when it can.
type Step[K comparable, V any] func(self func(K) V, k K) V

// Memo memoizes a Step on a single goroutine.
//
// A Memo is not safe for concurrent use. Give each goroutine its own Memo,
// or use SharedMemo.
type Memo[K comparable, V any] struct {
	name        string
	step        Step[K, V]
	self        func(K) V
	store       store.Store[K, V]
	session     *Session
	ownsSession bool
	logger      *zap.Logger
	sharing     Sharing
	detect      bool

	// base cases re-inserted after every purge
	seeds map[K]V

	// active call path, oldest first
	path    []K
	pending map[K]struct{}
	depth   int

	closed   atomic.Bool
	warnOnce sync.Once
	counters counters
}

// Fix memoizes step over an unbounded map store.
func Fix[K comparable, V any](step Step[K, V], cfg ...Config) *Memo[K, V] {
	return FixWith(store.NewMap[K, V](), step, cfg...)
}

// FixWith memoizes step over st. The memo takes ownership of st and closes
// it with its session.
func FixWith[K comparable, V any](st store.Store[K, V], step Step[K, V], cfg ...Config) *Memo[K, V] {
	c := normalizeConfig(cfg)
	session, owns := c.Session, false
	if session == nil {
		session, owns = NewSession(c.Logger), true
	}
	m := &Memo[K, V]{
		name:        c.Name,
		step:        step,
		store:       st,
		session:     session,
		ownsSession: owns,
		logger:      session.Logger().With(zap.String("memo", c.Name)),
		sharing:     c.Sharing,
		detect:      !c.DisableCycleDetection,
		seeds:       make(map[K]V),
		pending:     make(map[K]struct{}),
	}
	m.self = m.Call
	if err := session.attach(m); err != nil {
		m.logger.Warn("memo created on a closed session, caching disabled")
		m.closed.Store(true)
	}
	return m
}

// Memoize wraps a non-recursive f.
func Memoize[K comparable, V any](f func(K) V, cfg ...Config) func(K) V {
	return Fix(func(_ func(K) V, k K) V { return f(k) }, cfg...).Func()
}

// Call returns the memoized value for k, evaluating the step on a miss.
//
// Re-entering a key that is still being computed panics with *CycleError.
func (m *Memo[K, V]) Call(k K) V {
	if m.isClosed() {
		m.warnPassThrough()
		return m.step(m.self, k)
	}
	if m.depth == 0 && m.sharing == SharePerCall {
		m.purge()
	}
	if v, ok := m.load(k); ok {
		return v
	}
	if m.detect {
		if _, dup := m.pending[k]; dup {
			cerr := &CycleError{Memo: m.name, Path: cyclePath(m.path, k)}
			m.logger.Error("cycle detected", zap.Error(cerr))
			panic(cerr)
		}
		m.pending[k] = struct{}{}
		m.path = append(m.path, k)
	}
	m.depth++
	defer m.leave(k)

	m.counters.misses.Add(1)
	v := m.step(m.self, k)
	m.insert(k, v)
	return v
}

func (m *Memo[K, V]) leave(k K) {
	m.depth--
	if m.detect {
		delete(m.pending, k)
		m.path = m.path[:len(m.path)-1]
	}
}

// TryCall is Call that reports a cycle as an error instead of panicking.
func (m *Memo[K, V]) TryCall(k K) (v V, err error) {
	defer recoverCycle(&err)
	return m.Call(k), nil
}

// Seed inserts a base case. An existing entry is left untouched.
// Seeded entries survive Reset and the SharePerCall purge.
func (m *Memo[K, V]) Seed(k K, v V) error {
	if m.isClosed() {
		return ErrSessionClosed
	}
	inserted, err := m.store.InsertIfAbsent(k, v)
	if err != nil {
		return err
	}
	if inserted {
		m.seeds[k] = v
		m.counters.seeds.Add(1)
	}
	return nil
}

// Func returns the memoized function.
func (m *Memo[K, V]) Func() func(K) V { return m.self }

func (m *Memo[K, V]) Stats() Stats { return m.counters.snapshot() }

func (m *Memo[K, V]) Session() *Session { return m.session }

// Len is the number of cached entries.
func (m *Memo[K, V]) Len() int {
	if m.isClosed() {
		return 0
	}
	return m.store.Len()
}

// Reset drops every computed entry. Seeded base cases stay.
func (m *Memo[K, V]) Reset() error {
	if m.isClosed() {
		return ErrSessionClosed
	}
	if err := m.store.Clear(); err != nil {
		return err
	}
	return reseed(m.store, m.seeds)
}

// Close releases the cache, and the session too when the memo opened it.
func (m *Memo[K, V]) Close() error {
	if m.ownsSession {
		return m.session.Close()
	}
	return m.release()
}

func (m *Memo[K, V]) release() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	return m.store.Close()
}

func (m *Memo[K, V]) isClosed() bool {
	return m.closed.Load() || m.session.Closed()
}

func (m *Memo[K, V]) warnPassThrough() {
	m.warnOnce.Do(func() {
		m.logger.Warn("memo used after close, evaluating without cache")
	})
}

func (m *Memo[K, V]) purge() {
	if err := m.Reset(); err != nil {
		m.counters.storeErrors.Add(1)
		m.logger.Warn("failed to purge cache", zap.Error(err))
	}
}

func reseed[K comparable, V any](st store.Store[K, V], seeds map[K]V) error {
	var err error
	for k, v := range seeds {
		_, ierr := st.InsertIfAbsent(k, v)
		err = multierr.Append(err, ierr)
	}
	return err
}

func (m *Memo[K, V]) load(k K) (V, bool) {
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

func (m *Memo[K, V]) insert(k K, v V) {
	if _, err := m.store.InsertIfAbsent(k, v); err != nil {
		m.counters.storeErrors.Add(1)
		m.logger.Warn("cache insert failed", zap.Any("key", k), zap.Error(err))
	}
}
