package pure_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/store"
)

func TestSharedMemo_ConcurrentCallersShareOneEvaluation(t *testing.T) {
	var evals atomic.Int32
	release := make(chan struct{})
	slow := pure.FixShared(func(self func(int) int, n int) int {
		evals.Add(1)
		<-release
		return n * 3
	})
	defer slow.Close()

	const callers = 16
	results := make([]int, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = slow.Call(7)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, evals.Load())
	for _, r := range results {
		assert.Equal(t, 21, r)
	}
	stats := slow.Stats()
	assert.EqualValues(t, 1, stats.Misses)
	assert.EqualValues(t, callers-1, stats.Hits+stats.Collapsed)
}

func TestSharedMemo_ConcurrentFib(t *testing.T) {
	var evals sync.Map
	fib := pure.FixShared(func(self func(int) int, n int) int {
		c, _ := evals.LoadOrStore(n, new(atomic.Int32))
		c.(*atomic.Int32).Add(1)
		if n <= 2 {
			return n - 1
		}
		return self(n-1) + self(n-2)
	})
	defer fib.Close()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, 12586269025, fib.Call(51))
		}()
	}
	wg.Wait()

	evals.Range(func(k, v any) bool {
		assert.EqualValues(t, 1, v.(*atomic.Int32).Load(), "key %v", k)
		return true
	})
	assert.EqualValues(t, 51, fib.Stats().Misses)
}

func TestSharedMemo_LeaderPanicReachesWaiters(t *testing.T) {
	release := make(chan struct{})
	bad := pure.FixShared(func(self func(int) int, n int) int {
		<-release
		panic("boom")
	})

	const callers = 4
	recovered := make(chan any, callers)
	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { recovered <- recover() }()
			bad.Call(1)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(recovered)

	for r := range recovered {
		assert.Equal(t, "boom", r)
	}
}

func TestSharedMemo_Cycle(t *testing.T) {
	loop := pure.FixShared(func(self func(string) int, s string) int {
		if s == "a" {
			return self("b")
		}
		return self("a")
	})
	defer loop.Close()

	_, err := loop.TryCall("a")
	require.ErrorIs(t, err, pure.ErrCycle)
	var cerr *pure.CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []any{"a", "b", "a"}, cerr.Path)
}

func TestSharedMemo_SeedAndStores(t *testing.T) {
	lru, err := store.NewLRU[int, int](64, nil)
	require.NoError(t, err)

	for name, st := range map[string]store.Store[int, int]{
		"sync":    store.NewSync[int, int](),
		"sharded": store.NewSharded[int, int](4),
		"lru":     lru,
	} {
		t.Run(name, func(t *testing.T) {
			fact := pure.FixSharedWith(st, func(self func(int) int, n int) int {
				return n * self(n-1)
			})
			defer fact.Close()

			require.NoError(t, fact.Seed(0, 1))
			assert.Equal(t, 3628800, fact.Call(10))
			assert.Equal(t, 6, fact.Func()(3))
			assert.EqualValues(t, 1, fact.Stats().Seeds)

			require.NoError(t, fact.Reset())
			assert.Equal(t, 1, fact.Len())
			assert.Equal(t, 24, fact.Call(4))
		})
	}
}

func TestSharedMemo_PerCallSharingPanics(t *testing.T) {
	assert.Panics(t, func() {
		pure.FixShared(func(self func(int) int, n int) int { return n },
			pure.Config{Sharing: pure.SharePerCall})
	})
}

func TestSharedMemo_PassThroughAfterClose(t *testing.T) {
	var evals atomic.Int32
	double := pure.FixShared(func(self func(int) int, n int) int {
		evals.Add(1)
		return n * 2
	})
	assert.Equal(t, 4, double.Call(2))
	require.NoError(t, double.Close())

	assert.Equal(t, 4, double.Call(2))
	assert.EqualValues(t, 2, evals.Load())
	assert.Equal(t, 0, double.Len())
	assert.ErrorIs(t, double.Reset(), pure.ErrSessionClosed)
}

// opaque has no exported fields, so every value shares one key encoding.
type opaque struct{ id int }

func TestSharedMemo_KeysWithEqualEncodingStayApart(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	ids := pure.FixShared(func(self func(opaque) int, k opaque) int {
		if k.id == 1 {
			close(started)
			<-release
		}
		return k.id * 10
	})
	defer ids.Close()

	var wg sync.WaitGroup
	var first, second int
	wg.Add(2)
	go func() {
		defer wg.Done()
		first = ids.Call(opaque{id: 1})
	}()
	<-started
	go func() {
		defer wg.Done()
		second = ids.Call(opaque{id: 2})
	}()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 10, first)
	assert.Equal(t, 20, second)
	assert.EqualValues(t, 2, ids.Stats().Misses)
}
