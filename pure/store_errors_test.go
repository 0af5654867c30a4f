package pure_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/recur"
)

var errUnavailable = errors.New("backend unavailable")

// brokenStore fails every load and insert.
type brokenStore struct{}

func (brokenStore) Load(int) (int, bool, error) { return 0, false, errUnavailable }

func (brokenStore) InsertIfAbsent(int, int) (bool, error) { return false, errUnavailable }

func (brokenStore) Len() int { return 0 }

func (brokenStore) Clear() error { return nil }

func (brokenStore) Close() error { return nil }

func TestFixWith_StoreErrorsDegradeToMisses(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fib := pure.FixWith[int, int](brokenStore{}, recur.FibStep, pure.Config{Logger: zap.New(core)})
	defer fib.Close()

	assert.Equal(t, recur.FibNaive(12), fib.Call(12))

	stats := fib.Stats()
	assert.Positive(t, stats.StoreErrors)
	assert.Zero(t, stats.Hits)
	assert.Positive(t, logs.FilterMessage("cache load failed").Len())
	assert.Positive(t, logs.FilterMessage("cache insert failed").Len())
}

func TestFixSharedWith_StoreErrorsDegradeToMisses(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	fib := pure.FixSharedWith[int, int](brokenStore{}, recur.FibStep, pure.Config{Logger: zap.New(core)})
	defer fib.Close()

	assert.Equal(t, recur.FibNaive(12), fib.Call(12))

	stats := fib.Stats()
	assert.Positive(t, stats.StoreErrors)
	assert.Zero(t, stats.Hits)
	for _, entry := range logs.FilterMessage("cache load failed").All() {
		assert.Equal(t, errUnavailable.Error(), entry.ContextMap()["error"])
	}
	assert.Positive(t, logs.FilterMessage("cache insert failed").Len())
}
