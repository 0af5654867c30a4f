package pure_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/shared/logger"
)

func TestSession_Lifecycle(t *testing.T) {
	s := pure.NewSession(logger.NewTest())
	_, err := uuid.Parse(s.ID())
	require.NoError(t, err)
	assert.False(t, s.Closed())

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())

	span := s.Span()
	assert.GreaterOrEqual(t, span.Duration(), 2*time.Millisecond)
	assert.Equal(t, span.Duration(), s.Span().Duration())
}

func TestSession_OwnsAttachedMemos(t *testing.T) {
	s := pure.NewSession(nil)
	cfg := pure.Config{Session: s}

	double := pure.Fix(func(_ func(int) int, n int) int { return n * 2 }, cfg)
	square := pure.FixShared(func(_ func(int) int, n int) int { return n * n }, cfg)
	neg := pure.TableizeI1O1(func(n int) int { return -n }, 8, cfg)

	double.Call(3)
	double.Call(3)
	square.Call(4)
	neg(5)
	neg(5)

	stats := s.Stats()
	assert.EqualValues(t, 3, stats.Misses)
	assert.EqualValues(t, 2, stats.Hits)

	// closing a memo that does not own the session keeps the others alive
	require.NoError(t, double.Close())
	assert.Equal(t, 0, double.Len())
	assert.Equal(t, 1, square.Len())

	require.NoError(t, s.Close())
	assert.Equal(t, stats, s.Stats(), "totals survive Close")
	assert.Equal(t, 0, square.Len())
	assert.Equal(t, 16, square.Call(4))
	assert.Equal(t, -5, neg(5))
}

func TestSession_MemoOnClosedSessionPassesThrough(t *testing.T) {
	s := pure.NewSession(nil)
	require.NoError(t, s.Close())

	count := 0
	m := pure.Fix(func(_ func(int) int, n int) int {
		count++
		return n
	}, pure.Config{Session: s})

	m.Call(1)
	m.Call(1)
	assert.Equal(t, 2, count)
}
