package pure

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/on-the-ground/memo_ive_go/shared/logger"
)

// attachment is a cache owner living inside a session.
type attachment interface {
	Stats() Stats
	release() error
}

// Session owns the caches of the memos attached to it.
//
// Closing a session purges every attached cache. Memos attached to a closed
// session keep answering, but evaluate without caching.
type Session struct {
	id      string
	logger  *zap.Logger
	started time.Time
	ended   atomic.Pointer[time.Time]
	closed  atomic.Bool

	mu       sync.Mutex
	attached []attachment
	released Stats // totals of memos released by Close
}

// NewSession opens a session. A nil logger is replaced by a no-op logger.
func NewSession(l *zap.Logger) *Session {
	id := uuid.New().String()
	s := &Session{
		id:      id,
		logger:  logger.OrNop(l).With(zap.String("session_id", id)),
		started: time.Now(),
	}
	s.logger.Debug("session opened")
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Logger() *zap.Logger { return s.logger }

func (s *Session) Closed() bool { return s.closed.Load() }

// Span is the time the session has been open. For an open session it ends now.
func (s *Session) Span() timespan.TimeSpan {
	end := time.Now()
	if e := s.ended.Load(); e != nil {
		end = *e
	}
	return timespan.BetweenTimes(s.started, end)
}

// Stats sums the stats of every memo attached to the session. After Close it
// reports the totals at the time of closing.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := s.released
	for _, a := range s.attached {
		total = total.add(a.Stats())
	}
	return total
}

func (s *Session) attach(a attachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return ErrSessionClosed
	}
	s.attached = append(s.attached, a)
	return nil
}

// Close releases every attached cache. Closing twice is a no-op.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	now := time.Now()
	s.ended.Store(&now)

	s.mu.Lock()
	attached := s.attached
	s.attached = nil
	var total Stats
	for _, a := range attached {
		total = total.add(a.Stats())
	}
	s.released = s.released.add(total)
	s.mu.Unlock()

	var err error
	for _, a := range attached {
		err = multierr.Append(err, a.release())
	}
	s.logger.Debug("session closed",
		zap.Duration("duration", s.Span().Duration()),
		zap.Uint64("hits", total.Hits),
		zap.Uint64("misses", total.Misses),
		zap.Int("memos", len(attached)),
		zap.Error(err),
	)
	return err
}
