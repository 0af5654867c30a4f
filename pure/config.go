package pure

import "go.uber.org/zap"

// Sharing decides how long memoized results live inside a memo.
type Sharing int

const (
	// ShareAcrossCalls keeps results for the lifetime of the memo's session.
	ShareAcrossCalls Sharing = iota
	// SharePerCall empties the cache at the start of every top-level call.
	SharePerCall
)

func (s Sharing) String() string {
	switch s {
	case ShareAcrossCalls:
		return "across_calls"
	case SharePerCall:
		return "per_call"
	default:
		return "unknown"
	}
}

// Config tunes a memo. Every field is optional.
type Config struct {
	// Name labels the memo in logs and cycle errors. Default "memo".
	Name string
	// Session owns the memo's cache. When nil the memo opens a private
	// session that is closed by the memo's Close.
	Session *Session
	// Logger is used for a private session. Ignored when Session is set.
	// Default: no-op.
	Logger *zap.Logger
	// Sharing is the cache lifetime policy. Default ShareAcrossCalls.
	Sharing Sharing
	// DisableCycleDetection skips tracking the active call path.
	DisableCycleDetection bool
}

// normalizeConfig flattens the optional trailing config into a single value.
//
// Accepts either 0 or 1 configs. Panics if more than one is passed.
func normalizeConfig(cfg []Config) Config {
	var c Config
	switch len(cfg) {
	case 0:
	case 1:
		c = cfg[0]
	default:
		panic("normalizeConfig: only one or zero configs allowed")
	}
	c.Name = coalesce(c.Name, "memo")
	return c
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
