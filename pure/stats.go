package pure

import "sync/atomic"

// Stats counts what a memo did with its cache.
type Stats struct {
	Hits        uint64 // results served from the cache
	Misses      uint64 // step evaluations
	Seeds       uint64 // entries inserted by Seed
	Collapsed   uint64 // callers that waited on another goroutine's evaluation
	StoreErrors uint64 // failed loads or inserts, treated as misses
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Hits:        s.Hits + o.Hits,
		Misses:      s.Misses + o.Misses,
		Seeds:       s.Seeds + o.Seeds,
		Collapsed:   s.Collapsed + o.Collapsed,
		StoreErrors: s.StoreErrors + o.StoreErrors,
	}
}

type counters struct {
	hits        atomic.Uint64
	misses      atomic.Uint64
	seeds       atomic.Uint64
	collapsed   atomic.Uint64
	storeErrors atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Seeds:       c.seeds.Load(),
		Collapsed:   c.collapsed.Load(),
		StoreErrors: c.storeErrors.Load(),
	}
}
