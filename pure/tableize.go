package pure

import (
	"sync/atomic"

	"go.uber.org/zap"
)

func TableizeI1O1[I1 ComparableOrStringer, O1 any](
	pureFn func(I1) O1,
	maxTableSize uint32,
	cfg ...Config,
) func(I1) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(args[0].(I1))
		},
		maxTableSize,
		cfg,
	)
	return func(i1 I1) O1 {
		return tableized(i1)
	}
}

func TableizeI2O1[I1, I2 ComparableOrStringer, O1 any](
	pureFn func(I1, I2) O1,
	maxTableSize uint32,
	cfg ...Config,
) func(I1, I2) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(args[0].(I1), args[1].(I2))
		},
		maxTableSize,
		cfg,
	)
	return func(i1 I1, i2 I2) O1 {
		return tableized(i1, i2)
	}
}

func TableizeI3O1[I1, I2, I3 ComparableOrStringer, O1 any](
	pureFn func(I1, I2, I3) O1,
	maxTableSize uint32,
	cfg ...Config,
) func(I1, I2, I3) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(args[0].(I1), args[1].(I2), args[2].(I3))
		},
		maxTableSize,
		cfg,
	)
	return func(i1 I1, i2 I2, i3 I3) O1 {
		return tableized(i1, i2, i3)
	}
}

func TableizeI4O1[I1, I2, I3, I4 ComparableOrStringer, O1 any](
	pureFn func(I1, I2, I3, I4) O1,
	maxTableSize uint32,
	cfg ...Config,
) func(I1, I2, I3, I4) O1 {
	tableized := tableize(
		func(args ...ComparableOrStringer) O1 {
			return pureFn(args[0].(I1), args[1].(I2), args[2].(I3), args[3].(I4))
		},
		maxTableSize,
		cfg,
	)
	return func(i1 I1, i2 I2, i3 I3, i4 I4) O1 {
		return tableized(i1, i2, i3, i4)
	}
}

// table is a Trie attached to a session.
type table[O any] struct {
	trie     *Trie[O]
	session  *Session
	logger   *zap.Logger
	closed   atomic.Bool
	counters counters
}

func newTable[O any](maxTableSize uint32, cfg []Config) *table[O] {
	c := normalizeConfig(cfg)
	if c.Session == nil {
		// a Tableize wrapper has no Close, so its private session lives as long as the function
		c.Session = NewSession(c.Logger)
	}
	t := &table[O]{
		trie:    NewTrie[O](maxTableSize),
		session: c.Session,
		logger:  c.Session.Logger().With(zap.String("memo", c.Name)),
	}
	if err := c.Session.attach(t); err != nil {
		t.closed.Store(true)
	}
	return t
}

func (t *table[O]) Stats() Stats { return t.counters.snapshot() }

func (t *table[O]) release() error {
	if t.closed.CompareAndSwap(false, true) {
		t.trie.Clear()
	}
	return nil
}

func (t *table[O]) usable() bool {
	return !t.closed.Load() && !t.session.Closed()
}

func (t *table[O]) get(keys []ComparableOrString, compute func() O) O {
	if !t.usable() {
		return compute()
	}
	if v, ok := t.trie.Load(keys); ok {
		t.counters.hits.Add(1)
		return v
	}
	t.counters.misses.Add(1)
	v, _ := t.trie.LoadOrStore(keys, compute())
	return v
}

func tableKeys(args []ComparableOrStringer) []ComparableOrString {
	keys := make([]ComparableOrString, len(args))
	for i, arg := range args {
		keys[i] = tableKey(arg)
	}
	return keys
}

func tableize[O any](
	pureFn func(...ComparableOrStringer) O,
	maxTableSize uint32,
	cfg []Config,
) func(...ComparableOrStringer) O {
	memo := newTable[O](maxTableSize, cfg)
	return func(args ...ComparableOrStringer) O {
		return memo.get(tableKeys(args), func() O {
			return pureFn(args...)
		})
	}
}
