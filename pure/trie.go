package pure

import (
	"sync"
	"sync/atomic"

	"github.com/on-the-ground/memo_ive_go/shared/helper"
)

// Trie is a two-generation table keyed by argument paths.
//
// Writes go to the head generation. Once the head holds maxSize entries it
// becomes the old generation and the previous old generation is dropped, so
// at most 2*maxSize entries are resident. Reads try the head first.
type Trie[O any] struct {
	memos    [2]atomic.Pointer[sync.Map]
	headIdx  atomic.Uint32
	size     atomic.Uint32
	maxSize  uint32
	rotateMu sync.Mutex
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	return t
}

func (t *Trie[O]) Load(keys []ComparableOrString) (O, bool) {
	checkKeys(keys)
	headIdx := t.headIdx.Load()
	for _, idx := range [2]uint32{headIdx, 1 - headIdx} {
		gen := t.memos[idx].Load()
		if v, ok := helper.GetTypedValueOf2[O](func() (any, bool) {
			return lookup(gen, keys)
		}); ok {
			return v, true
		}
	}
	var zero O
	return zero, false
}

// Store writes value at keys in the head generation, replacing any previous value there.
func (t *Trie[O]) Store(keys []ComparableOrString, value O) {
	checkKeys(keys)
	m, k := traverse(t.head(), keys)
	if _, loaded := m.Swap(k, value); !loaded {
		t.size.Add(1)
	}
}

// LoadOrStore returns the value at keys if present in either generation.
// Otherwise it stores value in the head generation.
func (t *Trie[O]) LoadOrStore(keys []ComparableOrString, value O) (actual O, loaded bool) {
	if v, ok := t.Load(keys); ok {
		return v, true
	}
	m, k := traverse(t.head(), keys)
	v, loaded := m.LoadOrStore(k, value)
	if !loaded {
		t.size.Add(1)
	}
	actual, _ = v.(O)
	return actual, loaded
}

// Len is the number of entries in the head generation.
func (t *Trie[O]) Len() int { return int(t.size.Load()) }

// Clear drops both generations.
func (t *Trie[O]) Clear() {
	t.rotateMu.Lock()
	defer t.rotateMu.Unlock()
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	t.size.Store(0)
}

// head returns the generation to write into, rotating when it is full.
func (t *Trie[O]) head() *sync.Map {
	if t.size.Load() >= t.maxSize {
		t.rotateMu.Lock()
		if t.size.Load() >= t.maxSize {
			next := 1 - t.headIdx.Load()
			t.memos[next].Store(&sync.Map{})
			t.headIdx.Store(next)
			t.size.Store(0)
		}
		t.rotateMu.Unlock()
	}
	return t.memos[t.headIdx.Load()].Load()
}

func checkKeys(keys []ComparableOrString) {
	if len(keys) == 0 {
		panic("trie: empty keys")
	}
}

func lookup(m *sync.Map, keys []ComparableOrString) (any, bool) {
	last := len(keys) - 1
	for _, k := range keys[:last] {
		v, ok := m.Load(k)
		if !ok {
			return nil, false
		}
		m = v.(*sync.Map)
	}
	return m.Load(keys[last])
}

func traverse(m *sync.Map, keys []ComparableOrString) (*sync.Map, ComparableOrString) {
	last := len(keys) - 1
	for _, k := range keys[:last] {
		v, _ := m.LoadOrStore(k, &sync.Map{})
		m = v.(*sync.Map)
	}
	return m, keys[last]
}
