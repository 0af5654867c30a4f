// Package codec turns memo keys and results into bytes for stores that only
// hold byte strings (go-memdb string indexes, bigcache).
//
// Key codecs must be deterministic: two equal keys must encode to the same
// bytes and two different keys must never do so. CBOR with core deterministic
// options satisfies both for the comparable Go types used as memo keys.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// EncodeKey encodes k with c and returns it as a string, the form expected by
// string-keyed backends.
func EncodeKey[K any](c Codec[K], k K) (string, error) {
	b, err := c.Encode(k)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
