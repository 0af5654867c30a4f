// Package helper adapts untyped cache backends to typed lookups.
package helper

import (
	"fmt"
)

// LookupTyped runs a getter that reports a miss as a nil result, as
// go-memdb's Txn.First does, and asserts a hit to T.
// A getter error or a hit of another type is returned as an error.
func LookupTyped[T any](getFn func() (any, error)) (res T, ok bool, err error) {
	raw, err := getFn()
	if err != nil {
		return res, false, fmt.Errorf("failed to get value: %w", err)
	}
	if raw == nil {
		return res, false, nil
	}
	if res, ok = raw.(T); !ok {
		return res, false, fmt.Errorf("unexpected type: %T", raw)
	}
	return res, true, nil
}

// GetTypedValueOf2 is the comma-ok lookup for getters shaped like
// sync.Map.Load. ok is false on a miss or a type mismatch. A stored nil is
// the zero value of an interface T and counts as a hit.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); ok && raw != nil {
		res, ok = raw.(T)
	}
	return
}
