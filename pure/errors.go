package pure

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle reports that a memoized recursion re-entered a key that is still
// being computed on the same call path.
var ErrCycle = errors.New("cyclic recursion")

// ErrSessionClosed is returned by operations that need a live session.
var ErrSessionClosed = errors.New("session is closed")

// CycleError carries the offending call path, oldest key first, ending with
// the key that was re-entered.
type CycleError struct {
	Memo string
	Path []any
}

func (e *CycleError) Error() string {
	steps := make([]string, len(e.Path))
	for i, k := range e.Path {
		steps[i] = fmt.Sprintf("%v", k)
	}
	return fmt.Sprintf("%s: %v: %s", e.Memo, ErrCycle, strings.Join(steps, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

// cyclePath cuts path down to the loop that starts at k and closes it with k.
func cyclePath[K comparable](path []K, k K) []any {
	start := 0
	for i, p := range path {
		if p == k {
			start = i
			break
		}
	}
	out := make([]any, 0, len(path)-start+1)
	for _, p := range path[start:] {
		out = append(out, p)
	}
	return append(out, k)
}

// recoverCycle turns a *CycleError panic into an error and re-raises anything else.
func recoverCycle(err *error) {
	if r := recover(); r != nil {
		if cerr, ok := r.(*CycleError); ok {
			*err = cerr
			return
		}
		panic(r)
	}
}
