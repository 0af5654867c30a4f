package tabulate

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeIndex = errors.New("negative index")
	ErrNoBaseCases   = errors.New("no base cases")
	ErrUnresolved    = errors.New("entry is not resolved yet")
	ErrOutOfRange    = errors.New("index out of range")
	ErrStepPanicked  = errors.New("step panicked")
)

// UnresolvedError reports a step reading an entry at or after the one it builds.
type UnresolvedError struct {
	Index    int // entry that was read
	Building int // entry being built
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("building entry %d: read entry %d: %v", e.Building, e.Index, ErrUnresolved)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

func validate[V any](n int, base []V) error {
	if n < 0 {
		return fmt.Errorf("tabulate up to %d: %w", n, ErrNegativeIndex)
	}
	if len(base) == 0 {
		return ErrNoBaseCases
	}
	return nil
}
