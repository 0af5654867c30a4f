package recur

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/on-the-ground/memo_ive_go/tabulate"
)

// FibNaive is the ordinal Fibonacci number without caching. n must be at least 1.
func FibNaive(n int) int {
	if n <= 2 {
		return n - 1
	}
	return FibNaive(n-1) + FibNaive(n-2)
}

// FibStep is the ordinal Fibonacci recurrence.
func FibStep(self func(int) int, n int) int {
	if n <= 2 {
		return n - 1
	}
	return self(n-1) + self(n-2)
}

// NewFib memoizes FibStep.
func NewFib(cfg ...pure.Config) *pure.Memo[int, int] {
	return pure.Fix(FibStep, cfg...)
}

// Fib is the ordinal Fibonacci number computed with a short-lived memo.
func Fib(n int) int {
	fib := NewFib(pure.Config{Name: "fib"})
	defer fib.Close()
	return fib.Call(n)
}

// FibTable tabulates indexed Fibonacci numbers F(0) through F(n).
func FibTable(n int) (tabulate.Table[int], error) {
	return tabulate.Tabulate(n, []int{0, 1}, func(i int, prev tabulate.View[int]) int {
		return prev.At(i-1) + prev.At(i-2)
	})
}

// TabulatedFib is F(n) from a full table.
func TabulatedFib(n int) (int, error) {
	table, err := FibTable(n)
	if err != nil {
		return 0, fmt.Errorf("tabulated fib(%d): %w", n, err)
	}
	return table.Result(), nil
}

// FibConstantSpace is F(n) keeping only the last two entries.
func FibConstantSpace(n int) (int, error) {
	v, err := tabulate.Window(n, []int{0, 1}, func(w []int) int {
		return w[0] + w[1]
	})
	if err != nil {
		return 0, fmt.Errorf("constant space fib(%d): %w", n, err)
	}
	return v, nil
}
