package recur

import "github.com/on-the-ground/memo_ive_go/pure"

// FactorialStep is n! for n >= 0.
func FactorialStep(self func(int) int, n int) int {
	if n <= 1 {
		return 1
	}
	return n * self(n-1)
}

func NewFactorial(cfg ...pure.Config) *pure.Memo[int, int] {
	return pure.Fix(FactorialStep, cfg...)
}
