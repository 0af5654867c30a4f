package recur

import "github.com/on-the-ground/memo_ive_go/pure"

// Multiply computes a*b by repeated addition.
func Multiply(a, b int) int {
	if b < 0 {
		a, b = -a, -b
	}
	total := 0
	for range b {
		total += a
	}
	return total
}

// MultiplyCache memoizes mul on the pair of operands. Nil mul means Multiply.
func MultiplyCache(mul func(a, b int) int, cfg ...pure.Config) func(a, b int) int {
	if mul == nil {
		mul = Multiply
	}
	return pure.Memoize2(mul, cfg...)
}
