// Package recur holds worked recurrences built on pure and tabulate.
//
// Two Fibonacci conventions coexist on purpose. FibNaive, FibStep and Fib
// are ordinal: Fib(1) = 0, Fib(2) = 1. FibTable, TabulatedFib and
// FibConstantSpace are indexed: F(0) = 0, F(1) = 1. So Fib(n) == F(n-1).
package recur
