// Package pure memoizes pure functions.
//
// Memoization is not just a utility to make things faster.
// Wrapping a function forces the developer to ask:
//
//	→ "Is this function really pure?"
//	→ "Can this computation be treated as a lazy table?"
//
// Every wrapper assumes purity: same arguments, same result, no observable
// side effects. A wrapped impure function silently returns stale results;
// nothing here can detect that.
//
// Two families live here:
//   - Fix / Memoize / SharedMemo: typed evaluators over comparable keys,
//     with recursion injected through a self function, cycle detection on the
//     active call path, pluggable stores and an explicit Session lifecycle.
//   - TableizeI1O1 to TableizeI4O2: arity-typed wrappers for arguments that
//     are comparable or fmt.Stringer, backed by a bounded two-generation Trie.
//
// Recursive use goes through the injected self, never through a global:
//
//	fib := pure.Fix(func(self func(int) int, n int) int {
//	    if n <= 2 {
//	        return n - 1
//	    }
//	    return self(n-1) + self(n-2)
//	})
//	defer fib.Close()
//	fib.Call(50)
//
// WARNING: Do not memoize impure functions (e.g., those depending on time, I/O, etc).
package pure
