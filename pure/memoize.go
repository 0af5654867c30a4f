package pure

// Memoize2 wraps a non-recursive two-argument f, keyed on Tuple2.
func Memoize2[A, B comparable, V any](f func(A, B) V, cfg ...Config) func(A, B) V {
	call := Memoize(func(k Tuple2[A, B]) V { return f(k.A, k.B) }, cfg...)
	return func(a A, b B) V {
		return call(Tuple2[A, B]{a, b})
	}
}

// Memoize3 wraps a non-recursive three-argument f, keyed on Tuple3.
func Memoize3[A, B, C comparable, V any](f func(A, B, C) V, cfg ...Config) func(A, B, C) V {
	call := Memoize(func(k Tuple3[A, B, C]) V { return f(k.A, k.B, k.C) }, cfg...)
	return func(a A, b B, c C) V {
		return call(Tuple3[A, B, C]{a, b, c})
	}
}

// Memoize4 wraps a non-recursive four-argument f, keyed on Tuple4.
func Memoize4[A, B, C, D comparable, V any](f func(A, B, C, D) V, cfg ...Config) func(A, B, C, D) V {
	call := Memoize(func(k Tuple4[A, B, C, D]) V { return f(k.A, k.B, k.C, k.D) }, cfg...)
	return func(a A, b B, c C, d D) V {
		return call(Tuple4[A, B, C, D]{a, b, c, d})
	}
}
