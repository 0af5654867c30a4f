package pure

import "fmt"

// ComparableOrStringer is an argument the Tableize family can key on: either
// a comparable value or a fmt.Stringer whose String is injective.
type ComparableOrStringer any

// ComparableOrString is one segment of a trie path.
type ComparableOrString any

// stringerKey keys a Stringer argument. Carrying the dynamic type keeps
// values of different types with the same string form apart.
type stringerKey struct {
	typ  string
	repr string
}

func tableKey(i ComparableOrStringer) ComparableOrString {
	if stringer, ok := i.(fmt.Stringer); ok {
		return stringerKey{typ: fmt.Sprintf("%T", i), repr: stringer.String()}
	}
	return i
}

// Tuple2 is the structural key of a two-argument memo.
type Tuple2[A, B comparable] struct {
	A A
	B B
}

// Tuple3 is the structural key of a three-argument memo.
type Tuple3[A, B, C comparable] struct {
	A A
	B B
	C C
}

// Tuple4 is the structural key of a four-argument memo.
type Tuple4[A, B, C, D comparable] struct {
	A A
	B B
	C C
	D D
}

func T2[A, B comparable](a A, b B) Tuple2[A, B] { return Tuple2[A, B]{a, b} }

func T3[A, B, C comparable](a A, b B, c C) Tuple3[A, B, C] { return Tuple3[A, B, C]{a, b, c} }

func T4[A, B, C, D comparable](a A, b B, c C, d D) Tuple4[A, B, C, D] {
	return Tuple4[A, B, C, D]{a, b, c, d}
}

func (t Tuple2[A, B]) String() string { return fmt.Sprintf("(%v, %v)", t.A, t.B) }

func (t Tuple3[A, B, C]) String() string { return fmt.Sprintf("(%v, %v, %v)", t.A, t.B, t.C) }

func (t Tuple4[A, B, C, D]) String() string {
	return fmt.Sprintf("(%v, %v, %v, %v)", t.A, t.B, t.C, t.D)
}
