package recur

import "github.com/on-the-ground/memo_ive_go/pure"

type Strings = pure.Tuple2[string, string]

// LevenshteinStep is the edit distance between k.A and k.B.
func LevenshteinStep(self func(Strings) int, k Strings) int {
	a, b := k.A, k.B
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if a[0] == b[0] {
		return self(pure.T2(a[1:], b[1:]))
	}
	return 1 + min(
		self(pure.T2(a[1:], b)),
		self(pure.T2(a, b[1:])),
		self(pure.T2(a[1:], b[1:])),
	)
}

func NewLevenshtein(cfg ...pure.Config) *pure.Memo[Strings, int] {
	return pure.Fix(LevenshteinStep, cfg...)
}

// Levenshtein is the edit distance between a and b, in bytes.
func Levenshtein(a, b string) int {
	lev := NewLevenshtein(pure.Config{Name: "levenshtein"})
	defer lev.Close()
	return lev.Call(pure.T2(a, b))
}
