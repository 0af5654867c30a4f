// Package tabulate builds recurrences bottom-up.
//
// Tabulate fills a queryable Table from the base cases to n in strictly
// increasing order, so every entry a step reads is already resolved.
//
// Window and Stream are streaming reductions: they keep only the last
// len(base) entries and cannot answer queries about earlier ones.
package tabulate
