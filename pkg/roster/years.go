package roster

import (
	"slices"
	"strconv"
)

// SortYearsDesc returns the year labels sorted most recent first.
//
// Labels that parse as integers are compared numerically, so "2024" sorts
// before "999". Non-numeric labels (raw tournament identifiers used as
// fallback year labels) sort after all numeric ones, in reverse lexicographic
// order. The input slice is not modified.
//
// Two labels are "adjacent" when they are consecutive in this order,
// regardless of the numeric gap between them - the builder links 2024 to 2021
// directly if no year lies between them in the dataset.
func SortYearsDesc(years []string) []string {
	out := slices.Clone(years)
	slices.SortFunc(out, func(a, b string) int {
		ai, aok := parseYear(a)
		bi, bok := parseYear(b)
		switch {
		case aok && bok:
			return bi - ai
		case aok:
			return -1
		case bok:
			return 1
		default:
			if a > b {
				return -1
			}
			if a < b {
				return 1
			}
			return 0
		}
	})
	return out
}

func parseYear(label string) (int, bool) {
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return n, true
}
