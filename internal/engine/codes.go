package engine

import "strings"

// wasteCategoryLevel is the code level at which waste fractions are defined.
const wasteCategoryLevel = 2

// CategoryAt returns the level-n category of a dot-separated food code: the
// prefix up to (not including) the n-th dot. Codes with fewer than n dots
// are their own category.
//
//	CategoryAt("A.01.02.003", 2) == "A.01"
func CategoryAt(code string, level int) string {
	if level <= 0 {
		return code
	}
	dots := 0
	for i := 0; i < len(code); i++ {
		if code[i] != '.' {
			continue
		}
		dots++
		if dots == level {
			return code[:i]
		}
	}
	return code
}

// equivalentCodes returns code plus its I./A. family twin, in lookup order.
func equivalentCodes(code string) []string {
	switch {
	case strings.HasPrefix(code, "I."):
		return []string{code, "A." + code[2:]}
	case strings.HasPrefix(code, "A."):
		return []string{code, "I." + code[2:]}
	default:
		return []string{code}
	}
}
