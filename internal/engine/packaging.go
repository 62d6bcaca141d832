package engine

import "strings"

// PackagingFactors maps a packaging facet code to its per-kg GHG vector
// (CO2, CH4 fossil, CH4 biogenic). Vectors of two values omit biogenic
// methane.
type PackagingFactors map[string][]float64

// Emissions returns the GHG vector for grams of product packed as code.
func (f PackagingFactors) Emissions(code string, grams float64) ([]float64, bool) {
	v, ok := f[code]
	if !ok {
		return nil, false
	}
	return scaled(v, grams/gramsPerKg), true
}

// isPackagingFacet reports whether facet names a packaging code.
func isPackagingFacet(facet, prefix string) bool {
	return prefix != "" && strings.HasPrefix(facet, prefix)
}
