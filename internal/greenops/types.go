// Package greenops converts greenhouse-gas masses to CO2 equivalents and
// expresses CO2e totals as everyday equivalencies.
package greenops

import "fmt"

// GWPProfile lists the global warming potential of each position of a GHG
// vector.
type GWPProfile []float64

// Standard GWP profiles, index-aligned with the engine's GHG vectors.
//
//nolint:gochecknoglobals // Read-only lookup tables.
var (
	// CombustionGWP weights (CO2, CH4 fossil, N2O) vectors from processing
	// energy and transport.
	CombustionGWP = GWPProfile{GWPCO2, GWPCH4Fossil, GWPN2O}

	// PackagingGWP weights (CO2, CH4 fossil, CH4 biogenic) vectors.
	PackagingGWP = GWPProfile{GWPCO2, GWPCH4Fossil, GWPCH4Biogenic}
)

// EquivalencyType is a category of CO2e equivalency.
type EquivalencyType int

const (
	// EquivalencyKmDriven converts CO2e to km driven in an average car.
	EquivalencyKmDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone charges.
	EquivalencySmartphonesCharged
)

func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyKmDriven:
		return "KmDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// EquivalencyResult is one calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput holds the equivalencies of one CO2e total.
type EquivalencyOutput struct {
	InputKg float64             `json:"input_kg"`
	Results []EquivalencyResult `json:"results"`
	// DisplayText is the prose form, e.g.
	// "Equivalent to driving ~12 km or charging ~243 smartphones".
	DisplayText string `json:"display_text"`
	IsEmpty     bool   `json:"is_empty"`
}
