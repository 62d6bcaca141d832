package engine

import (
	"fmt"
	"math"
)

// Dimension and sentinel constants shared by every table.
const (
	// RestOfWorld is the synthetic origin absorbing folded origins.
	RestOfWorld = "RoW"

	// SentinelCode marks a food or RPC slot with no code.
	SentinelCode = "0"

	// NumIndicators is the length of a raw-material footprint vector.
	NumIndicators = 16

	// NumCarriers is the length of a process energy-demand vector.
	NumCarriers = 9

	// NumGHG is the length of a process or transport GHG vector:
	// CO2, CH4 fossil, N2O.
	NumGHG = 3

	// NumPackagingGHG is the length of a packaging GHG vector:
	// CO2, CH4 fossil, CH4 biogenic.
	NumPackagingGHG = 3

	// ElectricityCarrier is the only carrier whose factor varies by country.
	ElectricityCarrier = "Electricity"

	// DefaultRowThreshold is the share below which a data-less origin is
	// folded into RestOfWorld.
	DefaultRowThreshold = 0.01

	// DefaultPackagingFacetPrefix marks recipe facets that are packaging codes.
	DefaultPackagingFacetPrefix = "F19."

	gramsPerKg = 1000.0
)

// CarrierNames is the field order of process energy-demand vectors.
//
//nolint:gochecknoglobals // Fixed field order.
var CarrierNames = [NumCarriers]string{
	ElectricityCarrier,
	"Heating oil",
	"Natural gas",
	"LPG",
	"Hard coal",
	"Coke",
	"Biomass",
	"Diesel",
	"District heating",
}

// Raw-material indicator indices within a footprint vector.
const (
	IndicatorCO2e = iota
	IndicatorCO2Fossil
	IndicatorCH4Fossil
	IndicatorCH4Biogenic
	IndicatorN2O
	IndicatorHFC
	IndicatorLandUse
	IndicatorNInput
	IndicatorPInput
	IndicatorNewN
	IndicatorNewP
	IndicatorNBalance
	IndicatorAmmonia
	IndicatorBlueWater
	IndicatorPesticides
	IndicatorBiodiversity
)

// DietItem is one consumed food and its daily amount in grams.
type DietItem struct {
	Code   string  `yaml:"code"   json:"code"`
	Amount float64 `yaml:"amount" json:"amount"`
}

// Diet is an ordered list of diet items.
type Diet []DietItem

// Validate rejects negative and non-finite amounts.
func (d Diet) Validate() error {
	for i, item := range d {
		if math.IsNaN(item.Amount) || math.IsInf(item.Amount, 0) || item.Amount < 0 {
			return fmt.Errorf("%w: item %d (%s) has amount %v", ErrInvalidAmount, i, item.Code, item.Amount)
		}
	}
	return nil
}

// RPCAmount is a raw primary commodity and its mass in grams.
type RPCAmount struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// RPCAmounts is an ordered list of RPC masses, one entry per code.
type RPCAmounts []RPCAmount

// Total returns the summed mass.
func (a RPCAmounts) Total() float64 {
	var sum float64
	for _, r := range a {
		sum += r.Amount
	}
	return sum
}

// FacetAmounts maps ancestor food code to facet code to accumulated grams.
type FacetAmounts map[string]map[string]float64

func (f FacetAmounts) add(ancestor, facet string, grams float64) {
	inner, ok := f[ancestor]
	if !ok {
		inner = make(map[string]float64)
		f[ancestor] = inner
	}
	inner[facet] += grams
}

func (f FacetAmounts) merge(other FacetAmounts) {
	for ancestor, facets := range other {
		for facet, grams := range facets {
			f.add(ancestor, facet, grams)
		}
	}
}

// ItemImpacts holds the four impact collections of one diet item. A nil
// vector marks missing data for that key.
type ItemImpacts struct {
	// RPC maps RPC code to its raw-material footprint (NumIndicators).
	RPC map[string][]float64 `json:"rpc"`
	// Process maps ancestor code to process facet to GHG emissions.
	Process map[string]map[string][]float64 `json:"process"`
	// Packaging maps ancestor code to packaging facet to GHG emissions.
	Packaging map[string]map[string][]float64 `json:"packaging"`
	// Transport maps RPC code to transport GHG emissions.
	Transport map[string][]float64 `json:"transport"`
}

func newItemImpacts() ItemImpacts {
	return ItemImpacts{
		RPC:       make(map[string][]float64),
		Process:   make(map[string]map[string][]float64),
		Packaging: make(map[string]map[string][]float64),
		Transport: make(map[string][]float64),
	}
}

func setNested(m map[string]map[string][]float64, outer, inner string, v []float64) {
	row, ok := m[outer]
	if !ok {
		row = make(map[string][]float64)
		m[outer] = row
	}
	row[inner] = v
}

// ItemResult is the computed footprint of one diet item.
type ItemResult struct {
	Code string `json:"code"`
	// Amount is the consumed (net) amount in grams.
	Amount float64 `json:"amount"`
	// GrossAmount is Amount inflated by retail and consumer waste.
	GrossAmount float64     `json:"gross_amount"`
	Impacts     ItemImpacts `json:"impacts"`
	// Row is the 33-column result row, see ResultHeader.
	Row  []float64 `json:"row"`
	Gaps []Gap     `json:"gaps,omitempty"`
}

// Complete reports whether the item was costed without data gaps.
func (r ItemResult) Complete() bool {
	return len(r.Gaps) == 0
}

// Impacts is the result of one ComputeImpacts call.
type Impacts struct {
	RunID string       `json:"run_id"`
	Items []ItemResult `json:"items"`
	// Total is the element-wise sum of all item rows.
	Total []float64 `json:"total"`
	// Gaps lists every distinct data gap across items.
	Gaps []Gap `json:"gaps,omitempty"`
}

// DietReduction exposes the recipe-reduction stage of a diet.
type DietReduction struct {
	// RPCAmounts lists every RPC reached, transport-exempt ones included.
	RPCAmounts RPCAmounts `json:"rpc_amounts"`
	// ProcessAmounts holds process facet masses per ancestor code.
	ProcessAmounts FacetAmounts `json:"process_amounts"`
	// PackagingAmounts holds packaging facet masses per ancestor code.
	PackagingAmounts FacetAmounts `json:"packaging_amounts"`
	// TransportlessAmounts lists the RPCs exempt from transport.
	TransportlessAmounts RPCAmounts `json:"transportless_amounts"`
	Gaps                 []Gap      `json:"gaps,omitempty"`
}
