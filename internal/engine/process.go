package engine

import (
	"fmt"
	"maps"
	"slices"
)

// ProcessEnergyTable maps a process facet code to its per-kg energy demand,
// one value per carrier in CarrierNames order.
type ProcessEnergyTable map[string][]float64

// CarrierFactors are the GHG factors (CO2, CH4 fossil, N2O per unit of
// energy) of each carrier. Electricity is looked up per country.
type CarrierFactors struct {
	Flat        map[string][]float64 `yaml:"flat"        json:"flat"`
	Electricity map[string][]float64 `yaml:"electricity" json:"electricity"`
}

// ProcessFactors maps a process facet code to its per-kg GHG vector.
type ProcessFactors map[string][]float64

// Emissions returns the GHG vector for grams of product through process.
func (f ProcessFactors) Emissions(process string, grams float64) ([]float64, bool) {
	v, ok := f[process]
	if !ok {
		return nil, false
	}
	return scaled(v, grams/gramsPerKg), true
}

// ComputeProcessFactors converts energy demand into per-kg GHG emissions for
// processes run in country. The electricity factor for country is required
// whether or not any process draws electricity.
func ComputeProcessFactors(demand ProcessEnergyTable, carriers CarrierFactors, country string) (ProcessFactors, error) {
	electricity, ok := carriers.Electricity[country]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingElectricity, country)
	}
	if len(electricity) != NumGHG {
		return nil, fmt.Errorf("%w: electricity factor for %s has %d values, want %d",
			ErrVectorLength, country, len(electricity), NumGHG)
	}

	out := make(ProcessFactors, len(demand))
	for _, process := range slices.Sorted(maps.Keys(demand)) {
		d := demand[process]
		if len(d) != NumCarriers {
			return nil, fmt.Errorf("%w: energy demand of %s has %d carriers, want %d",
				ErrVectorLength, process, len(d), NumCarriers)
		}
		ghg := make([]float64, NumGHG)
		for i, carrier := range CarrierNames {
			if d[i] == 0 {
				continue
			}
			factor := electricity
			if carrier != ElectricityCarrier {
				factor, ok = carriers.Flat[carrier]
				if !ok {
					return nil, fmt.Errorf("%w: %q used by %s", ErrMissingCarrier, carrier, process)
				}
			}
			var err error
			if ghg, err = accumulate(ghg, d[i], factor); err != nil {
				return nil, fmt.Errorf("carrier %s of %s: %w", carrier, process, err)
			}
		}
		out[process] = ghg
	}
	return out, nil
}
