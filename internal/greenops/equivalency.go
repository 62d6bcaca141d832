package greenops

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// CO2e returns the CO2-equivalent mass of ghg under profile. Vectors shorter
// than the profile are treated as zero-padded.
func CO2e(ghg []float64, profile GWPProfile) (float64, error) {
	if len(ghg) > len(profile) {
		return 0, fmt.Errorf("%w: %d values, profile has %d", ErrGWPLength, len(ghg), len(profile))
	}
	return floats.Dot(ghg, profile[:len(ghg)]), nil
}

// Calculate expresses kg CO2e as km driven and smartphones charged.
// Totals below MinEquivalencyThresholdKg yield an empty output.
func Calculate(kgCO2e float64) (EquivalencyOutput, error) {
	if math.IsInf(kgCO2e, 0) || math.IsNaN(kgCO2e) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}
	if kgCO2e < 0 {
		return EquivalencyOutput{IsEmpty: true}, ErrNegativeValue
	}
	if kgCO2e < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kgCO2e, IsEmpty: true}, nil
	}

	km := kgCO2e / KmDrivenFactor
	phones := kgCO2e / SmartphoneChargeFactor
	kmText := formatEquivalencyValue(km)
	phonesText := formatEquivalencyValue(phones)

	return EquivalencyOutput{
		InputKg: kgCO2e,
		Results: []EquivalencyResult{
			{Type: EquivalencyKmDriven, Value: km, FormattedValue: kmText, Label: "km driven"},
			{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesText, Label: "smartphones charged"},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s km or charging ~%s smartphones", kmText, phonesText),
	}, nil
}

func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
