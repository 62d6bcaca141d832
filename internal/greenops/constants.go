package greenops

// Global warming potentials over 100 years (IPCC AR6), kg CO2e per kg gas.
const (
	GWPCO2         = 1.0
	GWPCH4Fossil   = 29.8
	GWPCH4Biogenic = 27.0
	GWPN2O         = 273.0
)

// Equivalency factors (EPA GHG Equivalencies Calculator, 2024 edition).
// An equivalency is kg_CO2e / factor.
const (
	// KmDrivenFactor is kg CO2e per km in an average passenger car
	// (0.192 kg per mile).
	KmDrivenFactor = 0.192 / 1.609344

	// SmartphoneChargeFactor is kg CO2e per full smartphone charge.
	SmartphoneChargeFactor = 0.00822
)

// Mass conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest footprint worth an equivalency.
	MinEquivalencyThresholdKg = 0.1

	// LargeNumberThreshold switches FormatLarge to "~X.X million".
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches FormatLarge to "~X.X billion".
	BillionThreshold = 1_000_000_000
)
