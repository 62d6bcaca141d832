package engine

// ResultFormatVersion versions the column layout of ResultHeader. Any change
// to column order or meaning bumps the major version.
const ResultFormatVersion = "1.0.0"

// Result row layout.
const (
	// NumTotals is the number of combined total columns.
	NumTotals = 5

	// NumStageColumns is the width of each process, packaging and transport
	// block: CO2e followed by the three stage gases.
	NumStageColumns = 4

	// ResultWidth is the number of columns in a result row.
	ResultWidth = NumTotals + NumIndicators + 3*NumStageColumns

	processOffset   = NumTotals + NumIndicators
	packagingOffset = processOffset + NumStageColumns
	transportOffset = packagingOffset + NumStageColumns
)

// ResultHeader labels the columns of a result row. Masses are kg per day.
//
//nolint:gochecknoglobals // Fixed, versioned column contract.
var ResultHeader = [ResultWidth]string{
	"total_co2e",
	"total_co2",
	"total_ch4_fossil",
	"total_ch4_biogenic",
	"total_n2o",

	"raw_co2e",
	"raw_co2_fossil",
	"raw_ch4_fossil",
	"raw_ch4_biogenic",
	"raw_n2o",
	"raw_hfc",
	"raw_land_use",
	"raw_n_input",
	"raw_p_input",
	"raw_new_n",
	"raw_new_p",
	"raw_n_balance",
	"raw_ammonia",
	"raw_blue_water",
	"raw_pesticides",
	"raw_biodiversity",

	"process_co2e",
	"process_co2",
	"process_ch4_fossil",
	"process_n2o",

	"packaging_co2e",
	"packaging_co2",
	"packaging_ch4_fossil",
	"packaging_ch4_biogenic",

	"transport_co2e",
	"transport_co2",
	"transport_ch4_fossil",
	"transport_n2o",
}

// Column indices of the combined totals.
const (
	ColTotalCO2e = iota
	ColTotalCO2
	ColTotalCH4Fossil
	ColTotalCH4Biogenic
	ColTotalN2O
)

// Column indices of the per-stage CO2e values.
const (
	ColRawCO2e       = NumTotals + IndicatorCO2e
	ColProcessCO2e   = processOffset
	ColPackagingCO2e = packagingOffset
	ColTransportCO2e = transportOffset
)
