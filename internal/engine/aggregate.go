package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rshade/foodprint/internal/greenops"
)

// AggregateImpacts folds the impact collections of one item into a result
// row laid out as ResultHeader. Nil vectors are skipped, short vectors are
// zero-padded to their canonical length and longer ones are rejected with
// ErrVectorLength.
func AggregateImpacts(impacts ItemImpacts) ([]float64, error) {
	rpc, err := sumFlat("rpc", impacts.RPC, NumIndicators)
	if err != nil {
		return nil, err
	}
	transport, err := sumFlat("transport", impacts.Transport, NumGHG)
	if err != nil {
		return nil, err
	}
	process, err := sumNested("process", impacts.Process, NumGHG)
	if err != nil {
		return nil, err
	}
	packaging, err := sumNested("packaging", impacts.Packaging, NumPackagingGHG)
	if err != nil {
		return nil, err
	}

	processCO2e, err := greenops.CO2e(process, greenops.CombustionGWP)
	if err != nil {
		return nil, fmt.Errorf("process CO2e: %w", err)
	}
	packagingCO2e, err := greenops.CO2e(packaging, greenops.PackagingGWP)
	if err != nil {
		return nil, fmt.Errorf("packaging CO2e: %w", err)
	}
	transportCO2e, err := greenops.CO2e(transport, greenops.CombustionGWP)
	if err != nil {
		return nil, fmt.Errorf("transport CO2e: %w", err)
	}

	row := make([]float64, ResultWidth)
	row[ColTotalCO2e] = rpc[IndicatorCO2e] + processCO2e + packagingCO2e + transportCO2e
	row[ColTotalCO2] = rpc[IndicatorCO2Fossil] + process[0] + packaging[0] + transport[0]
	row[ColTotalCH4Fossil] = rpc[IndicatorCH4Fossil] + process[1] + packaging[1] + transport[1]
	row[ColTotalCH4Biogenic] = rpc[IndicatorCH4Biogenic] + packaging[2]
	row[ColTotalN2O] = rpc[IndicatorN2O] + process[2] + transport[2]

	copy(row[NumTotals:], rpc)
	putStage(row[processOffset:], processCO2e, process)
	putStage(row[packagingOffset:], packagingCO2e, packaging)
	putStage(row[transportOffset:], transportCO2e, transport)
	return row, nil
}

func putStage(dst []float64, co2e float64, ghg []float64) {
	dst[0] = co2e
	copy(dst[1:NumStageColumns], ghg)
}

func sumFlat(name string, m map[string][]float64, n int) ([]float64, error) {
	sum := make([]float64, n)
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v := m[key]
		if v == nil {
			continue
		}
		padded, err := padTo(v, n)
		if err != nil {
			return nil, fmt.Errorf("%s vector %s: %w", name, key, err)
		}
		if sum, err = accumulate(sum, 1, padded); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

func sumNested(name string, m map[string]map[string][]float64, n int) ([]float64, error) {
	sum := make([]float64, n)
	for _, outer := range slices.Sorted(maps.Keys(m)) {
		inner, err := sumFlat(name+" "+outer, m[outer], n)
		if err != nil {
			return nil, err
		}
		if sum, err = accumulate(sum, 1, inner); err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// SumRows adds rows element-wise into a new ResultWidth row.
func SumRows(rows ...[]float64) ([]float64, error) {
	total := make([]float64, ResultWidth)
	var err error
	for i, row := range rows {
		if total, err = accumulate(total, 1, row); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return total, nil
}
