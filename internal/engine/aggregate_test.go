package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateImpacts(t *testing.T) {
	rpc := make([]float64, NumIndicators)
	for i := range rpc {
		rpc[i] = float64(i + 1)
	}
	impacts := ItemImpacts{
		RPC:       map[string][]float64{"r1": rpc, "r2": nil},
		Process:   map[string]map[string][]float64{"A": {"p": {1, 1, 1}, "q": nil}},
		Packaging: map[string]map[string][]float64{"A": {"F19.1": {1, 1}}},
		Transport: map[string][]float64{"r1": {2, 0, 1}, "r2": nil},
	}

	row, err := AggregateImpacts(impacts)
	require.NoError(t, err)
	require.Len(t, row, ResultWidth)

	const (
		processCO2e   = 1 + 29.8 + 273
		packagingCO2e = 1 + 29.8
		transportCO2e = 2 + 273
	)
	assert.InDelta(t, 1+processCO2e+packagingCO2e+transportCO2e, row[ColTotalCO2e], 1e-9)
	assert.InDelta(t, 2+1+1+2, row[ColTotalCO2], 1e-9)
	assert.InDelta(t, 3+1+1+0, row[ColTotalCH4Fossil], 1e-9)
	assert.InDelta(t, 4+0, row[ColTotalCH4Biogenic], 1e-9)
	assert.InDelta(t, 5+1+1, row[ColTotalN2O], 1e-9)

	assert.Equal(t, rpc, row[NumTotals:NumTotals+NumIndicators])
	assert.InDeltaSlice(t, []float64{processCO2e, 1, 1, 1}, row[processOffset:processOffset+NumStageColumns], 1e-9)
	assert.InDeltaSlice(t, []float64{packagingCO2e, 1, 1, 0}, row[packagingOffset:packagingOffset+NumStageColumns], 1e-9)
	assert.InDeltaSlice(t, []float64{transportCO2e, 2, 0, 1}, row[transportOffset:], 1e-9)
}

func TestAggregateImpacts_Empty(t *testing.T) {
	row, err := AggregateImpacts(newItemImpacts())
	require.NoError(t, err)
	assert.Equal(t, make([]float64, ResultWidth), row)
}

func TestAggregateImpacts_OverlongVector(t *testing.T) {
	tests := []struct {
		name    string
		impacts ItemImpacts
	}{
		{"rpc", ItemImpacts{RPC: map[string][]float64{"r": make([]float64, NumIndicators+1)}}},
		{"process", ItemImpacts{Process: map[string]map[string][]float64{"A": {"p": {1, 2, 3, 4}}}}},
		{"packaging", ItemImpacts{Packaging: map[string]map[string][]float64{"A": {"F19.1": {1, 2, 3, 4}}}}},
		{"transport", ItemImpacts{Transport: map[string][]float64{"r": {1, 2, 3, 4}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregateImpacts(tt.impacts)
			require.ErrorIs(t, err, ErrVectorLength)
		})
	}
}

func TestSumRows(t *testing.T) {
	a := make([]float64, ResultWidth)
	b := make([]float64, ResultWidth)
	a[0], b[0], b[32] = 1, 2, 3

	got, err := SumRows(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got[0], 0)
	assert.InDelta(t, 3.0, got[32], 0)

	_, err = SumRows([]float64{1})
	require.ErrorIs(t, err, ErrVectorLength)
}

func TestResultHeader(t *testing.T) {
	assert.Len(t, ResultHeader, 33)
	assert.Equal(t, "total_co2e", ResultHeader[ColTotalCO2e])
	assert.Equal(t, "raw_biodiversity", ResultHeader[NumTotals+IndicatorBiodiversity])
	assert.Equal(t, "process_co2e", ResultHeader[processOffset])
	assert.Equal(t, "packaging_ch4_biogenic", ResultHeader[packagingOffset+3])
	assert.Equal(t, "transport_n2o", ResultHeader[ResultWidth-1])
}
