package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustForWaste(t *testing.T) {
	table := WasteTable{
		"A.01": {Retail: 0.1, Consumer: 0.3},
		"A.02": {},
		"A.03": {Retail: 0.2},
	}

	t.Run("inflates by both stages", func(t *testing.T) {
		got, gaps := AdjustForWaste(Diet{{Code: "A.01.001", Amount: 100}}, table)
		require.Len(t, got, 1)
		assert.InDelta(t, 100/(0.9*0.7), got[0].Amount, 1e-9)
		assert.Empty(t, gaps)
	})

	t.Run("zero waste is identity", func(t *testing.T) {
		diet := Diet{{Code: "A.02.001", Amount: 42}, {Code: "A.02", Amount: 0}}
		got, gaps := AdjustForWaste(diet, table)
		assert.Equal(t, diet, got)
		assert.Empty(t, gaps)
	})

	t.Run("output never below input", func(t *testing.T) {
		diet := Diet{{Code: "A.01.1", Amount: 5}, {Code: "A.03.1", Amount: 7}, {Code: "Z.99", Amount: 3}}
		got, _ := AdjustForWaste(diet, table)
		for i := range diet {
			assert.GreaterOrEqual(t, got[i].Amount, diet[i].Amount)
		}
	})

	t.Run("missing category keeps amount and reports gap", func(t *testing.T) {
		got, gaps := AdjustForWaste(Diet{{Code: "Z.99.1", Amount: 10}}, table)
		assert.InDelta(t, 10.0, got[0].Amount, 0)
		require.Len(t, gaps, 1)
		assert.Equal(t, Gap{Kind: GapMissingWaste, Code: "Z.99.1"}, gaps[0])
	})

	t.Run("I and A categories are equivalent", func(t *testing.T) {
		got, gaps := AdjustForWaste(Diet{{Code: "I.01.7", Amount: 100}}, table)
		assert.InDelta(t, 100/(0.9*0.7), got[0].Amount, 1e-9)
		assert.Empty(t, gaps)
	})

	t.Run("input untouched", func(t *testing.T) {
		diet := Diet{{Code: "A.01.001", Amount: 100}}
		_, _ = AdjustForWaste(diet, table)
		assert.InDelta(t, 100.0, diet[0].Amount, 0)
	})
}

func TestWasteTableValidate(t *testing.T) {
	require.NoError(t, WasteTable{"A.01": {Retail: 0.5, Consumer: 0}}.validate())
	require.ErrorIs(t, WasteTable{"A.01": {Retail: 1}}.validate(), ErrInvalidFactor)
	require.ErrorIs(t, WasteTable{"A.01": {Consumer: -0.1}}.validate(), ErrInvalidFactor)
}
