package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioRecipes() RecipeTable {
	return RecipeTable{
		"A.01": {
			{Code: "A.01.01", Facets: []string{"facetA"}, Share: 0.20, Yield: 10},
			{Code: "A.01.02", Facets: []string{"facetA"}, Share: 0.80, Yield: 1},
		},
		"A.01.01": {
			{Code: "A.01.123.01", Facets: []string{"facetB"}, Share: 1, Yield: 1.7},
		},
	}
}

func TestRecipeTableReduce(t *testing.T) {
	t.Run("nested recipe", func(t *testing.T) {
		r, err := scenarioRecipes().Reduce("A.01", 100)
		require.NoError(t, err)

		require.Len(t, r.RPCs, 2)
		assert.Equal(t, "A.01.123.01", r.RPCs[0].Code)
		assert.InDelta(t, 100*0.2*10*1.7, r.RPCs[0].Amount, 1e-9)
		assert.Equal(t, "A.01.02", r.RPCs[1].Code)
		assert.InDelta(t, 80.0, r.RPCs[1].Amount, 1e-9)

		assert.InDelta(t, 100*0.2*10+100*0.8, r.Facets["A.01"]["facetA"], 1e-9)
		assert.InDelta(t, 100*0.2*10*1.7, r.Facets["A.01.01"]["facetB"], 1e-9)
	})

	t.Run("unknown code is an RPC", func(t *testing.T) {
		r, err := scenarioRecipes().Reduce("Z.01", 12)
		require.NoError(t, err)
		assert.Equal(t, RPCAmounts{{Code: "Z.01", Amount: 12}}, r.RPCs)
		assert.Empty(t, r.Facets)
	})

	t.Run("repeated RPC merges in first-seen order", func(t *testing.T) {
		table := RecipeTable{
			"M": {
				{Code: "X", Share: 0.25, Yield: 1},
				{Code: "Y", Share: 0.5, Yield: 1},
				{Code: "X", Share: 0.25, Yield: 1},
			},
		}
		r, err := table.Reduce("M", 100)
		require.NoError(t, err)
		assert.Equal(t, RPCAmounts{{Code: "X", Amount: 50}, {Code: "Y", Amount: 50}}, r.RPCs)
	})

	t.Run("self reference expands one level", func(t *testing.T) {
		table := RecipeTable{
			"S": {
				{Code: "S", Facets: []string{"dry"}, Share: 0.5, Yield: 1},
				{Code: "T", Share: 0.5, Yield: 1},
			},
		}
		r, err := table.Reduce("S", 100)
		require.NoError(t, err)
		assert.Equal(t, RPCAmounts{{Code: "S", Amount: 50}, {Code: "T", Amount: 50}}, r.RPCs)
		assert.InDelta(t, 50.0, r.Facets["S"]["dry"], 1e-9)
	})

	t.Run("shared child is not a cycle", func(t *testing.T) {
		table := RecipeTable{
			"A": {{Code: "B", Share: 0.5, Yield: 1}, {Code: "C", Share: 0.5, Yield: 1}},
			"B": {{Code: "D", Share: 1, Yield: 1}},
			"C": {{Code: "D", Share: 1, Yield: 1}},
		}
		require.NoError(t, table.Validate())
		r, err := table.Reduce("A", 100)
		require.NoError(t, err)
		assert.Equal(t, RPCAmounts{{Code: "D", Amount: 100}}, r.RPCs)
	})

	t.Run("longer cycle fails", func(t *testing.T) {
		table := RecipeTable{
			"A": {{Code: "B", Share: 1, Yield: 1}},
			"B": {{Code: "A", Share: 1, Yield: 1}},
		}
		_, err := table.Reduce("A", 1)
		require.ErrorIs(t, err, ErrRecipeCycle)
		assert.Contains(t, err.Error(), "A -> B -> A")
	})
}

func TestRecipeTableReduce_MassConservation(t *testing.T) {
	table := RecipeTable{
		"P":   {{Code: "P.1", Share: 0.3, Yield: 1}, {Code: "P.2", Share: 0.7, Yield: 1}},
		"P.1": {{Code: "R.1", Share: 0.5, Yield: 1}, {Code: "R.2", Share: 0.5, Yield: 1}},
		"P.2": {{Code: "R.2", Share: 0.1, Yield: 1}, {Code: "R.3", Share: 0.9, Yield: 1}},
	}
	r, err := table.Reduce("P", 250)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, r.RPCs.Total(), 1e-9)
}

func TestRecipeTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   RecipeTable
		wantErr error
	}{
		{name: "scenario", table: scenarioRecipes()},
		{
			name:  "self reference allowed",
			table: RecipeTable{"S": {{Code: "S", Share: 1, Yield: 1}}},
		},
		{
			name: "three step cycle",
			table: RecipeTable{
				"A": {{Code: "B", Share: 1, Yield: 1}},
				"B": {{Code: "C", Share: 1, Yield: 1}},
				"C": {{Code: "A", Share: 1, Yield: 1}},
			},
			wantErr: ErrRecipeCycle,
		},
		{
			name:    "share above one",
			table:   RecipeTable{"A": {{Code: "B", Share: 1.5, Yield: 1}}},
			wantErr: ErrInvalidFactor,
		},
		{
			name:    "zero yield",
			table:   RecipeTable{"A": {{Code: "B", Share: 1, Yield: 0}}},
			wantErr: ErrInvalidFactor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
