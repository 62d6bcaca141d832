package engine

import "fmt"

// WasteFactors are the retail and consumer waste fractions of a category.
type WasteFactors struct {
	Retail   float64 `yaml:"retail"   json:"retail"`
	Consumer float64 `yaml:"consumer" json:"consumer"`
}

// grossFactor is the multiplier from consumed to pre-waste mass.
func (w WasteFactors) grossFactor() float64 {
	return 1 / ((1 - w.Retail) * (1 - w.Consumer))
}

// WasteTable maps level-2 category codes to waste fractions.
type WasteTable map[string]WasteFactors

// Lookup returns the waste fractions for the level-2 category of code,
// trying the I./A. twin when the exact category is absent.
func (t WasteTable) Lookup(code string) (WasteFactors, bool) {
	for _, c := range equivalentCodes(CategoryAt(code, wasteCategoryLevel)) {
		if w, ok := t[c]; ok {
			return w, true
		}
	}
	return WasteFactors{}, false
}

func (t WasteTable) validate() error {
	for cat, w := range t {
		if w.Retail < 0 || w.Retail >= 1 || w.Consumer < 0 || w.Consumer >= 1 {
			return fmt.Errorf("%w: waste for %s must be in [0,1), got %v/%v",
				ErrInvalidFactor, cat, w.Retail, w.Consumer)
		}
	}
	return nil
}

// AdjustForWaste converts consumed amounts to pre-waste amounts. Items whose
// category has no waste entry keep their amount and are reported as gaps.
func AdjustForWaste(diet Diet, table WasteTable) (Diet, []Gap) {
	out := make(Diet, len(diet))
	var gaps []Gap
	for i, item := range diet {
		w, ok := table.Lookup(item.Code)
		if !ok {
			gaps = append(gaps, Gap{Kind: GapMissingWaste, Code: item.Code})
		}
		out[i] = DietItem{Code: item.Code, Amount: item.Amount * w.grossFactor()}
	}
	return out, gaps
}
