package engine

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// RecipeComponent is one step of a recipe: a sub-component, the facets the
// step applies, the component's share of the parent mass and a yield factor.
type RecipeComponent struct {
	Code   string   `yaml:"code"   json:"code"`
	Facets []string `yaml:"facets" json:"facets"`
	Share  float64  `yaml:"share"  json:"share"`
	Yield  float64  `yaml:"yield"  json:"yield"`
}

// RecipeTable maps a food code to its components. Codes without an entry are
// raw primary commodities.
type RecipeTable map[string][]RecipeComponent

// Reduction is the result of expanding a food through the recipe table.
type Reduction struct {
	// RPCs holds one entry per RPC in first-reached order.
	RPCs RPCAmounts
	// Facets holds facet masses keyed by the code of the recipe declaring them.
	Facets FacetAmounts

	index map[string]int
}

func newReduction() *Reduction {
	return &Reduction{Facets: make(FacetAmounts), index: make(map[string]int)}
}

func (r *Reduction) addRPC(code string, grams float64) {
	if i, ok := r.index[code]; ok {
		r.RPCs[i].Amount += grams
		return
	}
	r.index[code] = len(r.RPCs)
	r.RPCs = append(r.RPCs, RPCAmount{Code: code, Amount: grams})
}

// Merge folds other into r. RPCs new to r are appended in other's order.
func (r *Reduction) Merge(other *Reduction) {
	for _, rpc := range other.RPCs {
		r.addRPC(rpc.Code, rpc.Amount)
	}
	r.Facets.merge(other.Facets)
}

// Reduce expands code at the given mass into RPC masses and facet masses.
//
// Each component contributes mass*share*yield. That sub-mass is credited to
// every facet of the step under the parent code, then expanded in turn. A
// component naming its own parent is expanded once and kept as a leaf at the
// sub-mass. Any longer cycle returns ErrRecipeCycle.
func (t RecipeTable) Reduce(code string, grams float64) (*Reduction, error) {
	return t.reduce(code, grams, nil)
}

func (t RecipeTable) reduce(code string, grams float64, path []string) (*Reduction, error) {
	out := newReduction()
	components, ok := t[code]
	if !ok {
		out.addRPC(code, grams)
		return out, nil
	}
	if slices.Contains(path, code) {
		return nil, fmt.Errorf("%w: %s", ErrRecipeCycle, strings.Join(append(path, code), " -> "))
	}
	path = append(path[:len(path):len(path)], code)

	for _, c := range components {
		sub := grams * c.Share * c.Yield
		for _, facet := range c.Facets {
			out.Facets.add(code, facet, sub)
		}
		if c.Code == code {
			out.addRPC(code, sub)
			continue
		}
		child, err := t.reduce(c.Code, sub, path)
		if err != nil {
			return nil, err
		}
		out.Merge(child)
	}
	return out, nil
}

// Validate checks share and yield ranges and rejects cycles that the
// self-reference rule does not resolve.
func (t RecipeTable) Validate() error {
	codes := slices.Sorted(maps.Keys(t))
	for _, code := range codes {
		for _, c := range t[code] {
			if c.Share < 0 || c.Share > 1 {
				return fmt.Errorf("%w: %s -> %s share %v outside [0,1]", ErrInvalidFactor, code, c.Code, c.Share)
			}
			if c.Yield <= 0 {
				return fmt.Errorf("%w: %s -> %s yield %v must be positive", ErrInvalidFactor, code, c.Code, c.Yield)
			}
		}
	}

	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(t))
	var visit func(code string, path []string) error
	visit = func(code string, path []string) error {
		switch state[code] {
		case done:
			return nil
		case onPath:
			return fmt.Errorf("%w: %s", ErrRecipeCycle, strings.Join(append(path, code), " -> "))
		}
		components, ok := t[code]
		if !ok {
			state[code] = done
			return nil
		}
		state[code] = onPath
		path = append(path[:len(path):len(path)], code)
		for _, c := range components {
			if c.Code == code {
				continue
			}
			if err := visit(c.Code, path); err != nil {
				return err
			}
		}
		state[code] = done
		return nil
	}

	for _, code := range codes {
		if err := visit(code, nil); err != nil {
			return err
		}
	}
	return nil
}
