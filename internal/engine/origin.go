package engine

import (
	"fmt"
	"maps"
	"slices"
)

// OriginShare is an origin's share of an RPC's supply and the production
// waste fraction at that origin.
type OriginShare struct {
	Share float64 `yaml:"share" json:"share"`
	Waste float64 `yaml:"waste" json:"waste"`
}

// OriginWasteTable maps RPC code to origin code to share and waste.
type OriginWasteTable map[string]map[string]OriginShare

func (t OriginWasteTable) validate() error {
	for rpc, origins := range t {
		for origin, o := range origins {
			if o.Share < 0 || o.Waste < 0 || o.Waste >= 1 {
				return fmt.Errorf("%w: origin %s of %s has share %v, waste %v",
					ErrInvalidFactor, origin, rpc, o.Share, o.Waste)
			}
		}
	}
	return nil
}

// AggregateOrigins folds, per RPC, the literal RestOfWorld entry and every
// origin that lacks footprint data and supplies less than threshold into a
// single RestOfWorld entry. The RestOfWorld share is whatever the kept
// origins leave of 1, never negative. Its waste is the share-weighted mean of
//   - the kept origins, when nothing was folded;
//   - all origins, when something was folded but none was literally RoW;
//   - the folded origins, when a literal RoW entry was folded.
//
// RPCs with no origins are left out.
func AggregateOrigins(origins OriginWasteTable, footprints FootprintTable, threshold float64) OriginWasteTable {
	out := make(OriginWasteTable, len(origins))
	for rpc, byOrigin := range origins {
		if len(byOrigin) == 0 {
			continue
		}
		known := footprints[rpc]
		out[rpc] = aggregateRPCOrigins(byOrigin, func(origin string) bool {
			_, ok := known[origin]
			return ok
		}, threshold)
	}
	return out
}

func aggregateRPCOrigins(byOrigin map[string]OriginShare, hasData func(string) bool, threshold float64) map[string]OriginShare {
	var kept, folded []OriginShare
	literalRoW := false
	out := make(map[string]OriginShare, len(byOrigin)+1)

	for _, origin := range slices.Sorted(maps.Keys(byOrigin)) {
		o := byOrigin[origin]
		if origin == RestOfWorld || (!hasData(origin) && o.Share < threshold) {
			folded = append(folded, o)
			literalRoW = literalRoW || origin == RestOfWorld
			continue
		}
		kept = append(kept, o)
		out[origin] = o
	}

	var keptShare float64
	for _, o := range kept {
		keptShare += o.Share
	}

	var waste float64
	switch {
	case len(folded) == 0:
		waste = weightedWaste(kept)
	case !literalRoW:
		waste = weightedWaste(append(slices.Clone(kept), folded...))
	default:
		waste = weightedWaste(folded)
	}

	out[RestOfWorld] = OriginShare{Share: max(0, 1-keptShare), Waste: waste}
	return out
}

// weightedWaste is the share-weighted mean waste, or 0 when no share exists.
func weightedWaste(origins []OriginShare) float64 {
	var shares, weighted float64
	for _, o := range origins {
		shares += o.Share
		weighted += o.Share * o.Waste
	}
	if shares == 0 {
		return 0
	}
	return weighted / shares
}
