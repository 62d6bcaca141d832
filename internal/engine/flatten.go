package engine

import (
	"fmt"
	"maps"
	"slices"
)

// FootprintTable maps RPC code to origin code to a per-kg footprint vector
// of NumIndicators values.
type FootprintTable map[string]map[string][]float64

// FlattenedFootprints maps RPC code to its origin-weighted per-kg footprint.
type FlattenedFootprints map[string][]float64

// FlattenFootprints combines per-origin footprints with aggregated origin
// shares and production waste:
//
//	fp[rpc] = Σ footprint[origin] * share / (1 - waste)
//
// An origin without its own footprint uses the RestOfWorld footprint and is
// reported as GapOriginFallback; without either it is skipped and reported
// as GapMissingOriginFootprint. RPCs absent from either table, and RPCs whose
// every supplying origin was skipped, are omitted. An RPC whose shares are all
// zero flattens to a zero vector. Returned gaps are keyed by RPC code.
func FlattenFootprints(footprints FootprintTable, origins OriginWasteTable) (FlattenedFootprints, map[string][]Gap, error) {
	out := make(FlattenedFootprints, len(footprints))
	gaps := make(map[string][]Gap)

	for _, rpc := range slices.Sorted(maps.Keys(footprints)) {
		byOrigin, ok := origins[rpc]
		if !ok {
			continue
		}
		fp, rpcGaps, err := flattenRPC(rpc, footprints[rpc], byOrigin)
		if err != nil {
			return nil, nil, err
		}
		if len(rpcGaps) > 0 {
			gaps[rpc] = rpcGaps
		}
		if fp == nil {
			if len(rpcGaps) > 0 {
				continue
			}
			fp = make([]float64, NumIndicators)
		}
		out[rpc] = fp
	}
	return out, gaps, nil
}

func flattenRPC(rpc string, vectors map[string][]float64, byOrigin map[string]OriginShare) ([]float64, []Gap, error) {
	var (
		acc  []float64
		gaps []Gap
		err  error
	)
	for _, origin := range slices.Sorted(maps.Keys(byOrigin)) {
		o := byOrigin[origin]
		if o.Share == 0 {
			continue
		}
		v, ok := vectors[origin]
		if !ok {
			v, ok = vectors[RestOfWorld]
			if !ok {
				gaps = append(gaps, Gap{Kind: GapMissingOriginFootprint, Code: rpc, Origin: origin})
				continue
			}
			gaps = append(gaps, Gap{Kind: GapOriginFallback, Code: rpc, Origin: origin})
		}
		if len(v) != NumIndicators {
			return nil, nil, fmt.Errorf("%w: footprint %s/%s has %d values, want %d",
				ErrVectorLength, rpc, origin, len(v), NumIndicators)
		}
		acc, err = accumulate(acc, o.Share/(1-o.Waste), v)
		if err != nil {
			return nil, nil, err
		}
	}
	return acc, gaps, nil
}
