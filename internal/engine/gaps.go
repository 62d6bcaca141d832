package engine

import (
	"context"
	"fmt"

	"github.com/rshade/foodprint/internal/logging"
)

// GapKind classifies a soft data gap.
type GapKind string

// Gap kinds.
const (
	GapMissingWaste           GapKind = "missing_waste_category"
	GapMissingFootprint       GapKind = "missing_footprint"
	GapMissingOriginWaste     GapKind = "missing_origin_waste"
	GapOriginFallback         GapKind = "origin_footprint_fallback"
	GapMissingOriginFootprint GapKind = "missing_origin_footprint"
	GapMissingTransportFactor GapKind = "missing_transport_factor"
	GapMissingProcessFactor   GapKind = "missing_process_factor"
	GapMissingPackagingFactor GapKind = "missing_packaging_factor"
)

// Gap is a piece of reference data that was missing during a computation.
// The computation continued with a fallback or without the affected term.
type Gap struct {
	Kind GapKind `json:"kind"`
	// Code is the food or RPC code concerned.
	Code string `json:"code"`
	// Origin is set for origin-level gaps.
	Origin string `json:"origin,omitempty"`
	// Ancestor and Facet are set for process and packaging gaps.
	Ancestor string `json:"ancestor,omitempty"`
	Facet    string `json:"facet,omitempty"`
}

func (g Gap) String() string {
	switch {
	case g.Facet != "":
		return fmt.Sprintf("%s: %s (facet %s under %s)", g.Kind, g.Code, g.Facet, g.Ancestor)
	case g.Origin != "":
		return fmt.Sprintf("%s: %s (origin %s)", g.Kind, g.Code, g.Origin)
	default:
		return fmt.Sprintf("%s: %s", g.Kind, g.Code)
	}
}

// dedupeGaps drops repeated gaps, keeping first-seen order.
func dedupeGaps(gaps []Gap) []Gap {
	if len(gaps) == 0 {
		return nil
	}
	seen := make(map[Gap]bool, len(gaps))
	out := make([]Gap, 0, len(gaps))
	for _, g := range gaps {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out
}

func logGaps(ctx context.Context, operation string, gaps []Gap) {
	log := logging.FromContext(ctx)
	for _, g := range gaps {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", operation).
			Str("gap_kind", string(g.Kind)).
			Str("code", g.Code).
			Str("origin", g.Origin).
			Str("facet", g.Facet).
			Msg("missing reference data")
	}
}
