package engine

import (
	"fmt"
	"maps"
	"slices"
)

// TransportFactors maps an origin country to the per-kg transport GHG vector
// (CO2, CH4 fossil, N2O) for delivery to the computing country.
type TransportFactors map[string][]float64

// TransportCalculator computes transport emissions from aggregated origins.
type TransportCalculator struct {
	Origins OriginWasteTable
	Factors TransportFactors
	// Country is the computing country, used when only RestOfWorld is known.
	Country string
}

// Emissions returns the transport GHG vector for amount of RPC code.
//
// When RestOfWorld is the only origin the computing country's own factor is
// used. Otherwise the RestOfWorld share is spread over the named origins by
// 1/(1-RoWShare) and their factors are summed. Origins without a factor are
// skipped and reported. The vector is nil when code is the sentinel, has no
// origins, or no origin could be costed.
func (c TransportCalculator) Emissions(code string, amount float64) ([]float64, []Gap, error) {
	if code == "" || code == SentinelCode {
		return nil, nil, nil
	}
	byOrigin, ok := c.Origins[code]
	if !ok || len(byOrigin) == 0 {
		return nil, []Gap{{Kind: GapMissingOriginWaste, Code: code}}, nil
	}

	rowShare := byOrigin[RestOfWorld].Share
	var named []string
	for _, origin := range slices.Sorted(maps.Keys(byOrigin)) {
		if origin != RestOfWorld {
			named = append(named, origin)
		}
	}

	if len(named) == 0 || rowShare >= 1 {
		f, found := c.Factors[c.Country]
		if !found {
			return nil, []Gap{{Kind: GapMissingTransportFactor, Code: code, Origin: c.Country}}, nil
		}
		return scaled(f, amount), nil, nil
	}

	multiplier := 1 / (1 - rowShare)
	var (
		acc  []float64
		gaps []Gap
		err  error
	)
	for _, origin := range named {
		share := byOrigin[origin].Share
		if share == 0 {
			continue
		}
		f, found := c.Factors[origin]
		if !found {
			gaps = append(gaps, Gap{Kind: GapMissingTransportFactor, Code: code, Origin: origin})
			continue
		}
		if acc, err = accumulate(acc, amount*share*multiplier, f); err != nil {
			return nil, nil, fmt.Errorf("transport factor %s for %s: %w", origin, code, err)
		}
	}
	return acc, gaps, nil
}
