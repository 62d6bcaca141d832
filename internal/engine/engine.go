package engine

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/rshade/foodprint/internal/logging"
)

// Settings are the scalar parameters of an Engine.
type Settings struct {
	// Country is the computing country: it selects the electricity factor
	// and the transport factor of RestOfWorld-only RPCs.
	Country string
	// RowThreshold is the share below which a data-less origin is folded
	// into RestOfWorld.
	RowThreshold float64
	// PackagingFacetPrefix marks recipe facets that are packaging codes.
	PackagingFacetPrefix string
	// TransportExempt lists RPCs that are never transported, such as tap
	// water.
	TransportExempt []string
}

// DefaultSettings returns the standard settings for country.
func DefaultSettings(country string) Settings {
	return Settings{
		Country:              country,
		RowThreshold:         DefaultRowThreshold,
		PackagingFacetPrefix: DefaultPackagingFacetPrefix,
	}
}

// Options tune a single computation.
type Options struct {
	// WithWaste inflates consumed amounts by retail and consumer waste.
	WithWaste bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{WithWaste: true}
}

// Builder collects reference tables for an Engine. Setters replace the
// previous table and may be called any number of times; derived tables are
// computed by Build.
type Builder struct {
	settings   Settings
	recipes    RecipeTable
	waste      WasteTable
	origins    OriginWasteTable
	footprints FootprintTable
	energy     ProcessEnergyTable
	carriers   *CarrierFactors
	packaging  PackagingFactors
	transport  TransportFactors
}

// NewBuilder returns a Builder with the given settings and no tables.
func NewBuilder(settings Settings) *Builder {
	return &Builder{settings: settings}
}

// SetSettings replaces the engine settings.
func (b *Builder) SetSettings(s Settings) *Builder {
	b.settings = s
	return b
}

// SetRecipes sets the recipe table.
func (b *Builder) SetRecipes(t RecipeTable) *Builder {
	b.recipes = t
	return b
}

// SetWaste sets the retail and consumer waste table.
func (b *Builder) SetWaste(t WasteTable) *Builder {
	b.waste = t
	return b
}

// SetOrigins sets the raw origin-waste table.
func (b *Builder) SetOrigins(t OriginWasteTable) *Builder {
	b.origins = t
	return b
}

// SetFootprints sets the footprint-by-origin table.
func (b *Builder) SetFootprints(t FootprintTable) *Builder {
	b.footprints = t
	return b
}

// SetProcessEnergy sets the process energy-demand table.
func (b *Builder) SetProcessEnergy(t ProcessEnergyTable) *Builder {
	b.energy = t
	return b
}

// SetCarriers sets the energy-carrier GHG factors.
func (b *Builder) SetCarriers(c CarrierFactors) *Builder {
	b.carriers = &c
	return b
}

// SetPackaging sets the packaging GHG factors.
func (b *Builder) SetPackaging(t PackagingFactors) *Builder {
	b.packaging = t
	return b
}

// SetTransport sets the transport GHG factors.
func (b *Builder) SetTransport(t TransportFactors) *Builder {
	b.transport = t
	return b
}

func (b *Builder) checkTables() error {
	missing := []struct {
		name  string
		unset bool
	}{
		{"recipes", b.recipes == nil},
		{"waste", b.waste == nil},
		{"origins", b.origins == nil},
		{"footprints", b.footprints == nil},
		{"process energy", b.energy == nil},
		{"carriers", b.carriers == nil},
		{"packaging", b.packaging == nil},
		{"transport", b.transport == nil},
	}
	for _, m := range missing {
		if m.unset {
			return fmt.Errorf("%w: %s", ErrMissingTable, m.name)
		}
	}
	return nil
}

// Build validates the tables and derives the RestOfWorld-aggregated origins,
// flattened RPC footprints and per-process emission factors. The returned
// Engine does not share mutable state with b.
func (b *Builder) Build(ctx context.Context) (*Engine, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if err := b.checkTables(); err != nil {
		return nil, err
	}
	if err := b.recipes.Validate(); err != nil {
		return nil, err
	}
	if err := b.waste.validate(); err != nil {
		return nil, err
	}
	if err := b.origins.validate(); err != nil {
		return nil, err
	}
	if err := checkVectors("packaging", b.packaging, 2, NumPackagingGHG); err != nil {
		return nil, err
	}
	if err := checkVectors("transport", b.transport, NumGHG, NumGHG); err != nil {
		return nil, err
	}

	aggregated := AggregateOrigins(b.origins, b.footprints, b.settings.RowThreshold)
	flattened, footprintGaps, err := FlattenFootprints(b.footprints, aggregated)
	if err != nil {
		return nil, err
	}
	processFactors, err := ComputeProcessFactors(b.energy, *b.carriers, b.settings.Country)
	if err != nil {
		return nil, err
	}

	exempt := make(map[string]bool, len(b.settings.TransportExempt))
	for _, code := range b.settings.TransportExempt {
		exempt[code] = true
	}

	e := &Engine{
		settings:       b.settings,
		recipes:        maps.Clone(b.recipes),
		waste:          maps.Clone(b.waste),
		origins:        aggregated,
		flattened:      flattened,
		footprintGaps:  footprintGaps,
		processFactors: processFactors,
		packaging:      maps.Clone(b.packaging),
		transport: TransportCalculator{
			Origins: aggregated,
			Factors: maps.Clone(b.transport),
			Country: b.settings.Country,
		},
		exempt: exempt,
	}
	e.settings.TransportExempt = slices.Clone(b.settings.TransportExempt)

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "build").
		Str("country", b.settings.Country).
		Int("recipes", len(b.recipes)).
		Int("rpcs", len(flattened)).
		Int("processes", len(processFactors)).
		Int("origin_fallbacks", len(footprintGaps)).
		Dur("duration_ms", time.Since(start)).
		Msg("engine built")
	return e, nil
}

func checkVectors(name string, m map[string][]float64, minLen, maxLen int) error {
	for _, code := range slices.Sorted(maps.Keys(m)) {
		if n := len(m[code]); n < minLen || n > maxLen {
			return fmt.Errorf("%w: %s factor %s has %d values, want %d..%d",
				ErrVectorLength, name, code, n, minLen, maxLen)
		}
	}
	return nil
}

// Engine computes diet footprints from validated reference tables. It is
// immutable and safe for concurrent use. The zero value returns
// ErrNotConfigured; use Builder.Build.
type Engine struct {
	settings       Settings
	recipes        RecipeTable
	waste          WasteTable
	origins        OriginWasteTable
	flattened      FlattenedFootprints
	footprintGaps  map[string][]Gap
	processFactors ProcessFactors
	packaging      PackagingFactors
	transport      TransportCalculator
	exempt         map[string]bool
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() Settings {
	s := e.settings
	s.TransportExempt = slices.Clone(s.TransportExempt)
	return s
}

// Footprint returns a copy of the flattened per-kg footprint of rpc.
func (e *Engine) Footprint(rpc string) ([]float64, bool) {
	v, ok := e.flattened[rpc]
	return slices.Clone(v), ok
}

// Origins returns a copy of the RestOfWorld-aggregated origins of rpc.
func (e *Engine) Origins(rpc string) (map[string]OriginShare, bool) {
	v, ok := e.origins[rpc]
	return maps.Clone(v), ok
}

func (e *Engine) configured() bool {
	return e != nil && e.recipes != nil
}

// ComputeImpacts computes the footprint of every diet item and the diet
// total. Missing reference data is reported in the result's Gaps and logged;
// only invalid input and recipe errors fail the call.
func (e *Engine) ComputeImpacts(ctx context.Context, diet Diet, opts Options) (*Impacts, error) {
	if !e.configured() {
		return nil, ErrNotConfigured
	}
	if err := diet.Validate(); err != nil {
		return nil, err
	}

	runID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, runID)
	log := logging.FromContext(ctx)
	start := time.Now()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "compute_impacts").
		Int("item_count", len(diet)).
		Bool("with_waste", opts.WithWaste).
		Msg("starting impact computation")

	result := &Impacts{RunID: runID, Items: make([]ItemResult, 0, len(diet))}
	rows := make([][]float64, 0, len(diet))
	var gaps []Gap
	for _, item := range diet {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := e.computeItem(item, opts)
		if err != nil {
			return nil, fmt.Errorf("computing %s: %w", item.Code, err)
		}
		result.Items = append(result.Items, res)
		rows = append(rows, res.Row)
		gaps = append(gaps, res.Gaps...)
	}

	total, err := SumRows(rows...)
	if err != nil {
		return nil, err
	}
	result.Total = total
	result.Gaps = dedupeGaps(gaps)
	logGaps(ctx, "compute_impacts", result.Gaps)

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "compute_impacts").
		Int("item_count", len(diet)).
		Int("gap_count", len(result.Gaps)).
		Float64("total_co2e", total[ColTotalCO2e]).
		Dur("duration_ms", time.Since(start)).
		Msg("impact computation complete")
	return result, nil
}

func (e *Engine) computeItem(item DietItem, opts Options) (ItemResult, error) {
	res := ItemResult{Code: item.Code, Amount: item.Amount, GrossAmount: item.Amount, Impacts: newItemImpacts()}
	if item.Code == "" || item.Code == SentinelCode {
		res.Row = make([]float64, ResultWidth)
		return res, nil
	}

	var gaps []Gap
	if opts.WithWaste {
		adjusted, wasteGaps := AdjustForWaste(Diet{item}, e.waste)
		res.GrossAmount = adjusted[0].Amount
		gaps = append(gaps, wasteGaps...)
	}

	reduction, err := e.recipes.Reduce(item.Code, res.GrossAmount)
	if err != nil {
		return res, err
	}

	for _, rpc := range reduction.RPCs {
		kg := rpc.Amount / gramsPerKg
		if fp, ok := e.flattened[rpc.Code]; ok {
			res.Impacts.RPC[rpc.Code] = scaled(fp, kg)
			gaps = append(gaps, e.footprintGaps[rpc.Code]...)
		} else {
			res.Impacts.RPC[rpc.Code] = nil
			gaps = append(gaps, Gap{Kind: GapMissingFootprint, Code: rpc.Code})
			gaps = append(gaps, e.footprintGaps[rpc.Code]...)
		}

		if e.exempt[rpc.Code] {
			continue
		}
		v, transportGaps, err := e.transport.Emissions(rpc.Code, kg)
		if err != nil {
			return res, err
		}
		res.Impacts.Transport[rpc.Code] = v
		gaps = append(gaps, transportGaps...)
	}

	for _, ancestor := range slices.Sorted(maps.Keys(reduction.Facets)) {
		facets := reduction.Facets[ancestor]
		for _, facet := range slices.Sorted(maps.Keys(facets)) {
			grams := facets[facet]
			if isPackagingFacet(facet, e.settings.PackagingFacetPrefix) {
				v, ok := e.packaging.Emissions(facet, grams)
				setNested(res.Impacts.Packaging, ancestor, facet, v)
				if !ok {
					gaps = append(gaps, Gap{Kind: GapMissingPackagingFactor, Code: item.Code, Ancestor: ancestor, Facet: facet})
				}
				continue
			}
			v, ok := e.processFactors.Emissions(facet, grams)
			setNested(res.Impacts.Process, ancestor, facet, v)
			if !ok {
				gaps = append(gaps, Gap{Kind: GapMissingProcessFactor, Code: item.Code, Ancestor: ancestor, Facet: facet})
			}
		}
	}

	res.Row, err = AggregateImpacts(res.Impacts)
	if err != nil {
		return res, err
	}
	res.Gaps = dedupeGaps(gaps)
	return res, nil
}

// ReduceDiet runs the waste and recipe stages over a whole diet and returns
// the merged RPC and facet masses in grams.
func (e *Engine) ReduceDiet(ctx context.Context, diet Diet, opts Options) (*DietReduction, error) {
	if !e.configured() {
		return nil, ErrNotConfigured
	}
	if err := diet.Validate(); err != nil {
		return nil, err
	}

	foods := make(Diet, 0, len(diet))
	for _, item := range diet {
		if item.Code != "" && item.Code != SentinelCode {
			foods = append(foods, item)
		}
	}

	var gaps []Gap
	if opts.WithWaste {
		foods, gaps = AdjustForWaste(foods, e.waste)
	}

	merged := newReduction()
	for _, item := range foods {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := e.recipes.Reduce(item.Code, item.Amount)
		if err != nil {
			return nil, fmt.Errorf("reducing %s: %w", item.Code, err)
		}
		merged.Merge(r)
	}

	out := &DietReduction{
		RPCAmounts:       merged.RPCs,
		ProcessAmounts:   make(FacetAmounts),
		PackagingAmounts: make(FacetAmounts),
		Gaps:             dedupeGaps(gaps),
	}
	for ancestor, facets := range merged.Facets {
		for facet, grams := range facets {
			if isPackagingFacet(facet, e.settings.PackagingFacetPrefix) {
				out.PackagingAmounts.add(ancestor, facet, grams)
			} else {
				out.ProcessAmounts.add(ancestor, facet, grams)
			}
		}
	}
	for _, rpc := range merged.RPCs {
		if e.exempt[rpc.Code] {
			out.TransportlessAmounts = append(out.TransportlessAmounts, rpc)
		}
	}

	logGaps(ctx, "reduce_diet", out.Gaps)
	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "reduce_diet").
		Int("item_count", len(diet)).
		Int("rpc_count", len(out.RPCAmounts)).
		Msg("diet reduced")
	return out, nil
}
