// Package engine computes the environmental footprint of a diet.
//
// A diet is a list of food codes with daily gram amounts. Each food is
// inflated to its pre-waste mass, decomposed through the recipe table into
// raw primary commodities (RPCs), and costed four ways: raw-material
// footprint per RPC (origin and production-waste weighted), processing
// energy per recipe facet, packaging per packaging facet, and transport per
// RPC origin. The per-item vectors are folded into the fixed 33-column result
// row described by ResultHeader.
//
// Reference tables are handed to a Builder; Build validates them, derives
// the Rest-of-World aggregated origin table, the flattened per-kg RPC
// footprints and the per-process emission factors, and returns an Engine
// that is never mutated afterwards. One Engine may serve concurrent
// ComputeImpacts calls.
//
// Missing data never aborts a computation: it is returned as Gaps alongside
// the partial result and logged at warn level. Configuration errors (recipe
// cycles, missing electricity factors, unset tables) are returned as errors.
package engine
