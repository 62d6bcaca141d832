// Package batch computes the footprints of many diets against one engine.
//
// Jobs run concurrently up to a configurable limit. A failing job does not
// stop the others: its error is kept on its Result. Only context
// cancellation aborts the run. Progress is tracked per job and reported
// through an optional callback.
package batch
