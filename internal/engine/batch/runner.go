package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/foodprint/internal/engine"
	"github.com/rshade/foodprint/internal/logging"
)

// Concurrency limits.
const (
	// DefaultConcurrency is the number of diets computed at once by default.
	DefaultConcurrency = 4

	// MinConcurrency is the minimum allowed concurrency.
	MinConcurrency = 1

	// MaxConcurrency is the maximum allowed concurrency.
	MaxConcurrency = 64
)

// Common batch errors.
var (
	ErrInvalidConcurrency = errors.New("concurrency must be between 1 and 64")
	ErrNilComputer        = errors.New("batch computer cannot be nil")
	ErrEmptyJobs          = errors.New("jobs slice cannot be empty")
)

// Computer computes the impacts of one diet. *engine.Engine implements it.
type Computer interface {
	ComputeImpacts(ctx context.Context, diet engine.Diet, opts engine.Options) (*engine.Impacts, error)
}

// Job is one named diet to compute.
type Job struct {
	Name string
	Diet engine.Diet
}

// Result is the outcome of one Job. Exactly one of Impacts and Err is set.
type Result struct {
	Name    string
	Impacts *engine.Impacts
	Err     error
}

// ProgressCallback is invoked after each job finishes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Runner computes jobs concurrently against a shared Computer.
type Runner struct {
	computer    Computer
	concurrency int
	onProgress  ProgressCallback
}

// NewRunner creates a runner computing at most concurrency jobs at once.
func NewRunner(computer Computer, concurrency int) (*Runner, error) {
	if computer == nil {
		return nil, ErrNilComputer
	}
	if concurrency < MinConcurrency || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	return &Runner{computer: computer, concurrency: concurrency}, nil
}

// WithProgressCallback sets a progress callback for the runner.
func (r *Runner) WithProgressCallback(callback ProgressCallback) *Runner {
	r.onProgress = callback
	return r
}

// Concurrency returns the configured concurrency limit.
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// Run computes every job and returns results in job order. Each job runs
// under its own trace ID. Run fails only when ctx is done.
func (r *Runner) Run(ctx context.Context, jobs []Job, opts engine.Options) ([]Result, error) {
	if len(jobs) == 0 {
		return nil, ErrEmptyJobs
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	progress := NewProgress(len(jobs))
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			jobCtx := logging.ContextWithTraceID(gctx, logging.NewTraceID())
			impacts, err := r.computer.ComputeImpacts(jobCtx, job.Diet, opts)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}

			results[i] = Result{Name: job.Name, Impacts: impacts, Err: err}
			if err != nil {
				log.Warn().
					Ctx(ctx).
					Str("component", "batch").
					Str("operation", "run").
					Str("job", job.Name).
					Err(err).
					Msg("diet computation failed")
			}
			progress.Add(err == nil)
			if r.onProgress != nil {
				r.onProgress(progress.Snapshot())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := progress.Snapshot()
	log.Info().
		Ctx(ctx).
		Str("component", "batch").
		Str("operation", "run").
		Int("jobs", snap.Total).
		Int("failed", snap.Failed).
		Int("concurrency", r.concurrency).
		Dur("duration_ms", time.Since(start)).
		Msg("batch complete")
	return results, nil
}

// Total sums the diet totals of all successful results.
func Total(results []Result) ([]float64, error) {
	rows := make([][]float64, 0, len(results))
	for _, r := range results {
		if r.Err == nil && r.Impacts != nil {
			rows = append(rows, r.Impacts.Total)
		}
	}
	return engine.SumRows(rows...)
}
