package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/threadstone/threadstone/clock"
	"github.com/threadstone/threadstone/workload"
)

// ErrNoSamples is returned when a run is configured with fewer than one
// sample.
var ErrNoSamples = errors.New("at least one sample is required")

// RunConfig holds parameters for a single benchmark run.
type RunConfig struct {
	// Threads bounds the number of samples in flight. 0 means one per
	// logical CPU.
	Threads int
	Samples int
	Timeout time.Duration
}

// EffectiveThreads resolves the 0 = all logical CPUs convention.
func (c RunConfig) EffectiveThreads() int {
	if c.Threads <= 0 {
		return runtime.NumCPU()
	}

	return c.Threads
}

// Runner samples one workload.
type Runner struct {
	Workload workload.Workload
	Logger   *slog.Logger
}

// NewRunner creates a Runner for w.
func NewRunner(w workload.Workload, logger *slog.Logger) *Runner {
	return &Runner{
		Workload: w,
		Logger:   logger.With(slog.String("workload", w.Name())),
	}
}

// Run collects cfg.Samples samples on at most EffectiveThreads goroutines
// and summarises them. Values are reported in sample order. The first
// failing sample cancels the rest.
func (r *Runner) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if cfg.Samples < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoSamples, cfg.Samples)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	threads := cfg.EffectiveThreads()

	r.Logger.InfoContext(ctx, "starting run",
		slog.Int("threads", threads),
		slog.Int("samples", cfg.Samples),
		slog.Int("iterations_per_sample", r.Workload.IterationsPerSample()),
	)

	values := make([]float64, cfg.Samples)
	elapsed := make([]int64, cfg.Samples)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	wallStart := clock.Nanos()

	for i := 0; i < cfg.Samples; i++ {
		g.Go(func() error {
			sample, err := r.Workload.Sample(gctx)
			if err != nil {
				return fmt.Errorf("sample %d: %w", i, err)
			}

			if math.IsInf(sample.Value, 0) || math.IsNaN(sample.Value) {
				return fmt.Errorf("sample %d: non-finite rate %v over %s",
					i, sample.Value, sample.Elapsed)
			}

			values[i] = sample.Value
			elapsed[i] = sample.Elapsed.Milliseconds()

			r.Logger.DebugContext(gctx, "sample finished",
				slog.Int("sample", i),
				slog.Float64("value", sample.Value),
				slog.Duration("elapsed", sample.Elapsed),
			)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run %s: %w", r.Workload.Name(), err)
	}

	result := &Result{
		ID:                  uuid.NewString(),
		Workload:            r.Workload.Name(),
		Unit:                r.Workload.Unit(),
		Threads:             threads,
		Samples:             cfg.Samples,
		IterationsPerSample: r.Workload.IterationsPerSample(),
		Values:              values,
		SampleElapsedMs:     elapsed,
		WorkingSetBytes:     r.Workload.WorkingSetBytes(),
		Host:                CurrentHost(),
		CreatedAt:           time.Now().UTC(),
	}
	result.Average, result.Min, result.Max = summarize(values)

	r.Logger.InfoContext(ctx, "run finished",
		slog.Duration("wall_time", clock.Since(wallStart)),
		slog.Float64("average", result.Average),
		slog.String("unit", result.Unit),
	)

	return result, nil
}

func summarize(values []float64) (avg, lo, hi float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}

	lo, hi = values[0], values[0]

	var sum float64
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	return sum / float64(len(values)), lo, hi
}
