// Package workload defines the CPU and memory workloads threadstone can
// sample. Each workload produces one rate measurement per Sample call.
package workload

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// ErrUnknownWorkload is returned by New for names not in the registry.
var ErrUnknownWorkload = errors.New("unknown workload")

// Sample is a single timed measurement.
type Sample struct {
	Value      float64
	Iterations int
	Elapsed    time.Duration
}

// Workload is a benchmark that can be sampled repeatedly and concurrently.
type Workload interface {
	Name() string
	Unit() string
	// IterationsPerSample is the amount of work one Sample performs.
	IterationsPerSample() int
	// WorkingSetBytes is the memory one Sample touches, or 0 if negligible.
	WorkingSetBytes() uint64
	Sample(ctx context.Context) (Sample, error)
}

// Options holds per-workload tuning.
type Options struct {
	StreamSize       int
	StreamIterations int
}

// DefaultOptions returns the tuning used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		StreamSize:       DefaultStreamSize,
		StreamIterations: DefaultStreamIterations,
	}
}

var registry = map[string]func(Options) (Workload, error){
	"dhrystone": func(Options) (Workload, error) {
		return NewDhrystone(), nil
	},
	"stream": func(opts Options) (Workload, error) {
		return NewStream(opts.StreamSize, opts.StreamIterations)
	},
}

// Names returns the registered workload names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// New builds the named workload.
func New(name string, opts Options) (Workload, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %v)", ErrUnknownWorkload, name, Names())
	}

	return ctor(opts)
}

func rate(units float64, elapsed time.Duration) float64 {
	return units / elapsed.Seconds()
}
