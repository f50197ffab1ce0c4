package workload

import (
	"context"
	"fmt"
	"sync"

	"github.com/threadstone/threadstone/clock"
)

const (
	// DefaultStreamSize is the element count of each triad array.
	DefaultStreamSize = 10_000_000
	// DefaultStreamIterations is the number of triad passes per sample.
	DefaultStreamIterations = 10

	streamScalar = 3.0
	float64Size  = 8
)

// Stream samples memory bandwidth with the STREAM triad
// a[i] = b[i] + 3.0*c[i]. The read-only b and c arrays are shared by all
// samples; each concurrent sample adds only its own a array.
type Stream struct {
	size       int
	iterations int

	once sync.Once
	b, c []float64
}

// NewStream returns a STREAM triad workload over arrays of size elements,
// making iterations passes per sample.
func NewStream(size, iterations int) (*Stream, error) {
	if size < 1 {
		return nil, fmt.Errorf("stream size must be positive, got %d", size)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("stream iterations must be positive, got %d", iterations)
	}

	return &Stream{size: size, iterations: iterations}, nil
}

func (*Stream) Name() string { return "stream" }

func (*Stream) Unit() string { return "MB/s" }

func (s *Stream) IterationsPerSample() int { return s.iterations }

// WorkingSetBytes is the combined size of the three triad arrays.
func (s *Stream) WorkingSetBytes() uint64 {
	return uint64(s.size) * float64Size * 3
}

// inputs returns the shared b and c arrays, filling them on first use.
func (s *Stream) inputs() (b, c []float64) {
	s.once.Do(func() {
		s.b = make([]float64, s.size)
		s.c = make([]float64, s.size)

		for i := range s.b {
			s.b[i] = 1.0
			s.c[i] = 2.0
		}
	})

	return s.b, s.c
}

// Sample allocates a fresh output array, times the triad passes and reports
// MB/s. Context cancellation is observed between passes.
func (s *Stream) Sample(ctx context.Context) (Sample, error) {
	b, c := s.inputs()
	a := make([]float64, s.size)

	start := clock.Nanos()

	for pass := 0; pass < s.iterations; pass++ {
		if err := ctx.Err(); err != nil {
			return Sample{}, err
		}

		triad(a, b, c)
	}

	elapsed := clock.Since(start)

	// Each element reads b and c and writes a.
	bytesMoved := float64(s.WorkingSetBytes()) * float64(s.iterations)

	return Sample{
		Value:      rate(bytesMoved, elapsed) / 1e6,
		Iterations: s.iterations,
		Elapsed:    elapsed,
	}, nil
}

func triad(a, b, c []float64) {
	b = b[:len(a)]
	c = c[:len(a)]

	for i := range a {
		a[i] = b[i] + streamScalar*c[i]
	}
}
