package workload

import (
	"context"

	"github.com/threadstone/threadstone/clock"
	"github.com/threadstone/threadstone/dhry"
)

// VAX11780Dhrystones is the Dhrystones per second of the VAX 11/780, the
// 1 MIPS reference machine used to express results in DMIPS.
const VAX11780Dhrystones = 1757

// Dhrystone samples the Dhrystone 2.1 integer benchmark. Each Sample runs
// dhry.Iterations() passes on a private state, so samples may overlap.
type Dhrystone struct {
	run func(int) int
}

// NewDhrystone returns the Dhrystone workload.
func NewDhrystone() *Dhrystone {
	return &Dhrystone{run: dhry.Run}
}

func (*Dhrystone) Name() string { return "dhrystone" }

func (*Dhrystone) Unit() string { return "dhrystones/s" }

func (*Dhrystone) IterationsPerSample() int { return dhry.Iterations() }

func (*Dhrystone) WorkingSetBytes() uint64 { return 0 }

// Sample times one dhry.Run call and reports Dhrystones per second.
func (d *Dhrystone) Sample(ctx context.Context) (Sample, error) {
	if err := ctx.Err(); err != nil {
		return Sample{}, err
	}

	start := clock.Nanos()
	performed := d.run(0)
	elapsed := clock.Since(start)

	return Sample{
		Value:      rate(float64(performed), elapsed),
		Iterations: performed,
		Elapsed:    elapsed,
	}, nil
}

// DMIPS converts a Dhrystones-per-second rate to VAX MIPS.
func DMIPS(dhrystonesPerSecond float64) float64 {
	return dhrystonesPerSecond / VAX11780Dhrystones
}
