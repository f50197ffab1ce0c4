// Package dhry drives the Dhrystone 2.1 loop body a fixed number of times.
package dhry

import (
	"fmt"
	"strconv"
)

// DefaultIterations is the loop count used when no link-time override is
// supplied.
const DefaultIterations = 1_000_000

// buildIterations may be set with
//
//	-ldflags "-X github.com/threadstone/threadstone/dhry.buildIterations=500000"
var buildIterations string

var iterations = mustParseIterations(buildIterations)

func mustParseIterations(s string) int {
	if s == "" {
		return DefaultIterations
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		panic(fmt.Sprintf("dhry: invalid build iteration count %q", s))
	}

	return n
}

// Iterations returns the number of loop-body passes Run performs.
func Iterations() int {
	return iterations
}

// Runner calls a loop body a fixed number of times.
type Runner struct {
	body func()
	n    int
}

// NewRunner returns a Runner that calls body n times per Run.
func NewRunner(body func(), n int) *Runner {
	return &Runner{body: body, n: n}
}

// Run calls the body n times and returns n. The argument is not consulted.
func (r *Runner) Run(_ int) int {
	for i := 0; i < r.n; i++ {
		r.body()
	}

	return r.n
}

// Run executes Iterations() passes of the Dhrystone loop body on a fresh
// state and returns the number of passes. The argument is not consulted.
func Run(ignored int) int {
	s := NewState()

	return NewRunner(s.Proc0, iterations).Run(ignored)
}
