// Package engine is the boundary to the external physics engine: it hands a
// composed script to an engine process and reports the exit contract (zero
// exit code plus presence of every declared output file means success).
package engine

import (
	"context"
	"fmt"
	"strings"
)

// RunSpec names one script execution: where to run, which script to feed
// the engine, and which output files the script declares.
type RunSpec struct {
	Dir             string
	Script          string
	ExpectedOutputs []string
}

// Runner executes one engine run. Implementations must be safe to cancel at
// any point via the context and must never touch sibling replicas' state.
type Runner interface {
	Run(ctx context.Context, rs RunSpec) error
}

// Failure reports an engine run that broke the exit contract. Partial
// output files are preserved for diagnosis, never deleted.
type Failure struct {
	Script   string
	ExitCode int
	Missing  []string // declared outputs absent after the run
	Err      error
}

func (f *Failure) Error() string {
	if len(f.Missing) > 0 {
		return fmt.Sprintf("engine run %s: missing expected outputs: %s",
			f.Script, strings.Join(f.Missing, ", "))
	}
	return fmt.Sprintf("engine run %s: exit code %d: %v", f.Script, f.ExitCode, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }
