package substage

import (
	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// ensembleParams are the knobs shared by every constrained-dynamics block.
type ensembleParams struct {
	setTimestep int
	nreset      int
	nevery      int
	nrepeat     int
	nfreq       int
	ndump       int
	timestep    float64
	nrun        int
}

func decodeEnsemble(d *spec.Decoder) ensembleParams {
	ep := ensembleParams{
		setTimestep: d.Int("set_timestep", 0),
		nreset:      d.Int("nreset", 1000),
		nevery:      d.Int("nevery", 1),
		nrepeat:     d.Int("nrepeat", 999),
		nfreq:       d.Int("nfreq", 1000),
		ndump:       d.Int("ndump", 1000),
		timestep:    d.Float("timestep", 1.0),
		nrun:        d.Int("nrun", 100000),
	}
	d.NonNegative("set_timestep", ep.setTimestep)
	d.NonNegative("nrun", ep.nrun)
	d.Positive("timestep", ep.timestep)
	return ep
}

// checkDynamicsReferences validates that every declared variable the log and
// sample column lists depend on exists in this compilation context.
func checkDynamicsReferences(ctx *compile.Context) error {
	for _, name := range referencedVariables(thermoProperties) {
		if err := ctx.ReferenceVariable(name); err != nil {
			return err
		}
	}
	for _, name := range referencedVariables(sampleProperties) {
		if err := ctx.ReferenceVariable(name); err != nil {
			return err
		}
	}
	return nil
}

// openSampling opens the periodic time-averaging modifier writing the
// substage's sample file and returns its handle ID.
func openSampling(ctx *compile.Context, ep ensembleParams, samplesFile string) string {
	id := ctx.Open(compile.Modifier)
	args := []script.Arg{
		script.Str(id), script.Str("all"), script.Str("ave/time"),
		script.Int(ep.nevery), script.Int(ep.nrepeat), script.Int(ep.nfreq),
		script.Tokens(sampleProperties...),
	}
	args = append(args, script.Tokens("file", samplesFile))
	ctx.Em.Emit("fix", args...)
	return id
}

// openTrajectory opens the substage's per-atom trajectory writer.
func openTrajectory(ctx *compile.Context, ep ensembleParams, trajectory string) string {
	id := ctx.Open(compile.Writer)
	ctx.Em.Emit("dump",
		script.Str(id), script.Str("all"), script.Str("custom"),
		script.Int(ep.ndump), script.Str(trajectory), script.Tokens(dumpProperties...))
	return id
}

// emitRun sets the integration timestep and runs the fixed step count.
func emitRun(ctx *compile.Context, ep ensembleParams) {
	ctx.Em.Emit("timestep", script.Float(ep.timestep))
	ctx.Em.Emit("run", script.Int(ep.nrun))
}

// noteArtifacts records the substage's output names for the orchestrator's
// stage handoff.
func noteArtifacts(ctx *compile.Context, base string) (trajectory, samples string) {
	trajectory = base + ".lammpstrj"
	samples = base + "_instantaneous.out"
	ctx.LastTrajectory = trajectory
	ctx.LastSamples = samples
	return trajectory, samples
}
