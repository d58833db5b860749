package substage

import (
	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// Minimize emits an energy-minimization block. It may appear several times
// in one stage: each invocation opens and closes its own trajectory writer,
// so repeated blocks never collide on an ID.
func Minimize(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindMinimize)
	setTimestep := d.Int("set_timestep", 0)
	minStyle := d.Str("min_style", "cg")
	dmax := d.Float("dmax", 0.05)
	tolEnergy := d.Float("tol_energy", 0.0)
	tolForce := d.Float("tol_force", 0.0)
	maxIterations := d.Int("max_iterations", 1000)
	maxEvaluations := d.Int("max_evaluations", 10000)
	ndump := d.Int("ndump", 1000)
	nthermo := d.Int("nthermo", 100)
	d.NonNegative("set_timestep", setTimestep)
	d.NonNegative("max_iterations", maxIterations)
	d.NonNegative("max_evaluations", maxEvaluations)
	if err := d.Finish(); err != nil {
		return err
	}
	for _, name := range referencedVariables(minimizeThermoProperties) {
		if err := ctx.ReferenceVariable(name); err != nil {
			return err
		}
	}

	em := ctx.Em
	em.Emit("reset_timestep", script.Int(setTimestep))
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "Minimization", "Relax the structure by energy minimization.")
	em.Emit("min_style", script.Str(minStyle))
	em.Emit("min_modify", script.Str("dmax"), script.Float(dmax))
	em.Emit("thermo_style", script.Str("custom"), script.Tokens(minimizeThermoProperties...))

	trajectory := ctx.Numbering() + "_minimization.lammpstrj"
	writer := ctx.Open(compile.Writer)
	em.Emit("dump",
		script.Str(writer), script.Str("all"), script.Str("custom"),
		script.Int(ndump), script.Str(trajectory), script.Tokens(dumpProperties...))
	em.Emit("thermo", script.Int(nthermo))
	em.Emit("minimize",
		script.Float(tolEnergy), script.Float(tolForce),
		script.Int(maxIterations), script.Int(maxEvaluations))
	if err := ctx.Close(compile.Writer, writer); err != nil {
		return err
	}
	ctx.LastTrajectory = trajectory
	return nil
}
