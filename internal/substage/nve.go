package substage

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// NVE emits an unconstrained constant-energy dynamics block. Same resource
// shape as NVT, but the integrator holds nothing fixed and needs no
// temperature or pressure targets.
func NVE(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindNVE)
	ep := decodeEnsemble(d)
	if err := d.Finish(); err != nil {
		return err
	}
	if err := checkDynamicsReferences(ctx); err != nil {
		return err
	}

	em := ctx.Em
	trajectory, samples := noteArtifacts(ctx, ctx.Numbering()+"_nve")
	em.Emit("reset_timestep", script.Int(ep.setTimestep))
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "NVE-dynamics",
		fmt.Sprintf("Run %d steps with a timestep of %s.", ep.nrun, ff(ep.timestep)))
	em.Emit("thermo_style", script.Str("custom"), script.Tokens(thermoProperties...))

	integrator := ctx.Open(compile.Modifier)
	em.Emit("fix",
		script.Str(integrator), script.Str("all"), script.Str("nve"),
		script.Tokens("nreset"), script.Int(ep.nreset),
		script.Tokens("mtk", "yes"))

	sampling := openSampling(ctx, ep, samples)
	writer := openTrajectory(ctx, ep, trajectory)
	emitRun(ctx, ep)

	for _, id := range []string{integrator, sampling} {
		if err := ctx.Close(compile.Modifier, id); err != nil {
			return err
		}
	}
	return ctx.Close(compile.Writer, writer)
}
