package substage

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// NVT emits a thermostatted constant-volume dynamics block: one thermostat
// modifier, one time-averaged sampling modifier, one trajectory writer, all
// closed at block end.
func NVT(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindNVT)
	tempInitial := d.Float("temp_initial", 298.15)
	tempFinal := d.Float("temp_final", 298.15)
	tempNControl := d.Int("temp_ncontrol", 100)
	drag := d.Float("drag", 0)
	ep := decodeEnsemble(d)
	d.Positive("temp_initial", tempInitial)
	d.Positive("temp_final", tempFinal)
	if err := d.Finish(); err != nil {
		return err
	}
	if err := checkDynamicsReferences(ctx); err != nil {
		return err
	}

	em := ctx.Em
	trajectory, samples := noteArtifacts(ctx, ctx.Numbering()+"_nvt")
	em.Emit("reset_timestep", script.Int(ep.setTimestep))
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "NVT-dynamics",
		fmt.Sprintf("Run %d steps with a timestep of %s. T from %s to %s.",
			ep.nrun, ff(ep.timestep), ff(tempInitial), ff(tempFinal)))
	em.Emit("thermo_style", script.Str("custom"), script.Tokens(thermoProperties...))

	thermostat := ctx.Open(compile.Modifier)
	em.Emit("fix",
		script.Str(thermostat), script.Str("all"), script.Str("nvt"),
		script.Tokens("temp"), script.Float(tempInitial), script.Float(tempFinal), script.Int(tempNControl),
		script.Tokens("drag"), script.Float(drag),
		script.Tokens("nreset"), script.Int(ep.nreset),
		script.Tokens("mtk", "yes"))

	sampling := openSampling(ctx, ep, samples)
	writer := openTrajectory(ctx, ep, trajectory)
	emitRun(ctx, ep)

	for _, id := range []string{thermostat, sampling} {
		if err := ctx.Close(compile.Modifier, id); err != nil {
			return err
		}
	}
	return ctx.Close(compile.Writer, writer)
}
