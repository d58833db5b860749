package substage

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// Box-resize styles applied after an NPT run.
const (
	BoxKeep    = "last_trajectory" // keep the final box as-is
	BoxAverage = "averaged_bounds" // set bounds to their run averages
)

// NPT emits a thermostatted and barostatted dynamics block. Besides the
// usual three handles it may open a second sampling modifier capturing
// box-dimension statistics, consumed by the post-run box resize (and, via
// the sample file, by a later deformation substage).
func NPT(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindNPT)
	tempInitial := d.Float("temp_initial", 298.15)
	tempFinal := d.Float("temp_final", 298.15)
	tempNControl := d.Int("temp_ncontrol", 100)
	presInitial := d.Float("pres_initial", 1)
	presFinal := d.Float("pres_final", 1)
	presNControl := d.Int("pres_ncontrol", 100)
	drag := d.Float("drag", 0)
	boxResize := d.Str("box_resize", BoxKeep)
	setCubic := d.Bool("set_cubic", false)
	ep := decodeEnsemble(d)
	d.Positive("temp_initial", tempInitial)
	d.Positive("temp_final", tempFinal)
	if err := d.Finish(); err != nil {
		return err
	}
	if boxResize != BoxKeep && boxResize != BoxAverage {
		return &spec.ParameterError{
			Kind: spec.KindNPT, Field: "box_resize",
			Message: fmt.Sprintf("want %q or %q", BoxKeep, BoxAverage),
		}
	}
	if err := checkDynamicsReferences(ctx); err != nil {
		return err
	}

	em := ctx.Em
	trajectory, samples := noteArtifacts(ctx, ctx.Numbering()+"_npt")
	em.Emit("reset_timestep", script.Int(ep.setTimestep))
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "NPT-dynamics",
		fmt.Sprintf("Run %d steps with a timestep of %s. T from %s to %s. Pressure from %s to %s.",
			ep.nrun, ff(ep.timestep), ff(tempInitial), ff(tempFinal), ff(presInitial), ff(presFinal)))
	em.Emit("thermo_style", script.Str("custom"), script.Tokens(thermoProperties...))

	barostat := ctx.Open(compile.Modifier)
	em.Emit("fix",
		script.Str(barostat), script.Str("all"), script.Str("npt"),
		script.Tokens("temp"), script.Float(tempInitial), script.Float(tempFinal), script.Int(tempNControl),
		script.Tokens("iso"), script.Float(presInitial), script.Float(presFinal), script.Int(presNControl),
		script.Tokens("drag"), script.Float(drag),
		script.Tokens("nreset"), script.Int(ep.nreset),
		script.Tokens("mtk", "yes"))

	sampling := openSampling(ctx, ep, samples)

	// Box-bound statistics over the whole run, referenced by the resize
	// expressions below while the fix is still live.
	boxStats := ctx.Open(compile.Modifier)
	em.Emit("fix",
		script.Str(boxStats), script.Str("all"), script.Str("ave/time"),
		script.Int(1), script.Int(ep.nrun-1), script.Int(ep.nrun),
		script.Tokens("v_xlo", "v_xhi", "v_ylo", "v_yhi", "v_zlo", "v_zhi"))

	writer := openTrajectory(ctx, ep, trajectory)
	emitRun(ctx, ep)

	if err := emitBoxResize(ctx, boxStats, boxResize, setCubic); err != nil {
		return err
	}

	for _, id := range []string{barostat, sampling, boxStats} {
		if err := ctx.Close(compile.Modifier, id); err != nil {
			return err
		}
	}
	return ctx.Close(compile.Writer, writer)
}

// emitBoxResize applies the requested post-run box change. With BoxKeep and
// no cubic remap there is nothing to do.
func emitBoxResize(ctx *compile.Context, boxStats, style string, setCubic bool) error {
	em := ctx.Em
	if style == BoxKeep && !setCubic {
		return nil
	}

	if style == BoxKeep {
		if err := ctx.DeclareVariable("lcubic", "abs(((xhi-xlo)*(yhi-ylo)*(zhi-zlo))^(1/3))"); err != nil {
			return err
		}
		emitChangeBox(em, "0", "${lcubic}", "0", "${lcubic}", "0", "${lcubic}")
		return nil
	}

	bounds := []string{"xloave", "xhiave", "yloave", "yhiave", "zloave", "zhiave"}
	for i, name := range bounds {
		expr := fmt.Sprintf("f_%s[%d]", boxStats, i+1)
		if err := ctx.DeclareVariable(name, expr); err != nil {
			return err
		}
	}
	emitChangeBox(em,
		"${xloave}", "${xhiave}", "${yloave}", "${yhiave}", "${zloave}", "${zhiave}")
	if setCubic {
		expr := "abs(((v_xhiave-v_xloave)*(v_yhiave-v_yloave)*(v_zhiave-v_zloave))^(1/3))"
		if err := ctx.DeclareVariable("lcubic", expr); err != nil {
			return err
		}
		emitChangeBox(em, "0", "${lcubic}", "0", "${lcubic}", "0", "${lcubic}")
	}
	return nil
}

func emitChangeBox(em *script.Emitter, xlo, xhi, ylo, yhi, zlo, zhi string) {
	em.Emit("change_box", script.Str("all"), script.Tokens(
		"x", "final", xlo, xhi,
		"y", "final", ylo, yhi,
		"z", "final", zlo, zhi,
		"remap", "units", "box"))
}
