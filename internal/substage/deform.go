package substage

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// UniaxialDeformation emits a constant-strain-rate compression block along
// one axis: two static wall indenters, one box-deformation modifier, a
// thermostat, a sampling modifier and a trajectory writer. The strain-rate
// expression stays symbolic; the engine evaluates it from its live box
// dimensions at run time.
func UniaxialDeformation(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindDeformation)
	axis := d.RequireStr("axis")
	tempInitial := d.Float("temp_initial", 298.15)
	tempFinal := d.Float("temp_final", 298.15)
	tempNControl := d.Int("temp_ncontrol", 100)
	drag := d.Float("drag", 0)
	ndeformation := d.Int("ndeformation", 1000)
	strainStyle := d.Str("strain_style", "true")
	wallSkin := d.Float("wall_skin", 2.0)
	wallStrength := d.Float("wall_strength", 10)
	finalLength := d.Float("final_length", 0) // 0: derive from the cross axis
	ep := decodeEnsemble(d)
	d.Positive("temp_initial", tempInitial)
	d.Positive("temp_final", tempFinal)
	if err := d.Finish(); err != nil {
		return err
	}
	if axis != "x" && axis != "y" && axis != "z" {
		return &spec.ParameterError{
			Kind: spec.KindDeformation, Field: "axis", Message: "want x, y or z",
		}
	}
	var rate string
	switch strainStyle {
	case "true", "t":
		rate = "trate"
	case "engineering", "e":
		rate = "erate"
	default:
		return &spec.ParameterError{
			Kind: spec.KindDeformation, Field: "strain_style",
			Message: "want true or engineering",
		}
	}

	// The strain-rate expression leans on box-geometry variables declared
	// by Initialize.
	cross := crossAxis(axis)
	for _, name := range []string{"l" + axis, "l" + cross, axis + "hi", axis + "lo"} {
		if err := ctx.ReferenceVariable(name); err != nil {
			return err
		}
	}
	if err := checkDynamicsReferences(ctx); err != nil {
		return err
	}

	em := ctx.Em
	trajectory, samples := noteArtifacts(ctx, ctx.Numbering()+"_uniaxialcompression")
	em.Emit("reset_timestep", script.Int(ep.setTimestep))
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "Uniaxial compression dynamics",
		fmt.Sprintf("Uniaxial compression in the %s axis for %d steps with a timestep of %s. "+
			"Temperature control from %s to %s. Deformation applied every %d steps.",
			axis, ep.nrun, ff(ep.timestep), ff(tempInitial), ff(tempFinal), ndeformation))

	// Target length: an explicit final_length wins; otherwise a job-level
	// density target fixes it through the density ratio (cross-section is
	// constant, so length scales inversely with density); otherwise fall
	// back to the cross-axis length plus both wall skins.
	target := fmt.Sprintf("(l%s+%s)", cross, ff(2*wallSkin))
	switch {
	case finalLength > 0:
		target = ff(finalLength)
	case ctx.Mix.FinalDensity > 0:
		rho := ctx.Mix.FinalDensity / 1000 // kg/m3 to the engine's g/cm3
		target = fmt.Sprintf("(l%s*v_sysdensity/%s)", axis, ff(rho))
	}
	elapsed := ff(ep.timestep * float64(ep.nrun))
	if err := ctx.DeclareVariable("strainrate",
		fmt.Sprintf("ln(%s/l%s)/%s", target, axis, elapsed)); err != nil {
		return err
	}
	if err := ctx.DeclareVariable("strainrateconst", "${strainrate}"); err != nil {
		return err
	}

	em.Emit("thermo_style", script.Str("custom"), script.Tokens(thermoProperties...))

	thermostat := ctx.Open(compile.Modifier)
	em.Emit("fix",
		script.Str(thermostat), script.Str("all"), script.Str("nvt"),
		script.Tokens("temp"), script.Float(tempInitial), script.Float(tempFinal), script.Int(tempNControl),
		script.Tokens("drag"), script.Float(drag),
		script.Tokens("nreset"), script.Int(ep.nreset),
		script.Tokens("mtk", "yes"))
	sampling := openSampling(ctx, ep, samples)

	// Static walls a skin's width inside the shrinking boundary.
	wallHigh := fmt.Sprintf("w%shigh", axis)
	wallLow := fmt.Sprintf("w%slow", axis)
	if err := ctx.DeclareVariable(wallHigh, fmt.Sprintf("\"v_%shi - %s\"", axis, ff(wallSkin))); err != nil {
		return err
	}
	if err := ctx.DeclareVariable(wallLow, fmt.Sprintf("\"v_%slo + %s\"", axis, ff(wallSkin))); err != nil {
		return err
	}

	walls := []struct{ id, variable, side string }{
		{"upperW", "v_" + wallHigh, "hi"},
		{"lowerW", "v_" + wallLow, "lo"},
	}
	for _, w := range walls {
		if err := ctx.OpenNamed(compile.Modifier, w.id); err != nil {
			return err
		}
		em.Emit("fix",
			script.Str(w.id), script.Str("all"), script.Str("indent"),
			script.Float(wallStrength),
			script.Tokens("plane", axis, w.variable, w.side, "units", "box"))
	}
	if err := ctx.OpenNamed(compile.Modifier, "dfrm"); err != nil {
		return err
	}
	em.Emit("fix",
		script.Str("dfrm"), script.Str("all"), script.Str("deform"),
		script.Int(ndeformation),
		script.Tokens(axis, rate, "${strainrate}", "units", "box", "remap", "x"))

	writer := openTrajectory(ctx, ep, trajectory)
	emitRun(ctx, ep)

	for _, id := range []string{thermostat, sampling, "upperW", "lowerW", "dfrm"} {
		if err := ctx.Close(compile.Modifier, id); err != nil {
			return err
		}
	}
	return ctx.Close(compile.Writer, writer)
}

// crossAxis returns the first axis other than the compression axis, the
// reference dimension for the default deformation target.
func crossAxis(axis string) string {
	if axis == "x" {
		return "y"
	}
	return "x"
}
