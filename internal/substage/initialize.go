package substage

import (
	"strings"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
	"github.com/san-kum/lmpflow/internal/trajparse"
)

var validUnitStyles = map[string]bool{
	"lj": true, "real": true, "metal": true, "si": true,
	"cgs": true, "electron": true, "micro": true, "nano": true,
}

// Initialize emits the run-wide setup (unit system, boundary conditions,
// interaction model, topology file) and declares the derived-quantity
// variable set all later substages reference. It must run first in a stage
// and declares each variable exactly once per script.
func Initialize(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindInitialize)
	units := d.Str("units", "real")
	boundary := d.StringList("boundary", []string{"p", "p", "p"})
	atomStyle := d.Str("atom_style", "full")
	pairStyle := d.Str("pair_style", "lj/cut 12.0")
	pairModify := d.Str("pair_modify", "mix arithmetic")
	bondStyle := d.Str("bond_style", "harmonic")
	angleStyle := d.Str("angle_style", "harmonic")
	dihedralStyle := d.Str("dihedral_style", "fourier")
	improperStyle := d.Str("improper_style", "cvff")
	specialBonds := d.Str("special_bonds", "amber")
	dataFile := d.Str("data_file", "structure.data")
	if err := d.Finish(); err != nil {
		return err
	}
	if !validUnitStyles[units] {
		return &spec.ParameterError{
			Kind: spec.KindInitialize, Field: "units",
			Message: "not a valid engine unit style",
		}
	}
	if len(boundary) != 3 {
		return &spec.ParameterError{
			Kind: spec.KindInitialize, Field: "boundary",
			Message: "want one condition per axis (3 values)",
		}
	}

	em := ctx.Em
	em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "Initialization", "Initialize the run.")
	em.Emit("units", script.Str(units))
	em.Emit("boundary", script.Tokens(boundary...))
	em.Emit("atom_style", script.Str(atomStyle))
	emitStyle(em, "pair_style", pairStyle)
	em.Emit("pair_modify", script.Tokens(strings.Fields(pairModify)...))
	em.Emit("bond_style", script.Str(bondStyle))
	em.Emit("angle_style", script.Str(angleStyle))
	em.Emit("dihedral_style", script.Str(dihedralStyle))
	em.Emit("improper_style", script.Str(improperStyle))
	em.Emit("special_bonds", script.Str(specialBonds))
	em.Emit("read_data", script.Str(dataFile))

	// Stages after the first continue from the previous stage's final
	// configuration, not from the pristine topology file.
	if ctx.StageNum >= 2 {
		em.Blank()
		em.Comment("Read previous dump file " + trajparse.RestartFile + " and update particle positions.")
		em.Emit("read_dump",
			script.Str(trajparse.RestartFile), script.Int(0),
			script.Tokens("x", "y", "z", "box", "yes"))
	}

	em.Blank()
	em.Comment("Declaring variables:")
	for _, v := range derivedVariables {
		if err := ctx.DeclareVariable(v.name, v.expr); err != nil {
			return err
		}
	}

	em.Emit("thermo_style", script.Str("custom"), script.Tokens(thermoProperties...))
	em.Emit("thermo_modify", script.Tokens("flush", "yes"))
	return nil
}

// emitStyle splits a style parameter like "lj/cut 12.0" into the style
// keyword plus its trailing options.
func emitStyle(em *script.Emitter, directive, value string) {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return
	}
	args := []script.Arg{script.Str(fields[0])}
	if len(fields) > 1 {
		args = append(args, script.Tokens(fields[1:]...))
	}
	em.Emit(directive, args...)
}
