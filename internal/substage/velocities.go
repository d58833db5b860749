package substage

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// Velocities emits an RNG-seeded initial-velocity assignment. The seed
// defaults to the mixture replica's own seed so that replicas are
// statistically independent; no resources stay open.
func Velocities(ctx *compile.Context, params spec.Params) error {
	d := params.Decoder(spec.KindVelocities)
	temp := d.Float("temp", 298.15)
	seed := d.Int("seed", int(ctx.Mix.Seed))
	group := d.Str("group", "all")
	dist := d.Str("dist", "gaussian")
	momentum := d.Str("momentum", "yes")
	rotation := d.Str("rotation", "no")
	d.Positive("temp", temp)
	if err := d.Finish(); err != nil {
		return err
	}
	if seed <= 0 {
		return &spec.ParameterError{
			Kind: spec.KindVelocities, Field: "seed", Message: "must be > 0",
		}
	}

	ctx.Em.SubstageTitle(ctx.StageNum, ctx.SubstageNum, "Velocities",
		fmt.Sprintf("Initialize velocities to %s (seed %d) using a %s distribution.", ff(temp), seed, dist))
	ctx.Em.Emit("velocity",
		script.Str(group), script.Str("create"),
		script.Float(temp), script.Int(seed),
		script.Tokens("dist", dist, "mom", momentum, "rot", rotation))
	return nil
}
