package compile

import (
	"fmt"

	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/script"
	"github.com/san-kum/lmpflow/internal/spec"
)

// Composer turns one stage specification into an engine script for one
// mixture replica.
type Composer struct {
	reg *Registry
}

func NewComposer(reg *Registry) *Composer {
	return &Composer{reg: reg}
}

// Result pairs the composed document with the handoff hints the
// orchestrator needs after the engine run.
type Result struct {
	Doc            *script.Document
	LastTrajectory string
	LastSamples    string
}

// Compose resets a fresh compilation context, emits the stage header, and
// runs each substage generator in authored order. Every modifier and writer
// handle opened during composition must be closed by the time it returns;
// a leak fails the call with a LifecycleError naming the offending substage.
func (c *Composer) Compose(st spec.Stage, stageNum int, mix mixture.Context) (*Result, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}

	doc := script.NewDocument()
	ctx := NewContext(doc, mix, stageNum)

	ctx.Em.StageTitle(stageNum, st.Name, fmt.Sprintf("Generated script, mixture %d.", mix.Index))
	ctx.Em.Emit("echo", script.Str("both"))

	for i, sub := range st.Substages {
		ctx.EnterSubstage(i+1, sub.Name)
		gen, err := c.reg.Lookup(sub.Name)
		if err != nil {
			return nil, err
		}
		if err := gen(ctx, sub.Params); err != nil {
			return nil, fmt.Errorf("stage %q substage %d (%s): %w", st.Name, i+1, sub.Name, err)
		}
		if err := ctx.Em.Err(); err != nil {
			return nil, fmt.Errorf("stage %q substage %d (%s): %w", st.Name, i+1, sub.Name, err)
		}
	}

	if leaked := ctx.OpenHandles(); len(leaked) > 0 {
		h := leaked[0]
		return nil, &LifecycleError{
			Kind:     h.Kind,
			ID:       h.ID,
			Substage: h.Substage,
			Message:  "still open at end of stage",
		}
	}

	return &Result{
		Doc:            doc,
		LastTrajectory: ctx.LastTrajectory,
		LastSamples:    ctx.LastSamples,
	}, nil
}
