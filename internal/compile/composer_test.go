package compile

import (
	"errors"
	"testing"

	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/spec"
)

func TestComposeReportsLeakedHandle(t *testing.T) {
	reg := NewRegistry()
	reg.Register(spec.KindInitialize, func(ctx *Context, params spec.Params) error {
		ctx.Open(Modifier)
		return nil
	})
	c := NewComposer(reg)
	st := spec.Stage{Name: "leaky", Substages: []spec.Substage{{Name: spec.KindInitialize}}}

	_, err := c.Compose(st, 1, mixture.Context{Index: 1, Seed: 1})
	var le *LifecycleError
	if !errors.As(err, &le) {
		t.Fatalf("expected LifecycleError, got %v", err)
	}
	if le.Kind != Modifier || le.ID != "1" {
		t.Errorf("leaked handle = %s %q", le.Kind, le.ID)
	}
	if le.Substage != spec.KindInitialize {
		t.Errorf("leak attributed to %q, want %q", le.Substage, spec.KindInitialize)
	}
}

func TestComposeSurfacesGeneratorLifecycleFault(t *testing.T) {
	reg := NewRegistry()
	reg.Register(spec.KindInitialize, func(ctx *Context, params spec.Params) error {
		return ctx.Close(Writer, "9")
	})
	c := NewComposer(reg)
	st := spec.Stage{Name: "faulty", Substages: []spec.Substage{{Name: spec.KindInitialize}}}

	_, err := c.Compose(st, 1, mixture.Context{Index: 1, Seed: 1})
	var le *LifecycleError
	if !errors.As(err, &le) {
		t.Fatalf("expected LifecycleError, got %v", err)
	}
}
