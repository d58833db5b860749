package spec

import (
	"errors"
	"testing"
)

func TestDecoderDefaults(t *testing.T) {
	d := Params{}.Decoder("nvt")
	temp := d.Float("temp", 298.15)
	n := d.Int("nrun", 100000)
	group := d.Str("group", "all")
	if err := d.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if temp != 298.15 || n != 100000 || group != "all" {
		t.Errorf("defaults not applied: %v %v %v", temp, n, group)
	}
}

func TestDecoderRequireMissing(t *testing.T) {
	d := Params{}.Decoder("uniaxial_deformation")
	d.RequireStr("axis")
	var me *MissingParameterError
	if !errors.As(d.Finish(), &me) {
		t.Fatal("expected MissingParameterError")
	}
	if me.Kind != "uniaxial_deformation" || me.Field != "axis" {
		t.Errorf("error fields: %+v", me)
	}
}

func TestDecoderUnknownField(t *testing.T) {
	d := Params{"temp": 300.0, "tmep": 300.0}.Decoder("nvt")
	d.Float("temp", 298.15)
	var pe *ParameterError
	if !errors.As(d.Finish(), &pe) {
		t.Fatal("expected ParameterError")
	}
	if pe.Field != "tmep" {
		t.Errorf("field = %q, want tmep", pe.Field)
	}
}

func TestDecoderIntCoercion(t *testing.T) {
	d := Params{"nrun": 5000.0}.Decoder("nvt")
	n := d.Int("nrun", 0)
	if err := d.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5000 {
		t.Errorf("nrun = %d, want 5000", n)
	}
}

func TestDecoderRejectsFractionalInt(t *testing.T) {
	d := Params{"nrun": 5000.5}.Decoder("nvt")
	d.Int("nrun", 0)
	if d.Finish() == nil {
		t.Error("expected error for fractional integer")
	}
}

func TestDecoderIntWidensToFloat(t *testing.T) {
	d := Params{"temp": 300}.Decoder("nvt")
	temp := d.Float("temp", 0)
	if err := d.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if temp != 300 {
		t.Errorf("temp = %g, want 300", temp)
	}
}

func TestDecoderRangeChecks(t *testing.T) {
	d := Params{"temp": -10.0}.Decoder("velocities")
	temp := d.RequireFloat("temp")
	d.Positive("temp", temp)
	var pe *ParameterError
	if !errors.As(d.Finish(), &pe) {
		t.Fatal("expected ParameterError for negative temperature")
	}
}

func TestDecoderStickyFirstError(t *testing.T) {
	d := Params{"temp": "hot"}.Decoder("nvt")
	d.Float("temp", 0)
	d.RequireInt("nrun")
	var pe *ParameterError
	if !errors.As(d.Finish(), &pe) {
		t.Fatalf("expected first ParameterError, got %v", d.Finish())
	}
	if pe.Field != "temp" {
		t.Errorf("field = %q, want temp", pe.Field)
	}
}

func TestDecoderStringList(t *testing.T) {
	d := Params{"boundary": []any{"p", "p", "f"}}.Decoder("initialize")
	got := d.StringList("boundary", nil)
	if err := d.Finish(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[2] != "f" {
		t.Errorf("boundary = %v", got)
	}
}
