package script

import "fmt"

// FormatError reports a directive emitted with arguments that do not match
// its declared schema, or a directive outside the engine vocabulary.
type FormatError struct {
	Directive string
	Message   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("directive %q: %s", e.Directive, e.Message)
}

// schema declares the fixed argument prefix of a directive. Variadic
// directives accept extra arguments of any kind after the prefix; the
// engine's grammar fixes argument order, so the prefix must match exactly.
type schema struct {
	prefix   []ArgKind
	variadic bool
}

// directiveSchemas is the engine vocabulary this compiler is allowed to
// emit. Keeping the table closed means a typo in a generator fails the
// compose call instead of producing a script the engine rejects.
var directiveSchemas = map[string]schema{
	"echo":           {prefix: []ArgKind{KindString}},
	"units":          {prefix: []ArgKind{KindString}},
	"boundary":       {prefix: []ArgKind{KindTokens}},
	"atom_style":     {prefix: []ArgKind{KindString}},
	"pair_style":     {prefix: []ArgKind{KindString}, variadic: true},
	"pair_modify":    {prefix: []ArgKind{KindTokens}},
	"kspace_style":   {prefix: []ArgKind{KindTokens}},
	"bond_style":     {prefix: []ArgKind{KindString}},
	"angle_style":    {prefix: []ArgKind{KindString}},
	"dihedral_style": {prefix: []ArgKind{KindString}},
	"improper_style": {prefix: []ArgKind{KindString}},
	"special_bonds":  {prefix: []ArgKind{KindString}},
	"read_data":      {prefix: []ArgKind{KindString}},
	"read_dump":      {prefix: []ArgKind{KindString, KindInt, KindTokens}},
	"include":        {prefix: []ArgKind{KindString}},
	"log":            {prefix: []ArgKind{KindString}},
	"variable":       {prefix: []ArgKind{KindString, KindString, KindString}},
	"thermo_style":   {prefix: []ArgKind{KindString, KindTokens}},
	"thermo_modify":  {prefix: []ArgKind{KindTokens}},
	"thermo":         {prefix: []ArgKind{KindInt}},
	"reset_timestep": {prefix: []ArgKind{KindInt}},
	"timestep":       {prefix: []ArgKind{KindFloat}},
	"run":            {prefix: []ArgKind{KindInt}},
	"minimize":       {prefix: []ArgKind{KindFloat, KindFloat, KindInt, KindInt}},
	"min_style":      {prefix: []ArgKind{KindString}},
	"min_modify":     {prefix: []ArgKind{KindString, KindFloat}},
	"velocity":       {prefix: []ArgKind{KindString, KindString, KindFloat, KindInt, KindTokens}},
	"fix":            {prefix: []ArgKind{KindString, KindString, KindString}, variadic: true},
	"unfix":          {prefix: []ArgKind{KindString}},
	"dump":           {prefix: []ArgKind{KindString, KindString, KindString, KindInt, KindString, KindTokens}},
	"undump":         {prefix: []ArgKind{KindString}},
	"restart":        {prefix: []ArgKind{KindInt, KindString}},
	"change_box":     {prefix: []ArgKind{KindString, KindTokens}},
	"neighbor":       {prefix: []ArgKind{KindFloat, KindString}},
	"neigh_modify":   {prefix: []ArgKind{KindTokens}},
}

// runWideDirectives are global settings the engine accepts once per script.
// Re-emitting them is suppressed rather than rejected, so generators that
// both set up run-wide state can be sequenced freely.
var runWideDirectives = map[string]bool{
	"echo":       true,
	"units":      true,
	"boundary":   true,
	"atom_style": true,
}

func validate(directive string, args []Arg) error {
	sc, ok := directiveSchemas[directive]
	if !ok {
		return &FormatError{Directive: directive, Message: "not in the engine vocabulary"}
	}
	if len(args) < len(sc.prefix) {
		return &FormatError{
			Directive: directive,
			Message:   fmt.Sprintf("want at least %d args, got %d", len(sc.prefix), len(args)),
		}
	}
	if !sc.variadic && len(args) > len(sc.prefix) {
		return &FormatError{
			Directive: directive,
			Message:   fmt.Sprintf("want %d args, got %d", len(sc.prefix), len(args)),
		}
	}
	for i, want := range sc.prefix {
		if !args[i].matches(want) {
			return &FormatError{
				Directive: directive,
				Message:   fmt.Sprintf("arg %d: want %s, got %s", i+1, want, args[i].kind),
			}
		}
	}
	return nil
}
