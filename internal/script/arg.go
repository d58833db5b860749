package script

import (
	"strconv"
	"strings"
)

// ArgKind classifies directive arguments for schema validation.
type ArgKind int

const (
	KindInt ArgKind = iota
	KindFloat
	KindString
	KindTokens
)

func (k ArgKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTokens:
		return "tokens"
	}
	return "unknown"
}

// Arg is one typed argument of a directive.
type Arg struct {
	kind   ArgKind
	i      int
	f      float64
	s      string
	tokens []string
}

func Int(v int) Arg          { return Arg{kind: KindInt, i: v} }
func Float(v float64) Arg    { return Arg{kind: KindFloat, f: v} }
func Str(v string) Arg       { return Arg{kind: KindString, s: v} }
func Tokens(v ...string) Arg { return Arg{kind: KindTokens, tokens: v} }

// format renders the argument with the canonical rules: integers plain,
// floats with minimal precision (scientific notation only when shorter),
// token lists space-joined.
func (a Arg) format() string {
	switch a.kind {
	case KindInt:
		return strconv.Itoa(a.i)
	case KindFloat:
		return strconv.FormatFloat(a.f, 'g', -1, 64)
	case KindString:
		return a.s
	case KindTokens:
		return strings.Join(a.tokens, " ")
	}
	return ""
}

// matches reports whether the argument satisfies the schema slot. Integer
// values are accepted where a float is expected; the reverse is not.
func (a Arg) matches(want ArgKind) bool {
	if a.kind == want {
		return true
	}
	return want == KindFloat && a.kind == KindInt
}
