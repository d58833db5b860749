package spec

import (
	"fmt"
	"sort"
)

// Params is the raw named-parameter set of a substage, as authored.
type Params map[string]any

// Decoder reads typed fields out of a Params set. It records which fields
// were consumed so Finish can reject unknown names, and carries a sticky
// error so generators can decode a whole parameter block before checking.
type Decoder struct {
	kind string
	p    Params
	seen map[string]bool
	err  error
}

func (p Params) Decoder(kind string) *Decoder {
	return &Decoder{kind: kind, p: p, seen: make(map[string]bool)}
}

func (d *Decoder) fail(field, msg string) {
	if d.err == nil {
		d.err = &ParameterError{Kind: d.kind, Field: field, Message: msg}
	}
}

func (d *Decoder) lookup(field string) (any, bool) {
	d.seen[field] = true
	v, ok := d.p[field]
	return v, ok
}

func (d *Decoder) Float(field string, def float64) float64 {
	v, ok := d.lookup(field)
	if !ok {
		return def
	}
	return d.asFloat(field, v)
}

func (d *Decoder) RequireFloat(field string) float64 {
	v, ok := d.lookup(field)
	if !ok {
		if d.err == nil {
			d.err = &MissingParameterError{Kind: d.kind, Field: field}
		}
		return 0
	}
	return d.asFloat(field, v)
}

func (d *Decoder) Int(field string, def int) int {
	v, ok := d.lookup(field)
	if !ok {
		return def
	}
	return d.asInt(field, v)
}

func (d *Decoder) RequireInt(field string) int {
	v, ok := d.lookup(field)
	if !ok {
		if d.err == nil {
			d.err = &MissingParameterError{Kind: d.kind, Field: field}
		}
		return 0
	}
	return d.asInt(field, v)
}

func (d *Decoder) Str(field, def string) string {
	v, ok := d.lookup(field)
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr {
		d.fail(field, fmt.Sprintf("want string, got %T", v))
		return def
	}
	return s
}

func (d *Decoder) RequireStr(field string) string {
	v, ok := d.lookup(field)
	if !ok {
		if d.err == nil {
			d.err = &MissingParameterError{Kind: d.kind, Field: field}
		}
		return ""
	}
	s, isStr := v.(string)
	if !isStr {
		d.fail(field, fmt.Sprintf("want string, got %T", v))
		return ""
	}
	return s
}

func (d *Decoder) Bool(field string, def bool) bool {
	v, ok := d.lookup(field)
	if !ok {
		return def
	}
	b, isBool := v.(bool)
	if !isBool {
		d.fail(field, fmt.Sprintf("want bool, got %T", v))
		return def
	}
	return b
}

func (d *Decoder) StringList(field string, def []string) []string {
	v, ok := d.lookup(field)
	if !ok {
		return def
	}
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, isStr := item.(string)
			if !isStr {
				d.fail(field, fmt.Sprintf("want list of strings, got element %T", item))
				return def
			}
			out = append(out, s)
		}
		return out
	default:
		d.fail(field, fmt.Sprintf("want list of strings, got %T", v))
		return def
	}
}

// Positive and NonNegative record range violations against the last-decoded
// field; they keep physically-invalid values out of generated scripts.
func (d *Decoder) Positive(field string, v float64) {
	if v <= 0 {
		d.fail(field, fmt.Sprintf("must be > 0, got %g", v))
	}
}

func (d *Decoder) NonNegative(field string, v int) {
	if v < 0 {
		d.fail(field, fmt.Sprintf("must be >= 0, got %d", v))
	}
}

// Finish rejects parameters that no decode call consumed and returns the
// first recorded error.
func (d *Decoder) Finish() error {
	if d.err != nil {
		return d.err
	}
	var unknown []string
	for name := range d.p {
		if !d.seen[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &ParameterError{Kind: d.kind, Field: unknown[0], Message: "unknown parameter"}
	}
	return nil
}

func (d *Decoder) asFloat(field string, v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		d.fail(field, fmt.Sprintf("want number, got %T", v))
		return 0
	}
}

func (d *Decoder) asInt(field string, v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n == float64(int(n)) {
			return int(n)
		}
		d.fail(field, fmt.Sprintf("want integer, got %g", n))
		return 0
	default:
		d.fail(field, fmt.Sprintf("want integer, got %T", v))
		return 0
	}
}
