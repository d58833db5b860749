package compile

import (
	"sort"

	"github.com/san-kum/lmpflow/internal/spec"
)

// Generator compiles one substage: a pure function from (parameters,
// compilation context) to a block of emitted directives plus context
// updates.
type Generator func(ctx *Context, params spec.Params) error

// Registry maps substage kind tags to generators. New kinds are registered
// at startup; the composer itself never changes.
type Registry struct {
	generators map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

func (r *Registry) Register(kind string, gen Generator) {
	r.generators[kind] = gen
}

func (r *Registry) Lookup(kind string) (Generator, error) {
	gen, ok := r.generators[kind]
	if !ok {
		return nil, &UnknownSubstageError{Kind: kind}
	}
	return gen, nil
}

func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.generators))
	for k := range r.generators {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
