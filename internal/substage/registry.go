package substage

import (
	"github.com/san-kum/lmpflow/internal/compile"
	"github.com/san-kum/lmpflow/internal/spec"
)

// DefaultRegistry wires every supported substage kind to its generator.
func DefaultRegistry() *compile.Registry {
	r := compile.NewRegistry()
	r.Register(spec.KindInitialize, Initialize)
	r.Register(spec.KindMinimize, Minimize)
	r.Register(spec.KindVelocities, Velocities)
	r.Register(spec.KindNVT, NVT)
	r.Register(spec.KindNPT, NPT)
	r.Register(spec.KindNVE, NVE)
	r.Register(spec.KindDeformation, UniaxialDeformation)
	return r
}
