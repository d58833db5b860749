package spec

// Substage kind tags. The set is closed at compile time; new kinds are added
// by registering a generator under a new tag at startup.
const (
	KindInitialize  = "initialize"
	KindMinimize    = "minimize"
	KindVelocities  = "velocities"
	KindNVT         = "nvt"
	KindNPT         = "npt"
	KindNVE         = "nve"
	KindDeformation = "uniaxial_deformation"
)

// Substage is one named, parameterized block within a stage.
type Substage struct {
	Name   string `yaml:"name"`
	Params Params `yaml:"params"`
}

// Stage is an ordered substage sequence compiled into one engine script.
// It is immutable once handed to the composer and may be reused verbatim
// across mixture replicas.
type Stage struct {
	Name      string     `yaml:"name"`
	Substages []Substage `yaml:"substages"`
}

// Validate performs the structural checks that must hold before any script
// is generated: at least one substage, and an initialize substage first
// (it declares the derived-quantity variables every later block references).
func (s Stage) Validate() error {
	if len(s.Substages) == 0 {
		return &SpecificationError{Stage: s.Name, Message: "no substages"}
	}
	if s.Substages[0].Name != KindInitialize {
		return &SpecificationError{
			Stage:   s.Name,
			Message: "first substage must be " + KindInitialize,
		}
	}
	for i, sub := range s.Substages[1:] {
		if sub.Name == KindInitialize {
			return &SpecificationError{
				Stage:    s.Name,
				Substage: i + 2,
				Message:  KindInitialize + " may only appear first",
			}
		}
	}
	return nil
}
