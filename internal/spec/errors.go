package spec

import "fmt"

// SpecificationError reports a malformed or incomplete stage specification.
// It is raised before any script output is produced.
type SpecificationError struct {
	Stage    string
	Substage int // 1-based position within the stage, 0 if stage-level
	Message  string
}

func (e *SpecificationError) Error() string {
	if e.Substage > 0 {
		return fmt.Sprintf("stage %q substage %d: %s", e.Stage, e.Substage, e.Message)
	}
	return fmt.Sprintf("stage %q: %s", e.Stage, e.Message)
}

// MissingParameterError names a required substage parameter that was absent.
type MissingParameterError struct {
	Kind  string
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("substage %q: missing required parameter %q", e.Kind, e.Field)
}

// ParameterError reports a parameter present with the wrong type, an unknown
// name, or a value outside its physically valid range.
type ParameterError struct {
	Kind    string
	Field   string
	Message string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("substage %q: parameter %q: %s", e.Kind, e.Field, e.Message)
}
