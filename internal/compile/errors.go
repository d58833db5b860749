package compile

import "fmt"

// LifecycleError reports a resource handle misused by a generator: left open
// at stage end, closed twice, or opened under a colliding identifier. It is
// a generator bug and is fatal to the compose call.
type LifecycleError struct {
	Kind     HandleKind
	ID       string
	Substage string
	Message  string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("%s %q (substage %s): %s", e.Kind, e.ID, e.Substage, e.Message)
}

// DuplicateDeclarationError reports a variable declared twice in one stage.
type DuplicateDeclarationError struct {
	Name string
}

func (e *DuplicateDeclarationError) Error() string {
	return fmt.Sprintf("variable %q already declared in this stage", e.Name)
}

// UndeclaredReferenceError reports a reference to a variable no substage
// declared.
type UndeclaredReferenceError struct {
	Name string
}

func (e *UndeclaredReferenceError) Error() string {
	return fmt.Sprintf("variable %q referenced but never declared", e.Name)
}

// UnknownSubstageError reports a substage tag with no registered generator.
type UnknownSubstageError struct {
	Kind string
}

func (e *UnknownSubstageError) Error() string {
	return fmt.Sprintf("unknown substage kind %q", e.Kind)
}
