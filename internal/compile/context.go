package compile

import (
	"fmt"
	"sort"

	"github.com/san-kum/lmpflow/internal/mixture"
	"github.com/san-kum/lmpflow/internal/script"
)

// HandleKind distinguishes the three engine-side resource namespaces.
type HandleKind int

const (
	Variable HandleKind = iota
	Modifier            // dynamics/sampling fix
	Writer              // trajectory/sample dump
)

func (k HandleKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Modifier:
		return "modifier"
	case Writer:
		return "writer"
	}
	return "unknown"
}

// Handle is one live engine-side resource.
type Handle struct {
	Kind     HandleKind
	ID       string
	Substage string // substage that opened it
}

// Context is the mutable state threaded through one stage compilation. It is
// owned by a single Compose call and never shared: per-run ID counters make
// cross-run sharing meaningless, not merely undesirable.
type Context struct {
	Em  *script.Emitter
	Doc *script.Document
	Mix mixture.Context

	StageNum    int
	SubstageNum int

	// Handoff hints for the orchestrator, set by dynamics generators.
	LastTrajectory string
	LastSamples    string

	counters map[HandleKind]int
	open     map[HandleKind]map[string]string // id -> opening substage
	vars     map[string]string
	current  string // label of the substage being compiled
}

func NewContext(doc *script.Document, mix mixture.Context, stageNum int) *Context {
	return &Context{
		Em:       script.NewEmitter(doc),
		Doc:      doc,
		Mix:      mix,
		StageNum: stageNum,
		counters: make(map[HandleKind]int),
		open:     make(map[HandleKind]map[string]string),
		vars:     make(map[string]string),
	}
}

// EnterSubstage is called by the composer before each generator runs, for
// numbering and for attributing lifecycle faults to their substage.
func (c *Context) EnterSubstage(num int, label string) {
	c.SubstageNum = num
	c.current = label
}

// Numbering returns the "<stage>.<substage>" token used in artifact names.
func (c *Context) Numbering() string {
	return fmt.Sprintf("%d.%d", c.StageNum, c.SubstageNum)
}

// Open allocates a fresh unique ID of the given kind and marks it open.
// IDs are monotonic per kind within one stage and are never reused, so an
// unclosed handle can never silently collide with a later one.
func (c *Context) Open(kind HandleKind) string {
	c.counters[kind]++
	id := fmt.Sprintf("%d", c.counters[kind])
	c.markOpen(kind, id)
	return id
}

// OpenNamed opens a handle under a caller-chosen identifier (the engine
// accepts string IDs for fixes). Colliding with a live ID is a generator bug.
func (c *Context) OpenNamed(kind HandleKind, id string) error {
	if _, live := c.open[kind][id]; live {
		return &LifecycleError{Kind: kind, ID: id, Substage: c.current, Message: "already open"}
	}
	c.markOpen(kind, id)
	return nil
}

func (c *Context) markOpen(kind HandleKind, id string) {
	if c.open[kind] == nil {
		c.open[kind] = make(map[string]string)
	}
	c.open[kind][id] = c.current
}

// Close releases a live handle and emits the matching release directive.
func (c *Context) Close(kind HandleKind, id string) error {
	if _, live := c.open[kind][id]; !live {
		return &LifecycleError{Kind: kind, ID: id, Substage: c.current, Message: "close of handle that is not open"}
	}
	delete(c.open[kind], id)
	switch kind {
	case Modifier:
		c.Em.Emit("unfix", script.Str(id))
	case Writer:
		c.Em.Emit("undump", script.Str(id))
	default:
		return &LifecycleError{Kind: kind, ID: id, Substage: c.current, Message: "kind cannot be closed"}
	}
	return nil
}

// DeclareVariable registers a named variable exactly once per stage and
// emits its declaration.
func (c *Context) DeclareVariable(name, expression string) error {
	if _, dup := c.vars[name]; dup {
		return &DuplicateDeclarationError{Name: name}
	}
	c.vars[name] = expression
	c.Em.Emit("variable", script.Str(name), script.Str("equal"), script.Str(expression))
	return nil
}

// ReferenceVariable validates that a name some directive is about to
// reference was declared earlier in this stage.
func (c *Context) ReferenceVariable(name string) error {
	if _, ok := c.vars[name]; !ok {
		return &UndeclaredReferenceError{Name: name}
	}
	return nil
}

// OpenHandles lists every handle still open, sorted for stable reporting.
// Variables stay open for the stage lifetime and are not included.
func (c *Context) OpenHandles() []Handle {
	var out []Handle
	for kind, ids := range c.open {
		if kind == Variable {
			continue
		}
		for id, sub := range ids {
			out = append(out, Handle{Kind: kind, ID: id, Substage: sub})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}
