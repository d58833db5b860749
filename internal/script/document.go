package script

import "strings"

// Section is one labeled block of directive lines, usually one substage.
type Section struct {
	Label string
	Lines []string
}

// Document is the ordered, line-oriented script handed to the engine. It is
// built once per (mixture, stage) compilation and serialized verbatim.
type Document struct {
	sections []Section
	emitted  map[string]bool // run-wide directives already present
}

func NewDocument() *Document {
	return &Document{emitted: make(map[string]bool)}
}

// BeginSection starts a new labeled section; subsequent lines append to it.
func (d *Document) BeginSection(label string) {
	d.sections = append(d.sections, Section{Label: label})
}

func (d *Document) append(line string) {
	if len(d.sections) == 0 {
		d.BeginSection("")
	}
	s := &d.sections[len(d.sections)-1]
	s.Lines = append(s.Lines, line)
}

// Sections returns the composed sections in order.
func (d *Document) Sections() []Section {
	return d.sections
}

// Render serializes the document to the engine's line-oriented format.
func (d *Document) Render() string {
	var sb strings.Builder
	for _, s := range d.sections {
		for _, line := range s.Lines {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Lines returns every rendered line in order, for inspection.
func (d *Document) Lines() []string {
	var out []string
	for _, s := range d.sections {
		out = append(out, s.Lines...)
	}
	return out
}
