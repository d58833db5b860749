package script

import (
	"fmt"
	"strings"
)

const (
	keywordColumn = 20
	bannerWidth   = 79
	wrapWidth     = 76
)

// Emitter appends formatted directives to a Document. It carries a sticky
// error: after the first schema violation every later call is a no-op, and
// the composer surfaces the error at the end of the block.
type Emitter struct {
	doc *Document
	err error
}

func NewEmitter(doc *Document) *Emitter {
	return &Emitter{doc: doc}
}

// Err returns the first formatting error encountered, if any.
func (e *Emitter) Err() error { return e.err }

// Emit appends one directive line, validating the arguments against the
// directive's schema. Run-wide settings already present in the document are
// silently suppressed.
func (e *Emitter) Emit(directive string, args ...Arg) {
	if e.err != nil {
		return
	}
	if err := validate(directive, args); err != nil {
		e.err = err
		return
	}
	if runWideDirectives[directive] {
		if e.doc.emitted[directive] {
			return
		}
		e.doc.emitted[directive] = true
	}
	fields := make([]string, 0, len(args))
	for _, a := range args {
		fields = append(fields, a.format())
	}
	e.doc.append(formatLine(directive, fields))
}

// Blank inserts a visual separator line.
func (e *Emitter) Blank() {
	if e.err != nil {
		return
	}
	e.doc.append("")
}

// Comment appends a banner-framed comment block.
func (e *Emitter) Comment(text string) {
	if e.err != nil {
		return
	}
	e.doc.append(banner())
	for _, line := range wrap(text, wrapWidth) {
		e.doc.append("# " + line)
	}
	e.doc.append(banner())
}

// StageTitle opens the document with the stage header block.
func (e *Emitter) StageTitle(stageNum int, title, description string) {
	if e.err != nil {
		return
	}
	e.doc.append(banner())
	e.doc.append(fmt.Sprintf("# Stage %d: %s", stageNum, title))
	for _, line := range wrap(description, wrapWidth) {
		e.doc.append("# " + line)
	}
	e.doc.append(banner())
}

// SubstageTitle labels a substage block with its stage.substage numbering.
func (e *Emitter) SubstageTitle(stageNum, substageNum int, title, description string) {
	if e.err != nil {
		return
	}
	e.doc.BeginSection(fmt.Sprintf("%d.%d %s", stageNum, substageNum, title))
	e.Blank()
	e.doc.append(banner())
	e.doc.append(fmt.Sprintf("# Substage %d.%d: %s", stageNum, substageNum, title))
	for _, line := range wrap(description, wrapWidth) {
		e.doc.append("# " + line)
	}
	e.doc.append(banner())
}

// formatLine pads the keyword so argument columns line up, matching the
// engine community's conventional script layout.
func formatLine(keyword string, fields []string) string {
	line := keyword
	if len(line) < keywordColumn {
		line += strings.Repeat(" ", keywordColumn-len(line))
	} else {
		line += " "
	}
	return line + strings.Join(fields, " ")
}

func banner() string {
	return "#" + strings.Repeat("-", bannerWidth)
}

func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
