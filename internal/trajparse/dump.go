// Package trajparse reads the engine's trajectory dump and time-averaged
// sample files: the last frame of a dump feeds the structural handoff
// between stages, and sample files are the postprocessing contract.
package trajparse

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RestartFile is the conventional name of the structural handoff file: the
// orchestrator writes it after each stage and the next stage's script reads
// its particle positions back.
const RestartFile = "last.lammpstrj"

// headerLines is the fixed frame-header length of the dump format.
const headerLines = 9

// FrameHeader is the parsed header of one dump frame.
type FrameHeader struct {
	Timestep   int
	AtomCount  int
	BoxBounds  []string  // boundary flags per axis
	BoxDims    []float64 // lo/hi per axis
	Attributes []string  // per-atom column names
}

// Frame is one trajectory frame, kept both parsed and raw so it can be
// rewritten verbatim.
type Frame struct {
	Header    FrameHeader
	RawHeader []string
	AtomRows  []string
}

// LastFrame extracts the final frame of a trajectory dump file.
func LastFrame(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	start := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.Contains(lines[i], "TIMESTEP") {
			start = i
			break
		}
	}
	if start < 0 || len(lines)-start < headerLines {
		return nil, fmt.Errorf("%s: no complete trajectory frame found", path)
	}

	raw := lines[start : start+headerLines]
	header, err := parseHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Frame{
		Header:    header,
		RawHeader: raw,
		AtomRows:  lines[start+headerLines:],
	}, nil
}

// WriteRestart writes the frame to path with its timestep reset to zero, the
// structural form the next stage's script reads back.
func (f *Frame) WriteRestart(path string) error {
	out := make([]string, 0, len(f.RawHeader)+len(f.AtomRows))
	out = append(out, f.RawHeader...)
	out[1] = "0"
	out = append(out, f.AtomRows...)
	return os.WriteFile(path, []byte(strings.Join(out, "\n")+"\n"), 0644)
}

// Columns parses the atom rows into per-attribute numeric columns.
func (f *Frame) Columns() (map[string][]float64, error) {
	cols := make(map[string][]float64, len(f.Header.Attributes))
	for _, attr := range f.Header.Attributes {
		cols[attr] = make([]float64, 0, len(f.AtomRows))
	}
	for _, row := range f.AtomRows {
		values := strings.Fields(row)
		if len(values) != len(f.Header.Attributes) {
			return nil, fmt.Errorf("atom row has %d values, want %d", len(values), len(f.Header.Attributes))
		}
		for i, attr := range f.Header.Attributes {
			v, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", attr, err)
			}
			cols[attr] = append(cols[attr], v)
		}
	}
	return cols, nil
}

func parseHeader(raw []string) (FrameHeader, error) {
	var h FrameHeader
	ts, err := strconv.Atoi(strings.TrimSpace(raw[1]))
	if err != nil {
		return h, fmt.Errorf("bad timestep line: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[3]))
	if err != nil {
		return h, fmt.Errorf("bad atom-count line: %w", err)
	}
	h.Timestep = ts
	h.AtomCount = n

	fields := strings.Fields(raw[4])
	if len(fields) > 3 {
		h.BoxBounds = fields[3:]
	}
	for _, line := range raw[5:8] {
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return h, fmt.Errorf("bad box dimension %q: %w", tok, err)
			}
			h.BoxDims = append(h.BoxDims, v)
		}
	}

	attrFields := strings.Fields(raw[8])
	if len(attrFields) > 2 {
		h.Attributes = attrFields[2:]
	}
	return h, nil
}
