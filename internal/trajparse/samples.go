package trajparse

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Samples is the content of one time-averaged sample file, keyed by column
// header in declared order.
type Samples struct {
	Headers []string
	Columns map[string][]float64
}

// ReadSamples parses a time-averaged sample file. The first line is a
// description comment; the second carries the column headers; the rest is
// whitespace-separated numeric rows.
func ReadSamples(path string) (*Samples, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := &Samples{Columns: make(map[string][]float64)}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		fields := strings.Fields(strings.ReplaceAll(scanner.Text(), "#", ""))
		lineNum++
		switch {
		case lineNum == 1:
			continue
		case lineNum == 2:
			s.Headers = fields
			for _, h := range fields {
				s.Columns[h] = nil
			}
		default:
			if len(fields) != len(s.Headers) {
				return nil, fmt.Errorf("%s line %d: %d values, want %d", path, lineNum, len(fields), len(s.Headers))
			}
			for i, tok := range fields {
				v, err := strconv.ParseFloat(tok, 64)
				if err != nil {
					return nil, fmt.Errorf("%s line %d: %w", path, lineNum, err)
				}
				s.Columns[s.Headers[i]] = append(s.Columns[s.Headers[i]], v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s.Headers) == 0 {
		return nil, fmt.Errorf("%s: no header line", path)
	}
	return s, nil
}
