package syntax

import "strings"

// Source is the text a tree was parsed from.
type Source struct {
	Path string
	Text []byte
}

// NewSource wraps text for path.
func NewSource(path string, text []byte) *Source {
	return &Source{Path: path, Text: text}
}

// Slice returns the text covered by r.
func (s *Source) Slice(r Range) string {
	return string(s.Text[r.Start:r.End])
}

// LineStart returns the offset of the first byte of the line containing off.
func (s *Source) LineStart(off int) int {
	for off > 0 && s.Text[off-1] != '\n' {
		off--
	}
	return off
}

// LineEnd returns the offset of the newline ending the line containing off,
// or len(Text) for the last line.
func (s *Source) LineEnd(off int) int {
	for off < len(s.Text) && s.Text[off] != '\n' {
		off++
	}
	return off
}

// Position returns the 1-based line and column of off.
func (s *Source) Position(off int) (line, col int) {
	line = 1
	for i := 0; i < off && i < len(s.Text); i++ {
		if s.Text[i] == '\n' {
			line++
		}
	}
	return line, off - s.LineStart(off) + 1
}

// Indentation returns the whitespace between the start of off's line and off.
// It returns ok=false when anything other than spaces or tabs precedes off.
func (s *Source) Indentation(off int) (indent string, ok bool) {
	start := s.LineStart(off)
	prefix := string(s.Text[start:off])
	if strings.Trim(prefix, " \t") != "" {
		return "", false
	}
	return prefix, true
}
