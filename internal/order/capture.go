package order

import (
	"regexp"
	"sort"
	"strings"

	"github.com/phobologic/waterfall/internal/syntax"
)

// magicComment matches comments Ruby only honours in the file header. They
// stay put even when they sit directly above a definition.
var magicComment = regexp.MustCompile(`^#!|^#\s*-\*-|^#\s*(frozen_string_literal|encoding|coding|warn_indent|warn_past_scope|shareable_constant_value)\s*:`)

// capture is the text that travels with one definition during a reorder:
// the definition itself, the comment lines directly above it and a comment
// trailing its last line.
type capture struct {
	start  int
	end    int
	indent string
}

func captureDefinition(src *syntax.Source, def *syntax.Node) capture {
	c := capture{start: def.Range.Start, end: def.Range.End}

	indent, atLineStart := src.Indentation(def.Range.Start)
	if atLineStart {
		c.indent = indent
		lineStart := src.LineStart(def.Range.Start)
		for lineStart > 0 {
			prevEnd := lineStart - 1
			prevStart := src.LineStart(prevEnd)
			raw := string(src.Text[prevStart:prevEnd])
			trimmed := strings.TrimSpace(raw)
			if !strings.HasPrefix(trimmed, "#") || magicComment.MatchString(trimmed) {
				break
			}
			lead := len(raw) - len(strings.TrimLeft(raw, " \t"))
			c.start = prevStart + lead
			c.indent = raw[:lead]
			lineStart = prevStart
		}
	}

	lineEnd := src.LineEnd(def.Range.End)
	rest := strings.TrimSpace(string(src.Text[def.Range.End:lineEnd]))
	if strings.HasPrefix(rest, "#") {
		end := lineEnd
		for end > def.Range.End && strings.ContainsRune(" \t\r", rune(src.Text[end-1])) {
			end--
		}
		c.end = end
	}

	return c
}

// renderSection rebuilds a section with its definitions in order. It returns
// the range to replace and the replacement text.
func renderSection(src *syntax.Source, sec *Section, order []string) (syntax.Range, string) {
	byName := make(map[string]capture, len(sec.Definitions))
	for _, d := range sec.Definitions {
		byName[d.Name] = captureDefinition(src, d)
	}

	first := byName[sec.Definitions[0].Name]
	last := byName[sec.Definitions[len(sec.Definitions)-1].Name]
	r := syntax.Range{Start: first.start, End: last.end}

	var b strings.Builder
	if sec.Visibility != nil {
		r.Start = sec.Visibility.Range.Start
		b.WriteString(src.Slice(sec.Visibility.Range))
		b.WriteString("\n\n")
	}
	for i, name := range order {
		c := byName[name]
		if i > 0 || sec.Visibility != nil {
			if i > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(c.indent)
		}
		b.WriteString(string(src.Text[c.start:c.end]))
	}

	return r, b.String()
}

// sameLines reports whether a and b hold the same non-blank lines, ignoring
// order and surrounding whitespace. A reorder that fails this check would
// drop or alter code that is not part of any captured definition.
func sameLines(a, b string) bool {
	la, lb := nonBlankLines(a), nonBlankLines(b)
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if la[i] != lb[i] {
			return false
		}
	}
	return true
}

func nonBlankLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	sort.Strings(lines)
	return lines
}
