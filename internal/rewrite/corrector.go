// Package rewrite records offenses reported by the order cop, stages their
// corrections, and drives repeated inspect-and-fix passes over a file.
package rewrite

import (
	"slices"

	"github.com/phobologic/waterfall/internal/syntax"
)

// Edit replaces the bytes in Range with Text.
type Edit struct {
	Range syntax.Range
	Text  string
}

// Corrector stages edits for a single pass.
type Corrector struct {
	edits []Edit
}

// Replace stages a replacement of r with text.
func (c *Corrector) Replace(r syntax.Range, text string) {
	c.edits = append(c.edits, Edit{Range: r, Text: text})
}

// Len returns the number of staged edits.
func (c *Corrector) Len() int {
	return len(c.edits)
}

// Apply returns text with the staged edits applied and how many were applied.
// Edits are accepted in staging order; an edit overlapping an accepted one is
// dropped. text is not modified.
func (c *Corrector) Apply(text []byte) ([]byte, int) {
	var accepted []Edit
	for _, e := range c.edits {
		if e.Range.Start < 0 || e.Range.End > len(text) || e.Range.Start > e.Range.End {
			continue
		}
		if slices.ContainsFunc(accepted, func(a Edit) bool { return a.Range.Overlaps(e.Range) }) {
			continue
		}
		accepted = append(accepted, e)
	}
	if len(accepted) == 0 {
		return text, 0
	}

	slices.SortStableFunc(accepted, func(a, b Edit) int { return a.Range.Start - b.Range.Start })

	out := make([]byte, 0, len(text))
	prev := 0
	for _, e := range accepted {
		out = append(out, text[prev:e.Range.Start]...)
		out = append(out, e.Text...)
		prev = e.Range.End
	}
	out = append(out, text[prev:]...)
	return out, len(accepted)
}
