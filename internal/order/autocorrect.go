package order

import (
	"slices"

	"github.com/phobologic/waterfall/internal/graph"
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/syntax"
)

// edit is a single staged text replacement.
type edit struct {
	Range syntax.Range
	Text  string
}

// autocorrect plans the rewrite fixing v in the scope whose statements are
// body. It declines (ok=false) when the two methods are not in one section,
// when the section's constraints are cyclic, when sorting changes nothing,
// or when the rewrite would touch text outside the moved definitions.
func (c *Cop) autocorrect(src *syntax.Source, body []*syntax.Node, v model.Violation) (edit, bool) {
	defs := syntax.Definitions(body)
	g := graph.Build(defs, c.buildOptions())

	isDirect := slices.Contains(g.Direct, v.Edge)

	sec, ok := sectionWith(ExtractSections(body), v.Edge.From, v.Edge.To)
	if !ok {
		return edit{}, false
	}

	names := sec.Names()
	if hasDuplicates(names) {
		return edit{}, false
	}

	direct := g.Direct
	if c.cfg.AllowedRecursion {
		direct = graph.WithoutMutualPairs(direct)
	}

	var edges []model.Edge
	if isDirect {
		edges = graph.Restrict(direct, names)
	} else {
		edges = graph.Restrict(append(slices.Clone(g.Sibling), direct...), names)
	}

	sorted, err := graph.TopoSort(names, edges, positions(defs))
	if err != nil {
		return edit{}, false
	}
	if slices.Equal(sorted, names) {
		return edit{}, false
	}

	r, text := renderSection(src, sec, sorted)
	if !sameLines(src.Slice(r), text) {
		return edit{}, false
	}
	return edit{Range: r, Text: text}, true
}

// positions maps each method name to the index of its first definition.
func positions(defs []*syntax.Node) map[string]int {
	pos := make(map[string]int, len(defs))
	for i, d := range defs {
		if _, ok := pos[d.Name]; !ok {
			pos[d.Name] = i
		}
	}
	return pos
}

func hasDuplicates(names []string) bool {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			return true
		}
		seen[n] = struct{}{}
	}
	return false
}
