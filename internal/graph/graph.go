// Package graph builds method call graphs for a single scope and answers
// ordering questions about them.
package graph

import (
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/syntax"
)

// BuildOptions tunes edge construction.
type BuildOptions struct {
	// SkipCyclicSiblingEdges drops a sibling edge A→B when B already reaches A
	// through direct edges or previously accepted sibling edges.
	SkipCyclicSiblingEdges bool
}

// Graph holds the ordering constraints of one scope, in discovery order.
type Graph struct {
	Direct  []model.Edge
	Sibling []model.Edge
}

// Build derives direct and sibling edges from the method definitions of one
// scope. Direct edges follow definition order, then call order within each
// definition. Self-recursive calls produce no edge.
func Build(defs []*syntax.Node, opts BuildOptions) *Graph {
	known := KnownNames(defs)

	g := &Graph{}
	calls := make([][]string, len(defs))
	callees := make(map[string]struct{})
	for i, d := range defs {
		calls[i] = LocalCalls(d, known)
		for _, callee := range calls[i] {
			if callee == d.Name {
				continue
			}
			g.Direct = append(g.Direct, model.Edge{From: d.Name, To: callee})
			callees[callee] = struct{}{}
		}
	}

	directSet := edgeSet(g.Direct)
	var accepted Adjacency
	if opts.SkipCyclicSiblingEdges {
		accepted = NewAdjacency(g.Direct)
	}
	seen := make(map[model.Edge]struct{})

	for i, d := range defs {
		if _, called := callees[d.Name]; called {
			continue
		}
		seq := calls[i]
		for j := 0; j+1 < len(seq); j++ {
			e := model.Edge{From: seq[j], To: seq[j+1]}
			if _, dup := seen[e]; dup {
				continue
			}
			if _, ok := directSet[e]; ok {
				continue
			}
			if _, ok := directSet[e.Reverse()]; ok {
				continue
			}
			if opts.SkipCyclicSiblingEdges {
				if PathExists(e.To, e.From, accepted, DefaultStepLimit) {
					continue
				}
				accepted = MergeAccumulating(accepted, Adjacency{e.From: {e.To}})
			}
			seen[e] = struct{}{}
			g.Sibling = append(g.Sibling, e)
		}
	}

	return g
}

// Adjacency maps a node to its successors.
type Adjacency map[string][]string

// NewAdjacency builds an adjacency list from edges, keeping edge order.
func NewAdjacency(edges []model.Edge) Adjacency {
	adj := make(Adjacency)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

// MergeAccumulating returns a new adjacency holding every entry of base and
// incoming. Successor lists of keys present in both are concatenated, base
// first. Neither input is modified.
func MergeAccumulating(base, incoming Adjacency) Adjacency {
	out := make(Adjacency, len(base)+len(incoming))
	for k, v := range base {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range incoming {
		out[k] = append(out[k], v...)
	}
	return out
}

// WithoutMutualPairs drops every edge whose reverse is also present.
// Mutually recursive methods impose no order on each other.
func WithoutMutualPairs(edges []model.Edge) []model.Edge {
	set := edgeSet(edges)
	var out []model.Edge
	for _, e := range edges {
		if _, mirrored := set[e.Reverse()]; mirrored {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Restrict keeps only edges whose endpoints are both in names.
func Restrict(edges []model.Edge, names []string) []model.Edge {
	in := make(map[string]struct{}, len(names))
	for _, n := range names {
		in[n] = struct{}{}
	}
	var out []model.Edge
	for _, e := range edges {
		_, fromOK := in[e.From]
		_, toOK := in[e.To]
		if fromOK && toOK {
			out = append(out, e)
		}
	}
	return out
}

func edgeSet(edges []model.Edge) map[model.Edge]struct{} {
	set := make(map[model.Edge]struct{}, len(edges))
	for _, e := range edges {
		set[e] = struct{}{}
	}
	return set
}
