package order

import (
	"github.com/phobologic/waterfall/internal/graph"
	"github.com/phobologic/waterfall/internal/model"
)

// FindViolation returns the first edge of g whose target is defined before
// its source. Direct edges are checked before sibling edges, each in the
// order g holds them. Edges naming a method missing from position are
// skipped. When allowRecursion is set, an edge is skipped if its target can
// reach its source through direct calls.
func FindViolation(g *graph.Graph, position map[string]int, direct graph.Adjacency, allowRecursion bool) (model.Violation, bool) {
	if e, ok := firstBackward(g.Direct, position, direct, allowRecursion); ok {
		return model.Violation{Kind: model.Direct, Edge: e}, true
	}
	if e, ok := firstBackward(g.Sibling, position, direct, allowRecursion); ok {
		return model.Violation{Kind: model.Sibling, Edge: e}, true
	}
	return model.Violation{}, false
}

func firstBackward(edges []model.Edge, position map[string]int, direct graph.Adjacency, allowRecursion bool) (model.Edge, bool) {
	for _, e := range edges {
		from, ok := position[e.From]
		if !ok {
			continue
		}
		to, ok := position[e.To]
		if !ok {
			continue
		}
		if allowRecursion && graph.PathExists(e.To, e.From, direct, graph.DefaultStepLimit) {
			continue
		}
		if to < from {
			return e, true
		}
	}
	return model.Edge{}, false
}
