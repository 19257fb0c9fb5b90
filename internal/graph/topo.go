package graph

import (
	"errors"
	"sort"

	"github.com/phobologic/waterfall/internal/model"
)

// ErrCycle is returned by TopoSort when the edges among names form a cycle.
var ErrCycle = errors.New("graph: cycle among edges")

// TopoSort orders names so every edge's From precedes its To, using Kahn's
// algorithm. Among nodes that are ready at the same time the one with the
// lowest position goes first, so the original order survives wherever the
// edges allow it. Edges touching names outside the set, and self-loops, are
// ignored. On a cycle no partial order is returned.
func TopoSort(names []string, edges []model.Edge, position map[string]int) ([]string, error) {
	indegree := make(map[string]int, len(names))
	for _, n := range names {
		indegree[n] = 0
	}

	succ := make(map[string][]string)
	seen := make(map[model.Edge]struct{})
	for _, e := range edges {
		if e.From == e.To {
			continue
		}
		if _, ok := indegree[e.From]; !ok {
			continue
		}
		if _, ok := indegree[e.To]; !ok {
			continue
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		succ[e.From] = append(succ[e.From], e.To)
		indegree[e.To]++
	}

	byPosition := func(q []string) {
		sort.SliceStable(q, func(i, j int) bool { return position[q[i]] < position[q[j]] })
	}

	var ready []string
	for _, n := range names {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}
	byPosition(ready)

	order := make([]string, 0, len(names))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, m := range succ[n] {
			indegree[m]--
			if indegree[m] == 0 {
				ready = append(ready, m)
				byPosition(ready)
			}
		}
	}

	if len(order) < len(names) {
		return nil, ErrCycle
	}
	return order, nil
}
