package graph

// DefaultStepLimit bounds PathExists on pathological graphs.
const DefaultStepLimit = 200

// PathExists reports whether dst is reachable from src in adj using a
// breadth-first search that expands at most limit nodes. A search that runs
// out of steps reports false. src == dst is always reachable.
func PathExists(src, dst string, adj Adjacency, limit int) bool {
	if src == dst {
		return true
	}

	visited := map[string]struct{}{src: {}}
	queue := []string{src}
	steps := 0

	for len(queue) > 0 {
		if steps >= limit {
			return false
		}
		steps++

		node := queue[0]
		queue = queue[1:]

		for _, next := range adj[node] {
			if next == dst {
				return true
			}
			if _, ok := visited[next]; ok {
				continue
			}
			visited[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return false
}
