package graph

import "github.com/phobologic/waterfall/internal/syntax"

// LocalCalls returns the names of methods called by def with no receiver or
// an explicit self, restricted to known. Each name appears once, in order of
// first occurrence. Nested definitions, classes and modules are not searched:
// calls inside them belong to their own scope.
func LocalCalls(def *syntax.Node, known map[string]struct{}) []string {
	if def == nil || len(def.Body) == 0 {
		return nil
	}

	var calls []string
	seen := make(map[string]struct{})

	visit := func(n *syntax.Node) bool {
		switch n.Kind {
		case syntax.Definition, syntax.SingletonDefinition,
			syntax.Class, syntax.Module, syntax.SingletonClass:
			return false
		case syntax.Send:
			if !n.IsLocalSend() {
				return true
			}
			if _, ok := known[n.Name]; !ok {
				return true
			}
			if _, dup := seen[n.Name]; !dup {
				seen[n.Name] = struct{}{}
				calls = append(calls, n.Name)
			}
		}
		return true
	}

	for _, st := range def.Body {
		syntax.Walk(st, visit)
	}
	return calls
}

// KnownNames returns the set of names defined by defs.
func KnownNames(defs []*syntax.Node) map[string]struct{} {
	known := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		known[d.Name] = struct{}{}
	}
	return known
}
