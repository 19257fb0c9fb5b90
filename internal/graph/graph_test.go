package graph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/syntax"
	. "github.com/phobologic/waterfall/internal/testutil"
)

func known(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func TestLocalCalls(t *testing.T) {
	t.Parallel()

	def := Def("run",
		Call("b"),
		SelfCall("a"),
		Call("b"),
		RecvCall("other", "c"),
		Call("puts", Call("c")),
		Expr(Call("d")),
		Call("unknown"),
	)

	got := LocalCalls(def, known("a", "b", "c", "d"))
	want := []string{"b", "a", "c", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LocalCalls mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalCallsSkipsNestedScopes(t *testing.T) {
	t.Parallel()

	def := Def("outer",
		Def("inner", Call("a")),
		Scope(syntax.SingletonClass, "", Def("x", Call("b"))),
		Call("c"),
	)

	got := LocalCalls(def, known("a", "b", "c"))
	if diff := cmp.Diff([]string{"c"}, got); diff != "" {
		t.Errorf("LocalCalls mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalCallsEmptyBody(t *testing.T) {
	t.Parallel()

	if got := LocalCalls(Def("empty"), known("empty")); len(got) != 0 {
		t.Errorf("expected no calls, got %v", got)
	}
	if got := LocalCalls(nil, nil); got != nil {
		t.Errorf("expected nil for nil def, got %v", got)
	}
}

func TestBuildDirectEdges(t *testing.T) {
	t.Parallel()

	defs := []*syntax.Node{
		Def("bar", Call("baz")),
		Def("foo", Call("bar"), Call("baz"), Call("foo")),
		Def("baz"),
	}

	g := Build(defs, BuildOptions{})
	want := []model.Edge{
		{From: "bar", To: "baz"},
		{From: "foo", To: "bar"},
		{From: "foo", To: "baz"},
	}
	if diff := cmp.Diff(want, g.Direct); diff != "" {
		t.Errorf("direct edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSelfRecursionHasNoEdge(t *testing.T) {
	t.Parallel()

	g := Build([]*syntax.Node{Def("factorial", Call("factorial"))}, BuildOptions{})
	if len(g.Direct) != 0 || len(g.Sibling) != 0 {
		t.Errorf("expected no edges, got %+v", g)
	}
}

func TestBuildSiblingEdges(t *testing.T) {
	t.Parallel()

	defs := []*syntax.Node{
		Def("run", Call("step_one"), Call("step_two"), Call("step_three")),
		Def("step_two"),
		Def("step_one"),
		Def("step_three"),
	}

	g := Build(defs, BuildOptions{})
	want := []model.Edge{
		{From: "step_one", To: "step_two"},
		{From: "step_two", To: "step_three"},
	}
	if diff := cmp.Diff(want, g.Sibling); diff != "" {
		t.Errorf("sibling edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSiblingOnlyFromOrchestrators(t *testing.T) {
	t.Parallel()

	// helper is called by run, so its consecutive calls infer nothing.
	defs := []*syntax.Node{
		Def("run", Call("helper")),
		Def("helper", Call("a"), Call("b")),
		Def("a"),
		Def("b"),
	}

	g := Build(defs, BuildOptions{})
	if len(g.Sibling) != 0 {
		t.Errorf("expected no sibling edges, got %v", g.Sibling)
	}
}

func TestBuildSiblingYieldsToDirect(t *testing.T) {
	t.Parallel()

	// run calls a then b, but b calls a: the direct edge wins.
	defs := []*syntax.Node{
		Def("run", Call("a"), Call("b")),
		Def("b", Call("a")),
		Def("a"),
	}

	g := Build(defs, BuildOptions{})
	if len(g.Sibling) != 0 {
		t.Errorf("expected sibling edge to be suppressed, got %v", g.Sibling)
	}
}

func TestBuildSkipCyclicSiblingEdges(t *testing.T) {
	t.Parallel()

	// run infers a→b and go infers b→c. c calls a, so once a→b is
	// accepted, b→c would close the cycle a→b→c→a.
	defs := []*syntax.Node{
		Def("run", Call("a"), Call("b")),
		Def("go", Call("b"), Call("c")),
		Def("c", Call("a")),
		Def("a"),
		Def("b"),
	}

	plain := Build(defs, BuildOptions{})
	wantPlain := []model.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}
	if diff := cmp.Diff(wantPlain, plain.Sibling); diff != "" {
		t.Errorf("plain sibling edges mismatch (-want +got):\n%s", diff)
	}

	pruned := Build(defs, BuildOptions{SkipCyclicSiblingEdges: true})
	wantPruned := []model.Edge{{From: "a", To: "b"}}
	if diff := cmp.Diff(wantPruned, pruned.Sibling); diff != "" {
		t.Errorf("pruned sibling edges mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSiblingDeduplicates(t *testing.T) {
	t.Parallel()

	defs := []*syntax.Node{
		Def("one", Call("a"), Call("b")),
		Def("two", Call("a"), Call("b")),
		Def("a"),
		Def("b"),
	}

	g := Build(defs, BuildOptions{})
	if diff := cmp.Diff([]model.Edge{{From: "a", To: "b"}}, g.Sibling); diff != "" {
		t.Errorf("sibling edges mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAccumulating(t *testing.T) {
	t.Parallel()

	base := Adjacency{"a": {"b"}, "c": {"d"}}
	incoming := Adjacency{"a": {"e"}, "f": {"g"}}

	got := MergeAccumulating(base, incoming)
	want := Adjacency{"a": {"b", "e"}, "c": {"d"}, "f": {"g"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	if len(base["a"]) != 1 {
		t.Errorf("base was modified: %v", base)
	}
}

func TestWithoutMutualPairs(t *testing.T) {
	t.Parallel()

	edges := []model.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "a"},
		{From: "a", To: "c"},
	}
	got := WithoutMutualPairs(edges)
	if diff := cmp.Diff([]model.Edge{{From: "a", To: "c"}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRestrict(t *testing.T) {
	t.Parallel()

	edges := []model.Edge{{From: "a", To: "b"}, {From: "a", To: "x"}, {From: "y", To: "b"}}
	got := Restrict(edges, []string{"a", "b"})
	if diff := cmp.Diff([]model.Edge{{From: "a", To: "b"}}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPathExists(t *testing.T) {
	t.Parallel()

	adj := Adjacency{"a": {"b"}, "b": {"c"}, "c": {"a"}, "d": {"e"}}

	tests := []struct {
		name     string
		src, dst string
		want     bool
	}{
		{"same node", "x", "x", true},
		{"direct", "a", "b", true},
		{"transitive", "a", "c", true},
		{"around cycle", "b", "a", true},
		{"unreachable", "a", "d", false},
		{"missing source", "z", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PathExists(tt.src, tt.dst, adj, DefaultStepLimit); got != tt.want {
				t.Errorf("PathExists(%s, %s) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestPathExistsStepLimit(t *testing.T) {
	t.Parallel()

	adj := Adjacency{"n0": {"n1"}, "n1": {"n2"}, "n2": {"n3"}, "n3": {"n4"}}
	if !PathExists("n0", "n4", adj, 4) {
		t.Error("expected path within 4 steps")
	}
	if PathExists("n0", "n4", adj, 2) {
		t.Error("expected the step limit to stop the search")
	}
}

func TestTopoSortKeepsOriginalOrder(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c", "d"}
	pos := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}

	got, err := TopoSort(names, nil, pos)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	if diff := cmp.Diff(names, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTopoSortMinimalChurn(t *testing.T) {
	t.Parallel()

	// Only d must precede b; a and c keep their places relative to the rest.
	names := []string{"a", "b", "c", "d"}
	pos := map[string]int{"a": 0, "b": 1, "c": 2, "d": 3}
	edges := []model.Edge{{From: "d", To: "b"}, {From: "x", To: "a"}, {From: "c", To: "c"}}

	got, err := TopoSort(names, edges, pos)
	if err != nil {
		t.Fatalf("TopoSort: %v", err)
	}
	want := []string{"a", "c", "d", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !IsOrderedSubsequence(got, []string{"a", "c"}) {
		t.Errorf("unconstrained names reordered: %v", got)
	}
}

func TestTopoSortCycle(t *testing.T) {
	t.Parallel()

	names := []string{"a", "b", "c"}
	pos := map[string]int{"a": 0, "b": 1, "c": 2}
	edges := []model.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}, {From: "c", To: "a"}}

	got, err := TopoSort(names, edges, pos)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no partial order, got %v", got)
	}
}
