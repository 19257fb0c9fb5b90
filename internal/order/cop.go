// Package order implements the waterfall method-ordering rule: within a
// class, module, singleton class or the top level, a method should be
// defined after every method in the same scope that calls it, and methods
// called one after another by an orchestrator should be defined in that
// order.
package order

import (
	"fmt"

	"github.com/phobologic/waterfall/internal/graph"
	"github.com/phobologic/waterfall/internal/model"
	"github.com/phobologic/waterfall/internal/syntax"
)

const (
	crossSectionNote = " (not autocorrectable across visibility or code boundaries)"
	siblingCycleNote = " (cyclic order: autocorrect may not be able to resolve this)"
)

// Corrector stages text replacements.
type Corrector interface {
	Replace(r syntax.Range, text string)
}

// Reporter receives offenses. fix is nil when no safe correction exists;
// otherwise calling it stages the correction on c.
type Reporter interface {
	Report(node *syntax.Node, message string, fix func(c Corrector))
}

// Cop checks method order.
type Cop struct {
	cfg Config
}

// New returns a Cop using cfg.
func New(cfg Config) *Cop {
	return &Cop{cfg: cfg}
}

// Config returns the cop's configuration.
func (c *Cop) Config() Config {
	return c.cfg
}

// Inspect checks the top-level scope of root and every class, module and
// singleton class nested anywhere inside it. Each scope reports at most one
// offense; outer scopes report before the scopes they contain.
func (c *Cop) Inspect(src *syntax.Source, root *syntax.Node, r Reporter) {
	syntax.Walk(root, func(n *syntax.Node) bool {
		if n.IsScope() {
			c.inspectScope(src, n, r)
		}
		return true
	})
}

func (c *Cop) inspectScope(src *syntax.Source, scope *syntax.Node, r Reporter) {
	defs := syntax.Definitions(scope.Body)
	if len(defs) < 2 {
		return
	}

	g := graph.Build(defs, c.buildOptions())
	pos := positions(defs)
	direct := graph.NewAdjacency(g.Direct)

	v, ok := FindViolation(g, pos, direct, c.cfg.AllowedRecursion)
	if !ok {
		return
	}

	msg := message(v)
	if _, same := sectionWith(ExtractSections(scope.Body), v.Edge.From, v.Edge.To); !same {
		msg += crossSectionNote
	}
	if v.Kind == model.Sibling {
		all := graph.MergeAccumulating(direct, graph.NewAdjacency(g.Sibling))
		if graph.PathExists(v.Edge.To, v.Edge.From, all, graph.DefaultStepLimit) {
			msg += siblingCycleNote
		}
	}

	var fix func(Corrector)
	if e, ok := c.autocorrect(src, scope.Body, v); ok {
		fix = func(corr Corrector) {
			corr.Replace(e.Range, e.Text)
		}
	}

	r.Report(defs[pos[v.Edge.To]], msg, fix)
}

func (c *Cop) buildOptions() graph.BuildOptions {
	return graph.BuildOptions{SkipCyclicSiblingEdges: c.cfg.SkipCyclicSiblingEdges}
}

func message(v model.Violation) string {
	if v.Kind == model.Sibling {
		return fmt.Sprintf("Define %s after %s to match the order they are called together", v.Edge.To, v.Edge.From)
	}
	return fmt.Sprintf("Define %s after its caller %s (waterfall order).", v.Edge.To, v.Edge.From)
}
