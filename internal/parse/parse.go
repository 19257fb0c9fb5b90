// Package parse turns source files into syntax trees using tree-sitter.
package parse

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/waterfall/internal/lang"
	"github.com/phobologic/waterfall/internal/syntax"
)

// ErrSyntax reports a source file that tree-sitter could not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// File parses source and converts the result into a syntax tree. The parser
// must be created for l. Sources with parse errors are rejected rather than
// analyzed, since a partial tree would misplace definitions.
func File(ctx context.Context, l *lang.Language, parser *sitter.Parser, source []byte) (*syntax.Node, error) {
	if len(source) == 0 {
		return &syntax.Node{Kind: syntax.Program}, nil
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if pos, ok := firstError(root); ok {
			return nil, fmt.Errorf("%w at line %d, column %d", ErrSyntax, pos.Row+1, pos.Column+1)
		}
		return nil, ErrSyntax
	}

	return l.Convert(root, source), nil
}

// firstError returns the start of the first ERROR or missing node.
func firstError(n *sitter.Node) (sitter.Point, bool) {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n.StartPoint(), true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.HasError() && !child.IsMissing() {
			continue
		}
		if p, ok := firstError(child); ok {
			return p, true
		}
	}
	return sitter.Point{}, false
}
