package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/waterfall/internal/syntax"
)

func init() {
	Languages["ruby"] = &Language{
		Name:       "ruby",
		Extensions: []string{".rb", ".rake", ".gemspec", ".ru", ".thor", ".jbuilder"},
		Filenames:  []string{"Rakefile", "Gemfile", "Guardfile", "Capfile", "Thorfile"},
		lang:       ruby.GetLanguage(),
		Convert:    rubyConvert,
	}
}

// rubyConvert converts a tree-sitter-ruby tree into a syntax tree.
func rubyConvert(root *sitter.Node, source []byte) *syntax.Node {
	c := &rubyConverter{source: source}
	return c.convert(root)
}

// localFrame holds the local variables visible at one nesting level. A hard
// frame (method, class, module, program) hides the frames below it; a block
// frame sees them.
type localFrame struct {
	names map[string]struct{}
	hard  bool
}

// rubyConverter tracks local variables so a bare identifier can be told apart
// from a receiverless method call, the way Ruby's own parser does it: an
// identifier is a variable only once it has been assigned or declared as a
// parameter earlier in the same scope.
type rubyConverter struct {
	source []byte
	frames []localFrame
}

func (c *rubyConverter) push(hard bool) {
	c.frames = append(c.frames, localFrame{names: map[string]struct{}{}, hard: hard})
}

func (c *rubyConverter) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

func (c *rubyConverter) declare(name string) {
	if len(c.frames) == 0 {
		c.push(true)
	}
	c.frames[len(c.frames)-1].names[name] = struct{}{}
}

func (c *rubyConverter) isLocal(name string) bool {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if _, ok := c.frames[i].names[name]; ok {
			return true
		}
		if c.frames[i].hard {
			return false
		}
	}
	return false
}

func (c *rubyConverter) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return NodeText(n, c.source)
}

func rangeOf(n *sitter.Node) syntax.Range {
	return syntax.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (c *rubyConverter) convert(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	case "comment", "empty_statement":
		return nil

	case "program":
		c.push(true)
		defer c.pop()
		body := c.statements(n)
		return &syntax.Node{Kind: syntax.Program, Body: body, Children: body, Range: rangeOf(n)}

	case "class", "module":
		return c.convertScope(n)

	case "singleton_class":
		value := c.convert(n.ChildByFieldName("value"))
		c.push(true)
		defer c.pop()
		body := c.statements(n, n.ChildByFieldName("value"))
		return &syntax.Node{
			Kind:     syntax.SingletonClass,
			Body:     body,
			Children: prepend(value, body),
			Range:    rangeOf(n),
		}

	case "method":
		return c.convertMethod(n, syntax.Definition)

	case "singleton_method":
		return c.convertMethod(n, syntax.SingletonDefinition)

	case "call":
		return c.convertCall(n)

	case "method_call":
		return c.convertMethodCall(n)

	case "identifier":
		name := c.text(n)
		if c.isLocal(name) {
			return &syntax.Node{Kind: syntax.Other, Name: name, Range: rangeOf(n)}
		}
		return &syntax.Node{Kind: syntax.Send, Name: name, Range: rangeOf(n)}

	case "self":
		return &syntax.Node{Kind: syntax.Self, Range: rangeOf(n)}

	case "assignment", "operator_assignment":
		return c.convertAssignment(n)

	case "block", "do_block", "lambda":
		c.push(false)
		defer c.pop()
		return c.generic(n)

	case "method_parameters", "block_parameters", "lambda_parameters", "parameters",
		"bare_parameters", "exception_variable":
		c.declareParameters(n)
		return nil

	case "for":
		c.declareParameters(n.ChildByFieldName("pattern"))
		return c.generic(n, n.ChildByFieldName("pattern"))

	case "alias", "undef":
		return &syntax.Node{Kind: syntax.Other, Range: rangeOf(n)}

	default:
		return c.generic(n)
	}
}

// generic converts n as an opaque expression, keeping its converted named
// children except skip.
func (c *rubyConverter) generic(n *sitter.Node, skip ...*sitter.Node) *syntax.Node {
	out := &syntax.Node{Kind: syntax.Other, Range: rangeOf(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isOneOf(child, skip) {
			continue
		}
		if conv := c.convert(child); conv != nil {
			out.Children = append(out.Children, conv)
		}
	}
	return out
}

// statements converts the body statements of a method or scope node. Newer
// grammars wrap them in a body_statement node; older ones inline them.
func (c *rubyConverter) statements(n *sitter.Node, skip ...*sitter.Node) []*syntax.Node {
	var out []*syntax.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isOneOf(child, skip) {
			continue
		}
		if child.Type() == "body_statement" {
			out = append(out, c.statements(child)...)
			continue
		}
		if conv := c.convert(child); conv != nil {
			out = append(out, conv)
		}
	}
	return out
}

func (c *rubyConverter) convertScope(n *sitter.Node) *syntax.Node {
	kind := syntax.Class
	if n.Type() == "module" {
		kind = syntax.Module
	}

	name := n.ChildByFieldName("name")
	superclass := n.ChildByFieldName("superclass")
	sup := c.convert(superclass)

	c.push(true)
	defer c.pop()
	body := c.statements(n, name, superclass)

	return &syntax.Node{
		Kind:     kind,
		Name:     c.text(name),
		Body:     body,
		Children: prepend(sup, body),
		Range:    rangeOf(n),
	}
}

func (c *rubyConverter) convertMethod(n *sitter.Node, kind syntax.Kind) *syntax.Node {
	name := n.ChildByFieldName("name")
	params := n.ChildByFieldName("parameters")
	object := n.ChildByFieldName("object")

	c.push(true)
	defer c.pop()
	c.declareParameters(params)
	body := c.statements(n, name, params, object)

	return &syntax.Node{
		Kind:     kind,
		Name:     c.text(name),
		Body:     body,
		Children: body,
		Range:    rangeOf(n),
	}
}

func (c *rubyConverter) convertCall(n *sitter.Node) *syntax.Node {
	out := &syntax.Node{Kind: syntax.Send, Range: rangeOf(n)}

	if recv := c.convert(n.ChildByFieldName("receiver")); recv != nil {
		out.Receiver = recv
		out.Children = append(out.Children, recv)
	}

	out.Name = "call"
	if m := n.ChildByFieldName("method"); m != nil {
		out.Name = c.text(m)
	}

	c.appendArguments(out, n.ChildByFieldName("arguments"))
	c.appendBlock(out, n.ChildByFieldName("block"))
	return out
}

// convertMethodCall handles grammars that wrap calls with arguments in a
// method_call node whose method field is either a name or a receiver call.
func (c *rubyConverter) convertMethodCall(n *sitter.Node) *syntax.Node {
	var out *syntax.Node
	m := n.ChildByFieldName("method")
	if m != nil && m.Type() == "call" {
		out = c.convertCall(m)
	} else {
		out = &syntax.Node{Kind: syntax.Send, Name: c.text(m)}
	}
	out.Range = rangeOf(n)

	c.appendArguments(out, n.ChildByFieldName("arguments"))
	c.appendBlock(out, n.ChildByFieldName("block"))
	return out
}

func (c *rubyConverter) appendArguments(out *syntax.Node, args *sitter.Node) {
	if args == nil {
		return
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		if conv := c.convert(args.NamedChild(i)); conv != nil {
			out.Args = append(out.Args, conv)
			out.Children = append(out.Children, conv)
		}
	}
}

func (c *rubyConverter) appendBlock(out *syntax.Node, block *sitter.Node) {
	if conv := c.convert(block); conv != nil {
		out.Children = append(out.Children, conv)
	}
}

// convertAssignment declares assigned locals and turns attribute writes such
// as `self.name = x` into calls to the writer method `name=`.
func (c *rubyConverter) convertAssignment(n *sitter.Node) *syntax.Node {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")

	if left != nil && left.Type() == "call" {
		out := &syntax.Node{Kind: syntax.Send, Range: rangeOf(n)}
		if recv := c.convert(left.ChildByFieldName("receiver")); recv != nil {
			out.Receiver = recv
			out.Children = append(out.Children, recv)
		}
		if m := left.ChildByFieldName("method"); m != nil {
			out.Name = c.text(m) + "="
		}
		if val := c.convert(right); val != nil {
			out.Args = append(out.Args, val)
			out.Children = append(out.Children, val)
		}
		return out
	}

	out := &syntax.Node{Kind: syntax.Other, Range: rangeOf(n)}
	if left != nil {
		switch left.Type() {
		case "identifier":
			c.declare(c.text(left))
		case "left_assignment_list", "destructured_left_assignment", "rest_assignment":
			c.declareParameters(left)
		default:
			if conv := c.convert(left); conv != nil {
				out.Children = append(out.Children, conv)
			}
		}
	}
	if val := c.convert(right); val != nil {
		out.Children = append(out.Children, val)
	}
	return out
}

// declareParameters declares every name bound by a parameter list or an
// assignment target.
func (c *rubyConverter) declareParameters(n *sitter.Node) {
	if n == nil {
		return
	}
	if n.Type() == "identifier" {
		c.declare(c.text(n))
		return
	}
	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
		c.declare(c.text(name))
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "identifier", "destructured_parameter", "left_assignment_list",
			"destructured_left_assignment", "rest_assignment",
			"optional_parameter", "keyword_parameter", "splat_parameter",
			"hash_splat_parameter", "block_parameter", "block_parameters":
			c.declareParameters(child)
		}
	}
}

func isOneOf(n *sitter.Node, set []*sitter.Node) bool {
	for _, s := range set {
		if s != nil && s.StartByte() == n.StartByte() && s.EndByte() == n.EndByte() && s.Type() == n.Type() {
			return true
		}
	}
	return false
}

func prepend(first *syntax.Node, rest []*syntax.Node) []*syntax.Node {
	if first == nil {
		return rest
	}
	return append([]*syntax.Node{first}, rest...)
}
