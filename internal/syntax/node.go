// Package syntax defines the language-neutral tree the ordering rule reads.
//
// Parsers convert their native trees into syntax.Node values; nothing outside
// internal/lang and internal/parse knows about tree-sitter.
package syntax

// Kind is the closed set of node variants the ordering rule distinguishes.
type Kind int

const (
	Other Kind = iota
	Definition
	SingletonDefinition
	Send
	Self
	Class
	Module
	SingletonClass
	Program
)

var kindNames = [...]string{
	Other:               "other",
	Definition:          "def",
	SingletonDefinition: "defs",
	Send:                "send",
	Self:                "self",
	Class:               "class",
	Module:              "module",
	SingletonClass:      "sclass",
	Program:             "program",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Range is a half-open byte range into a Source.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by r.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return o.Start >= r.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Node is a single syntax tree node.
//
// Name holds the method name for Definition, SingletonDefinition and Send,
// and the constant path for Class and Module. Body holds the statements of
// definitions and scopes. Receiver and Args are only set on Send.
// Children lists every sub-node in source order and is what traversals walk.
type Node struct {
	Kind     Kind
	Name     string
	Receiver *Node
	Args     []*Node
	Body     []*Node
	Children []*Node
	Range    Range
}

// IsDefinition reports whether n defines a method.
func (n *Node) IsDefinition() bool {
	return n != nil && (n.Kind == Definition || n.Kind == SingletonDefinition)
}

// IsScope reports whether n opens a new lexical scope for method ordering.
func (n *Node) IsScope() bool {
	if n == nil {
		return false
	}
	switch n.Kind {
	case Class, Module, SingletonClass, Program:
		return true
	default:
		return false
	}
}

// IsLocalSend reports whether n is a call with no receiver or an explicit self.
func (n *Node) IsLocalSend() bool {
	if n == nil || n.Kind != Send {
		return false
	}
	return n.Receiver == nil || n.Receiver.Kind == Self
}

var visibilityModifiers = map[string]struct{}{
	"private":   {},
	"protected": {},
	"public":    {},
}

// IsBareVisibility reports whether n is a private/protected/public call with
// no receiver and no arguments, which changes the visibility of the methods
// defined after it.
func (n *Node) IsBareVisibility() bool {
	if n == nil || n.Kind != Send || n.Receiver != nil || len(n.Args) > 0 {
		return false
	}
	_, ok := visibilityModifiers[n.Name]
	return ok
}

// Walk calls fn for n and every descendant in pre-order. Returning false from
// fn skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Definitions returns the method definitions that are direct statements of body.
func Definitions(body []*Node) []*Node {
	var defs []*Node
	for _, st := range body {
		if st.IsDefinition() {
			defs = append(defs, st)
		}
	}
	return defs
}
