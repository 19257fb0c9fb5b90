// Package testutil holds helpers shared by package tests: hand-built syntax
// trees and ordering assertions.
package testutil

import "github.com/phobologic/waterfall/internal/syntax"

// Def returns a method definition whose body is the given statements.
func Def(name string, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Definition, Name: name, Body: body, Children: body}
}

// SingletonDef returns a `def self.name` definition.
func SingletonDef(name string, body ...*syntax.Node) *syntax.Node {
	n := Def(name, body...)
	n.Kind = syntax.SingletonDefinition
	return n
}

// Call returns a receiverless call with the given arguments.
func Call(name string, args ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Send, Name: name, Args: args, Children: args}
}

// SelfCall returns `self.name`.
func SelfCall(name string) *syntax.Node {
	self := &syntax.Node{Kind: syntax.Self}
	return &syntax.Node{Kind: syntax.Send, Name: name, Receiver: self, Children: []*syntax.Node{self}}
}

// RecvCall returns `recv.name` where recv is an opaque expression.
func RecvCall(recv, name string) *syntax.Node {
	r := &syntax.Node{Kind: syntax.Other, Name: recv}
	return &syntax.Node{Kind: syntax.Send, Name: name, Receiver: r, Children: []*syntax.Node{r}}
}

// Expr returns an opaque expression wrapping children, such as a block or a
// conditional.
func Expr(children ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: syntax.Other, Children: children}
}

// Scope returns a scope node of the given kind with body statements.
func Scope(kind syntax.Kind, name string, body ...*syntax.Node) *syntax.Node {
	return &syntax.Node{Kind: kind, Name: name, Body: body, Children: body}
}

// Names returns the Name of each node.
func Names(nodes []*syntax.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

// IsOrderedSubsequence reports whether every element of sub appears in seq
// in the same relative order. Elements of seq not in sub are ignored.
func IsOrderedSubsequence(seq, sub []string) bool {
	i := 0
	for _, s := range seq {
		if i < len(sub) && s == sub[i] {
			i++
		}
	}
	return i == len(sub)
}

// Before reports whether a occurs before b in seq. Missing names report false.
func Before(seq []string, a, b string) bool {
	ia, ib := -1, -1
	for i, s := range seq {
		if s == a && ia < 0 {
			ia = i
		}
		if s == b && ib < 0 {
			ib = i
		}
	}
	return ia >= 0 && ib >= 0 && ia < ib
}
