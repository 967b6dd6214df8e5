package parser

import (
	"slices"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// Result holds one parsed input: the tree plus the intermediate
// lexemes and events it was built from.
type Result struct {
	input   string
	lexemes []lexer.Lexeme
	events  []Event
	green   *syntax.GreenNode
	root    *syntax.Node
}

// Parse tokenizes and parses input with a private node cache. It never fails:
// malformed input shows up as Error tokens and ErrorNode nodes in the tree.
func Parse(input string) *Result {
	return ParseWithCache(input, nil)
}

// ParseWithCache is Parse with a node cache shared between parses, so
// identical subtrees of different inputs are the same green nodes.
func ParseWithCache(input string, cache *syntax.NodeCache) *Result {
	lexemes := lexer.Tokenize(input)
	events := New(lexemes).Events()
	green := newSink(lexemes, events, cache).finish()

	return &Result{
		input:   input,
		lexemes: lexemes,
		events:  events,
		green:   green,
		root:    syntax.NewRoot(green),
	}
}

// Input returns the parsed source text.
func (r *Result) Input() string { return r.input }

// Green returns the immutable green root.
func (r *Result) Green() *syntax.GreenNode { return r.green }

// Root returns the red root node, positioned at offset 0.
func (r *Result) Root() *syntax.Node { return r.root }

// Lexemes returns a copy of the lexemes the tree was built from.
func (r *Result) Lexemes() []lexer.Lexeme { return slices.Clone(r.lexemes) }

// Events returns a copy of the event log the tree was built from.
func (r *Result) Events() []Event { return slices.Clone(r.events) }

// DebugTree returns the indented outline of the tree.
func (r *Result) DebugTree() string {
	return syntax.DebugTree(r.root)
}

// Errors returns one diagnostic per error element in the tree, in source order.
func (r *Result) Errors() []*errors.FrostError {
	return diagnose(r.root, syntax.NewLineIndex(r.input))
}

// HasErrors reports whether the tree holds any Error token or ErrorNode.
func (r *Result) HasErrors() bool {
	found := false
	r.root.Walk(func(el syntax.Element, _ int) bool {
		if el.Kind().IsError() {
			found = true
		}
		return !found
	})
	return found
}
