// Package syntax provides the lossless syntax tree used by the Frost front end.
//
// The tree has two layers. The green layer (GreenNode, GreenToken) is immutable,
// position-independent and pointer-shared: identical subtrees may be reused across
// trees and cloning a tree copies a single pointer. The red layer (Node, Token) is a
// thin cursor over the green layer that adds absolute byte offsets and parent links.
package syntax

// Kind tags every token and node in the tree.
type Kind uint16

const (
	// Tokens
	Error      Kind = iota // unrecognized input
	Whitespace             // spaces, tabs, newlines
	Comment                // # to end of line
	Number                 // 123
	Ident                  // foo, x1
	LetKw                  // let
	FnKw                   // fn
	Plus                   // +
	Minus                  // -
	Star                   // *
	Slash                  // /
	Equals                 // =
	LParen                 // (
	RParen                 // )
	LBrace                 // {
	RBrace                 // }

	// Nodes
	Root       // whole input
	BinaryExpr // lhs op rhs
	PrefixExpr // -operand
	ParenExpr  // ( expr )
	ErrorNode  // input that could not be parsed

	kindCount
)

var kindNames = [kindCount]string{
	Error:      "Error",
	Whitespace: "Whitespace",
	Comment:    "Comment",
	Number:     "Number",
	Ident:      "Ident",
	LetKw:      "LetKw",
	FnKw:       "FnKw",
	Plus:       "Plus",
	Minus:      "Minus",
	Star:       "Star",
	Slash:      "Slash",
	Equals:     "Equals",
	LParen:     "LParen",
	RParen:     "RParen",
	LBrace:     "LBrace",
	RBrace:     "RBrace",
	Root:       "Root",
	BinaryExpr: "BinaryExpr",
	PrefixExpr: "PrefixExpr",
	ParenExpr:  "ParenExpr",
	ErrorNode:  "ErrorNode",
}

// String returns the name used for the kind in debug trees.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether tokens of this kind carry no grammatical meaning.
func (k Kind) IsTrivia() bool {
	return k == Whitespace || k == Comment
}

// IsToken reports whether k is a token kind.
func (k Kind) IsToken() bool {
	return k < Root
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k == LetKw || k == FnKw
}

// IsError reports whether k marks a lexical or structural error.
func (k Kind) IsError() bool {
	return k == Error || k == ErrorNode
}
