package syntax

import "fmt"

// TextRange is a half-open byte range [Start, End) in the source text.
type TextRange struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (r TextRange) Len() int {
	return r.End - r.Start
}

// Contains reports whether offset lies inside the range.
func (r TextRange) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Element is either a *Node or a *Token.
type Element interface {
	Kind() Kind
	Range() TextRange
	Parent() *Node
}

// Node is a positioned view of a GreenNode. Nodes are created on demand while
// navigating and are cheap to discard; the green tree is the storage.
type Node struct {
	green  *GreenNode
	offset int
	parent *Node
	index  int
}

// NewRoot creates the red root of a green tree.
func NewRoot(green *GreenNode) *Node {
	return &Node{green: green}
}

func (n *Node) Kind() Kind         { return n.green.kind }
func (n *Node) Green() *GreenNode  { return n.green }
func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) Text() string       { return n.green.Text() }
func (n *Node) Range() TextRange   { return TextRange{Start: n.offset, End: n.offset + n.green.textLen} }
func (n *Node) IndexInParent() int { return n.index }

// ChildrenWithTokens returns the direct children in source order.
func (n *Node) ChildrenWithTokens() []Element {
	out := make([]Element, 0, len(n.green.children))
	offset := n.offset
	for i, c := range n.green.children {
		out = append(out, n.wrap(c, offset, i))
		offset += c.TextLen()
	}
	return out
}

// Children returns the direct child nodes, skipping tokens.
func (n *Node) Children() []*Node {
	var out []*Node
	offset := n.offset
	for i, c := range n.green.children {
		if g, ok := c.(*GreenNode); ok {
			out = append(out, &Node{green: g, offset: offset, parent: n, index: i})
		}
		offset += c.TextLen()
	}
	return out
}

// Tokens returns the direct child tokens, skipping nodes.
func (n *Node) Tokens() []*Token {
	var out []*Token
	offset := n.offset
	for i, c := range n.green.children {
		if g, ok := c.(*GreenToken); ok {
			out = append(out, &Token{green: g, offset: offset, parent: n, index: i})
		}
		offset += c.TextLen()
	}
	return out
}

// SignificantTokens returns the direct child tokens that are not trivia.
func (n *Node) SignificantTokens() []*Token {
	var out []*Token
	for _, t := range n.Tokens() {
		if !t.Kind().IsTrivia() {
			out = append(out, t)
		}
	}
	return out
}

func (n *Node) wrap(c GreenElement, offset, index int) Element {
	switch g := c.(type) {
	case *GreenNode:
		return &Node{green: g, offset: offset, parent: n, index: index}
	case *GreenToken:
		return &Token{green: g, offset: offset, parent: n, index: index}
	default:
		panic(fmt.Sprintf("syntax: unknown green element %T", c))
	}
}

// Walk visits n and its descendants in preorder. Returning false from fn skips the
// children of the element just visited.
func (n *Node) Walk(fn func(el Element, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(Element, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.ChildrenWithTokens() {
		switch el := c.(type) {
		case *Node:
			el.walk(fn, depth+1)
		case *Token:
			fn(el, depth+1)
		}
	}
}

// LeafTokens returns every token under n in source order.
func (n *Node) LeafTokens() []*Token {
	var out []*Token
	n.Walk(func(el Element, _ int) bool {
		if t, ok := el.(*Token); ok {
			out = append(out, t)
		}
		return true
	})
	return out
}

// Token is a positioned view of a GreenToken.
type Token struct {
	green  *GreenToken
	offset int
	parent *Node
	index  int
}

func (t *Token) Kind() Kind         { return t.green.kind }
func (t *Token) Text() string       { return t.green.text }
func (t *Token) Green() *GreenToken { return t.green }
func (t *Token) Parent() *Node      { return t.parent }
func (t *Token) IndexInParent() int { return t.index }
func (t *Token) Range() TextRange {
	return TextRange{Start: t.offset, End: t.offset + len(t.green.text)}
}
