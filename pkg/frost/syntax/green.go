package syntax

import "strings"

// GreenElement is either a *GreenNode or a *GreenToken.
type GreenElement interface {
	Kind() Kind
	TextLen() int
	writeText(sb *strings.Builder)
}

// GreenToken is an immutable leaf: a kind and the exact source text.
type GreenToken struct {
	kind Kind
	text string
}

// NewGreenToken creates a token. Prefer Builder.Token, which interns through a NodeCache.
func NewGreenToken(kind Kind, text string) *GreenToken {
	return &GreenToken{kind: kind, text: text}
}

func (t *GreenToken) Kind() Kind   { return t.kind }
func (t *GreenToken) Text() string { return t.text }
func (t *GreenToken) TextLen() int { return len(t.text) }

func (t *GreenToken) writeText(sb *strings.Builder) {
	sb.WriteString(t.text)
}

// GreenNode is an immutable interior node. It knows the total length of its text
// but not its position, which is what allows the same node to appear in several trees.
type GreenNode struct {
	kind     Kind
	textLen  int
	children []GreenElement
}

// NewGreenNode creates a node owning a copy of children.
func NewGreenNode(kind Kind, children []GreenElement) *GreenNode {
	owned := make([]GreenElement, len(children))
	copy(owned, children)

	textLen := 0
	for _, c := range owned {
		textLen += c.TextLen()
	}
	return &GreenNode{kind: kind, textLen: textLen, children: owned}
}

func (n *GreenNode) Kind() Kind   { return n.kind }
func (n *GreenNode) TextLen() int { return n.textLen }

// NumChildren returns the number of direct children, tokens included.
func (n *GreenNode) NumChildren() int {
	return len(n.children)
}

// Child returns the i-th direct child.
func (n *GreenNode) Child(i int) GreenElement {
	return n.children[i]
}

// Children returns a copy of the direct children.
func (n *GreenNode) Children() []GreenElement {
	out := make([]GreenElement, len(n.children))
	copy(out, n.children)
	return out
}

// Text reassembles the source text covered by the node.
func (n *GreenNode) Text() string {
	var sb strings.Builder
	sb.Grow(n.textLen)
	n.writeText(&sb)
	return sb.String()
}

func (n *GreenNode) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		c.writeText(sb)
	}
}
