package syntax

import "fmt"

// Checkpoint marks a position among the children of the currently open node.
// StartNodeAt uses it to open a node that adopts every child added after it.
type Checkpoint int

type parentFrame struct {
	kind       Kind
	firstChild int
}

// Builder assembles a green tree bottom-up. Misuse (finishing a node that was never
// started, finishing with nodes still open, stale checkpoints) is a programming error
// and panics.
type Builder struct {
	cache    *NodeCache
	parents  []parentFrame
	children []GreenElement
}

// NewBuilder creates a builder. A nil cache gets a private one.
func NewBuilder(cache *NodeCache) *Builder {
	if cache == nil {
		cache = NewNodeCache()
	}
	return &Builder{cache: cache}
}

// Token adds a leaf to the current node.
func (b *Builder) Token(kind Kind, text string) {
	b.children = append(b.children, b.cache.token(kind, text))
}

// StartNode opens a new node as the last child of the current node.
func (b *Builder) StartNode(kind Kind) {
	b.parents = append(b.parents, parentFrame{kind: kind, firstChild: len(b.children)})
}

// Checkpoint returns the current position so a node can later be started before
// everything added from here on.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNodeAt opens a node whose first child is the one added right after cp was
// taken. The new node must be opened at the same depth the checkpoint was taken at.
func (b *Builder) StartNodeAt(cp Checkpoint, kind Kind) {
	at := int(cp)
	if at < 0 || at > len(b.children) {
		panic(fmt.Sprintf("syntax: checkpoint %d out of range (%d children)", at, len(b.children)))
	}
	if n := len(b.parents); n > 0 && b.parents[n-1].firstChild > at {
		panic("syntax: checkpoint no longer valid, was an unmatched StartNode called?")
	}
	b.parents = append(b.parents, parentFrame{kind: kind, firstChild: at})
}

// FinishNode closes the innermost open node.
func (b *Builder) FinishNode() {
	n := len(b.parents)
	if n == 0 {
		panic("syntax: FinishNode without a matching StartNode")
	}
	frame := b.parents[n-1]
	b.parents = b.parents[:n-1]

	node := b.cache.node(frame.kind, b.children[frame.firstChild:])
	b.children = append(b.children[:frame.firstChild], node)
}

// Depth returns the number of open nodes.
func (b *Builder) Depth() int {
	return len(b.parents)
}

// Finish returns the single root node. All nodes must be closed.
func (b *Builder) Finish() *GreenNode {
	if len(b.parents) != 0 {
		panic(fmt.Sprintf("syntax: Finish with %d unclosed node(s)", len(b.parents)))
	}
	if len(b.children) != 1 {
		panic(fmt.Sprintf("syntax: Finish expects exactly one root, got %d elements", len(b.children)))
	}
	root, ok := b.children[0].(*GreenNode)
	if !ok {
		panic("syntax: root element is a token")
	}
	return root
}
