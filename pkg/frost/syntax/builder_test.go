package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderNested(t *testing.T) {
	b := NewBuilder(nil)
	b.StartNode(Root)
	b.StartNode(ParenExpr)
	b.Token(LParen, "(")
	b.Token(Number, "1")
	b.Token(RParen, ")")
	b.FinishNode()
	b.FinishNode()

	root := NewRoot(b.Finish())
	assert.Equal(t, Root, root.Kind())
	assert.Equal(t, "(1)", root.Text())
	assert.Equal(t, TextRange{0, 3}, root.Range())

	children := root.Children()
	require.Len(t, children, 1)
	assert.Equal(t, ParenExpr, children[0].Kind())
	assert.Same(t, root, children[0].Parent())
}

func TestBuilderStartNodeAtWrapsPrecedingSiblings(t *testing.T) {
	b := NewBuilder(nil)
	b.StartNode(Root)
	b.Token(Whitespace, " ")
	cp := b.Checkpoint()
	b.Token(Number, "1")
	b.Token(Plus, "+")
	b.Token(Number, "2")
	b.StartNodeAt(cp, BinaryExpr)
	b.FinishNode()
	b.FinishNode()

	expected := `Root@0..4
  Whitespace@0..1 " "
  BinaryExpr@1..4
    Number@1..2 "1"
    Plus@2..3 "+"
    Number@3..4 "2"
`
	assert.Equal(t, expected, DebugTree(NewRoot(b.Finish())))
}

func TestBuilderRepeatedCheckpointNestsLeft(t *testing.T) {
	b := NewBuilder(nil)
	b.StartNode(Root)
	cp := b.Checkpoint()
	b.Token(Number, "1")
	b.Token(Minus, "-")
	b.Token(Number, "2")
	b.StartNodeAt(cp, BinaryExpr)
	b.FinishNode()
	b.Token(Minus, "-")
	b.Token(Number, "3")
	b.StartNodeAt(cp, BinaryExpr)
	b.FinishNode()
	b.FinishNode()

	root := NewRoot(b.Finish())
	outer := root.Children()
	require.Len(t, outer, 1)
	inner := outer[0].Children()
	require.Len(t, inner, 1)
	assert.Equal(t, "1-2", inner[0].Text())
	assert.Equal(t, "1-2-3", outer[0].Text())
}

func TestBuilderPanicsOnMisuse(t *testing.T) {
	t.Run("finish without start", func(t *testing.T) {
		b := NewBuilder(nil)
		assert.Panics(t, func() { b.FinishNode() })
	})
	t.Run("unclosed node", func(t *testing.T) {
		b := NewBuilder(nil)
		b.StartNode(Root)
		assert.Panics(t, func() { b.Finish() })
	})
	t.Run("checkpoint out of range", func(t *testing.T) {
		b := NewBuilder(nil)
		b.StartNode(Root)
		assert.Panics(t, func() { b.StartNodeAt(Checkpoint(5), BinaryExpr) })
	})
	t.Run("checkpoint before open node", func(t *testing.T) {
		b := NewBuilder(nil)
		b.StartNode(Root)
		b.Token(Number, "1")
		cp := b.Checkpoint()
		b.StartNode(ParenExpr)
		b.Token(LParen, "(")
		assert.Panics(t, func() { b.StartNodeAt(cp-1, BinaryExpr) })
	})
	t.Run("token root", func(t *testing.T) {
		b := NewBuilder(nil)
		b.Token(Number, "1")
		assert.Panics(t, func() { b.Finish() })
	})
}

func TestNodeCacheSharesStructure(t *testing.T) {
	cache := NewNodeCache()
	build := func() *GreenNode {
		b := NewBuilder(cache)
		b.StartNode(Root)
		b.StartNode(BinaryExpr)
		b.Token(Number, "1")
		b.Token(Plus, "+")
		b.Token(Number, "1")
		b.FinishNode()
		b.FinishNode()
		return b.Finish()
	}

	first, second := build(), build()
	assert.Same(t, first.Child(0), second.Child(0), "identical subtrees should be shared")

	bin := first.Child(0).(*GreenNode)
	assert.Same(t, bin.Child(0), bin.Child(2), "identical tokens should be interned")

	tokens, nodes := cache.Len()
	assert.Equal(t, 2, tokens)
	assert.Equal(t, 2, nodes)
}

func TestNodeCacheSkipsLongTokens(t *testing.T) {
	cache := NewNodeCache()
	long := "# a comment that is much longer than the interning limit"
	a := cache.token(Comment, long)
	b := cache.token(Comment, long)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Text(), b.Text())
}

func TestGreenNodeChildrenIsACopy(t *testing.T) {
	node := NewGreenNode(Root, []GreenElement{NewGreenToken(Number, "1")})
	children := node.Children()
	children[0] = NewGreenToken(Number, "2")
	assert.Equal(t, "1", node.Text())
	assert.Equal(t, 1, node.TextLen())
}
