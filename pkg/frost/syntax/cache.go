package syntax

import (
	"strings"
	"sync"
)

// Tokens longer than this are not interned; long whitespace runs and comments
// rarely repeat.
const maxInternedTokenLen = 32

// Only nodes with at most this many children are deduplicated.
const maxCachedNodeChildren = 3

type tokenKey struct {
	kind Kind
	text string
}

type nodeKey struct {
	kind     Kind
	n        int
	children [maxCachedNodeChildren]GreenElement
}

// NodeCache interns green tokens and small green nodes so that repeated text and
// repeated subtrees share storage, within one tree and across trees built with the
// same cache. It is safe for concurrent use.
type NodeCache struct {
	mu     sync.Mutex
	tokens map[tokenKey]*GreenToken
	nodes  map[nodeKey]*GreenNode
}

// NewNodeCache creates an empty cache.
func NewNodeCache() *NodeCache {
	return &NodeCache{
		tokens: make(map[tokenKey]*GreenToken),
		nodes:  make(map[nodeKey]*GreenNode),
	}
}

func (c *NodeCache) token(kind Kind, text string) *GreenToken {
	if len(text) > maxInternedTokenLen {
		return NewGreenToken(kind, text)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := tokenKey{kind: kind, text: text}
	if tok, ok := c.tokens[key]; ok {
		return tok
	}
	// Own the text so the cache never pins a caller's input buffer.
	tok := NewGreenToken(kind, strings.Clone(text))
	c.tokens[tokenKey{kind: kind, text: tok.text}] = tok
	return tok
}

func (c *NodeCache) node(kind Kind, children []GreenElement) *GreenNode {
	if len(children) > maxCachedNodeChildren {
		return NewGreenNode(kind, children)
	}

	key := nodeKey{kind: kind, n: len(children)}
	copy(key.children[:], children)

	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.nodes[key]; ok {
		return node
	}
	node := NewGreenNode(kind, children)
	c.nodes[key] = node
	return node
}

// Len returns the number of interned tokens and nodes.
func (c *NodeCache) Len() (tokens, nodes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tokens), len(c.nodes)
}
