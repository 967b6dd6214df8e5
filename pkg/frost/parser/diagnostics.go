package parser

import (
	"sort"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// diagnose converts the error elements under root into diagnostics. An ErrorNode
// wrapping an Error token is reported once, as the lexical error.
func diagnose(root *syntax.Node, lines *syntax.LineIndex) []*errors.FrostError {
	var errs []*errors.FrostError
	leaves := root.LeafTokens()

	at := func(code string, r syntax.TextRange, data map[string]any) {
		line, col := lines.LineCol(r.Start)
		errs = append(errs, errors.NewAt(code, r.Start, r.Len(), line, col, data))
	}

	root.Walk(func(el syntax.Element, _ int) bool {
		switch n := el.(type) {
		case *syntax.Token:
			if n.Kind() == syntax.Error {
				at("LEX-0001", n.Range(), map[string]any{"Char": n.Text()})
			}
		case *syntax.Node:
			if n.Kind() != syntax.ErrorNode {
				return true
			}
			code, r, data := classify(n, lines, leaves)
			if code != "" {
				at(code, r, data)
			}
		}
		return true
	})

	return errs
}

// classify picks the diagnostic for an ErrorNode and the range it points at, or
// "" when its only token is an Error token that is reported on its own.
func classify(n *syntax.Node, lines *syntax.LineIndex, leaves []*syntax.Token) (string, syntax.TextRange, map[string]any) {
	tokens := n.SignificantTokens()
	if len(tokens) == 0 {
		parent := n.Parent()
		if parent != nil && parent.Kind() == syntax.ParenExpr &&
			n.IndexInParent() == parent.Green().NumChildren()-1 {
			_, col := lines.LineCol(parent.Range().Start)
			return "PARSE-0003", n.Range(), map[string]any{"OpenColumn": col}
		}
		// An empty node in the middle of the input stands before a ')' that
		// closes an enclosing parenthesis.
		if next := nextSignificant(leaves, n.Range().Start); next != nil {
			return "PARSE-0001", next.Range(), map[string]any{"Got": next.Text()}
		}
		return "PARSE-0002", n.Range(), nil
	}

	tok := tokens[0]
	switch {
	case tok.Kind() == syntax.Error:
		return "", n.Range(), nil
	case tok.Kind().IsKeyword():
		return "PARSE-0004", n.Range(), map[string]any{"Keyword": tok.Text()}
	default:
		return "PARSE-0001", n.Range(), map[string]any{"Got": tok.Text()}
	}
}

// nextSignificant returns the first non-trivia token starting at or after offset.
func nextSignificant(leaves []*syntax.Token, offset int) *syntax.Token {
	i := sort.Search(len(leaves), func(i int) bool { return leaves[i].Range().Start >= offset })
	for ; i < len(leaves); i++ {
		if !leaves[i].Kind().IsTrivia() {
			return leaves[i]
		}
	}
	return nil
}
