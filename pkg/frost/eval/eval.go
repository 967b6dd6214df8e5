// Package eval computes integer values from Frost syntax trees.
package eval

import (
	"maps"
	"slices"
	"strconv"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// Env holds the values identifiers evaluate to.
type Env struct {
	store map[string]int64
}

// NewEnvironment creates an empty environment.
func NewEnvironment() *Env {
	return &Env{store: make(map[string]int64)}
}

// Get looks up name.
func (e *Env) Get(name string) (int64, bool) {
	v, ok := e.store[name]
	return v, ok
}

// Set binds name to v.
func (e *Env) Set(name string, v int64) {
	e.store[name] = v
}

// Names returns the bound names in sorted order.
func (e *Env) Names() []string {
	return slices.Sorted(maps.Keys(e.store))
}

// Eval evaluates the single expression under root. Arithmetic is on int64 and
// wraps on overflow; division truncates toward zero.
func Eval(root *syntax.Node, env *Env) (int64, *errors.FrostError) {
	if env == nil {
		env = NewEnvironment()
	}
	ev := &evaluator{env: env, lines: syntax.NewLineIndex(root.Text())}

	if first := firstError(root); first != nil {
		return 0, ev.errorAt("EVAL-0004", first.Range(), nil)
	}

	exprs := significant(root)
	if len(exprs) != 1 {
		return 0, ev.errorAt("EVAL-0003", root.Range(), map[string]any{"Count": len(exprs)})
	}
	return ev.eval(exprs[0])
}

type evaluator struct {
	env   *Env
	lines *syntax.LineIndex
}

func (ev *evaluator) eval(el syntax.Element) (int64, *errors.FrostError) {
	switch el := el.(type) {
	case *syntax.Token:
		return ev.evalToken(el)
	case *syntax.Node:
		return ev.evalNode(el)
	}
	panic("eval: unknown element")
}

func (ev *evaluator) evalToken(tok *syntax.Token) (int64, *errors.FrostError) {
	switch tok.Kind() {
	case syntax.Number:
		v, err := strconv.ParseInt(tok.Text(), 10, 64)
		if err != nil {
			return 0, ev.errorAt("EVAL-0005", tok.Range(), map[string]any{"Literal": tok.Text()})
		}
		return v, nil
	case syntax.Ident:
		if v, ok := ev.env.Get(tok.Text()); ok {
			return v, nil
		}
		err := errors.NewUndefinedIdentifier(tok.Text(), ev.env.Names())
		return 0, ev.position(err, tok.Range())
	}
	panic("eval: unexpected token " + tok.Kind().String())
}

func (ev *evaluator) evalNode(n *syntax.Node) (int64, *errors.FrostError) {
	parts := significant(n)

	switch n.Kind() {
	case syntax.ParenExpr:
		// ( expr )
		return ev.eval(parts[1])

	case syntax.PrefixExpr:
		v, err := ev.eval(parts[1])
		if err != nil {
			return 0, err
		}
		return -v, nil

	case syntax.BinaryExpr:
		left, err := ev.eval(parts[0])
		if err != nil {
			return 0, err
		}
		right, err := ev.eval(parts[2])
		if err != nil {
			return 0, err
		}
		return ev.evalInfix(parts[1], left, right)
	}
	panic("eval: unexpected node " + n.Kind().String())
}

func (ev *evaluator) evalInfix(op syntax.Element, left, right int64) (int64, *errors.FrostError) {
	switch op.Kind() {
	case syntax.Plus:
		return left + right, nil
	case syntax.Minus:
		return left - right, nil
	case syntax.Star:
		return left * right, nil
	case syntax.Slash:
		if right == 0 {
			return 0, ev.errorAt("EVAL-0002", op.Range(), nil)
		}
		return left / right, nil
	}
	panic("eval: unknown operator " + op.Kind().String())
}

func (ev *evaluator) errorAt(code string, r syntax.TextRange, data map[string]any) *errors.FrostError {
	return ev.position(errors.New(code, data), r)
}

func (ev *evaluator) position(err *errors.FrostError, r syntax.TextRange) *errors.FrostError {
	line, col := ev.lines.LineCol(r.Start)
	err.Line, err.Column = line, col
	err.Offset, err.Length = r.Start, r.Len()
	return err
}

// significant returns the children of n that are not trivia.
func significant(n *syntax.Node) []syntax.Element {
	var out []syntax.Element
	for _, c := range n.ChildrenWithTokens() {
		if !c.Kind().IsTrivia() {
			out = append(out, c)
		}
	}
	return out
}

func firstError(root *syntax.Node) syntax.Element {
	var found syntax.Element
	root.Walk(func(el syntax.Element, _ int) bool {
		if found == nil && el.Kind().IsError() {
			found = el
		}
		return found == nil
	})
	return found
}
