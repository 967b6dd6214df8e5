package parser

import "github.com/sambeau/frost/pkg/frost/syntax"

// Binding powers. Higher binds tighter.
const (
	_ int = iota * 10
	SUM      // + -
	PRODUCT  // * /
	PREFIX   // -x
)

var infixPowers = map[syntax.Kind]int{
	syntax.Plus:  SUM,
	syntax.Minus: SUM,
	syntax.Star:  PRODUCT,
	syntax.Slash: PRODUCT,
}

func expr(p *Parser) {
	exprBindingPower(p, 0)
}

// exprBindingPower parses a primary followed by every infix operator that binds
// tighter than minPower. Each operator wraps everything since the checkpoint, so
// the left operand of a later operator is the BinaryExpr built before it.
func exprBindingPower(p *Parser, minPower int) {
	p.bumpTrivia()
	cp := p.checkpoint()
	primary(p)

	for {
		kind, ok := p.peek()
		if !ok {
			return
		}
		power, ok := infixPowers[kind]
		if !ok || power <= minPower {
			return
		}

		p.bump()
		exprBindingPower(p, power+1)

		p.startNodeAt(cp, syntax.BinaryExpr)
		p.finishNode()
	}
}

func primary(p *Parser) {
	kind, ok := p.peek()
	if !ok {
		// Nothing left to consume: mark the gap.
		p.startNode(syntax.ErrorNode)
		p.finishNode()
		return
	}

	switch kind {
	case syntax.Number, syntax.Ident:
		p.bump()
	case syntax.LParen:
		parenExpr(p)
	case syntax.Minus:
		prefixExpr(p)
	case syntax.RParen:
		if p.parens > 0 {
			// Leave the ')' for the enclosing ParenExpr.
			p.startNode(syntax.ErrorNode)
			p.finishNode()
			return
		}
		p.startNode(syntax.ErrorNode)
		p.bump()
		p.finishNode()
	default:
		p.startNode(syntax.ErrorNode)
		p.bump()
		p.finishNode()
	}
}

func parenExpr(p *Parser) {
	p.startNode(syntax.ParenExpr)
	p.bump()
	p.parens++
	expr(p)
	p.parens--
	if p.at(syntax.RParen) {
		p.bump()
	} else {
		p.startNode(syntax.ErrorNode)
		p.finishNode()
	}
	p.finishNode()
}

func prefixExpr(p *Parser) {
	p.startNode(syntax.PrefixExpr)
	p.bump()
	exprBindingPower(p, PREFIX)
	p.finishNode()
}
