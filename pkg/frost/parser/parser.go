// Package parser turns Frost source into a lossless syntax tree.
//
// Parsing happens in two passes. The parser walks the lexemes once and records what
// the tree should look like as a flat event log; the sink then replays that log into
// a syntax.Builder. Operators found after their left operand wrap it retroactively
// with a StartNodeAt event pointing back at a checkpoint.
package parser

import (
	"fmt"
	"strings"

	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// Parser records events for one input. Use Parse unless the raw event log is all
// that is wanted.
type Parser struct {
	source *source
	events []Event
	open   int // nodes started and not yet finished
	parens int // ParenExprs waiting for their ')'
}

// New creates a parser over already tokenized input.
func New(lexemes []lexer.Lexeme) *Parser {
	return &Parser{source: newSource(lexemes)}
}

// Events parses the whole input and returns the event log. The log always starts
// with StartNode(Root) and ends with the matching FinishNode.
func (p *Parser) Events() []Event {
	p.startNode(syntax.Root)
	for {
		p.bumpTrivia()
		if _, ok := p.source.peekKind(); !ok {
			break
		}
		expr(p)
	}
	p.finishNode()

	if !p.source.atEnd() {
		panic("parser: input left over after the root was finished")
	}
	return p.events
}

func (p *Parser) startNode(kind syntax.Kind) {
	p.events = append(p.events, Event{Type: StartNode, Kind: kind})
	p.open++
}

// startNodeAt opens kind as the parent of everything recorded since cp.
func (p *Parser) startNodeAt(cp int, kind syntax.Kind) {
	if cp < 0 || cp > len(p.events) {
		panic(fmt.Sprintf("parser: checkpoint %d outside the event log (%d events)", cp, len(p.events)))
	}
	p.events = append(p.events, Event{Type: StartNodeAt, Kind: kind, Checkpoint: cp})
	p.open++
}

func (p *Parser) finishNode() {
	if p.open == 0 {
		panic("parser: finishNode without an open node")
	}
	p.events = append(p.events, Event{Type: FinishNode})
	p.open--
}

// checkpoint marks the current end of the log for a later startNodeAt.
func (p *Parser) checkpoint() int {
	return len(p.events)
}

func (p *Parser) peek() (syntax.Kind, bool) {
	return p.source.peekKind()
}

func (p *Parser) at(kind syntax.Kind) bool {
	k, ok := p.peek()
	return ok && k == kind
}

// bump attaches any pending trivia to the open node, then consumes the next
// significant lexeme.
func (p *Parser) bump() {
	p.bumpTrivia()
	p.addToken(p.source.next())
}

func (p *Parser) bumpTrivia() {
	for p.source.atTrivia() {
		p.addToken(p.source.next())
	}
}

func (p *Parser) addToken(lex lexer.Lexeme) {
	// The event owns its text; the lexeme keeps the whole input alive otherwise.
	p.events = append(p.events, Event{Type: AddToken, Kind: lex.Kind, Text: strings.Clone(lex.Text)})
}
