package parser

import (
	"fmt"

	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// sink replays an event log into a green tree. It checks the log against the
// lexemes it was produced from; any mismatch is a parser bug and panics.
type sink struct {
	lexemes []lexer.Lexeme
	cursor  int
	events  []Event
	builder *syntax.Builder
}

func newSink(lexemes []lexer.Lexeme, events []Event, cache *syntax.NodeCache) *sink {
	return &sink{
		lexemes: lexemes,
		events:  events,
		builder: syntax.NewBuilder(cache),
	}
}

func (s *sink) finish() *syntax.GreenNode {
	// marks[i] is the builder position just before event i was applied, so a
	// checkpoint into the log resolves to a checkpoint into the builder.
	marks := make([]syntax.Checkpoint, len(s.events))

	for i, ev := range s.events {
		marks[i] = s.builder.Checkpoint()

		switch ev.Type {
		case StartNode:
			s.builder.StartNode(ev.Kind)
		case StartNodeAt:
			if ev.Checkpoint < 0 || ev.Checkpoint > i {
				panic(fmt.Sprintf("parser: event %d refers to checkpoint %d ahead of it", i, ev.Checkpoint))
			}
			s.builder.StartNodeAt(marks[ev.Checkpoint], ev.Kind)
		case AddToken:
			s.token(i, ev)
		case FinishNode:
			if s.builder.Depth() == 0 {
				panic(fmt.Sprintf("parser: event %d finishes a node that was never started", i))
			}
			s.builder.FinishNode()
		default:
			panic(fmt.Sprintf("parser: event %d has unknown type %s", i, ev.Type))
		}
	}

	if s.cursor != len(s.lexemes) {
		panic(fmt.Sprintf("parser: %d of %d lexemes never reached the tree", len(s.lexemes)-s.cursor, len(s.lexemes)))
	}
	return s.builder.Finish()
}

func (s *sink) token(i int, ev Event) {
	if s.cursor >= len(s.lexemes) {
		panic(fmt.Sprintf("parser: event %d adds %s past the end of the input", i, ev))
	}
	lex := s.lexemes[s.cursor]
	if lex.Kind != ev.Kind || lex.Text != ev.Text {
		panic(fmt.Sprintf("parser: event %d adds %s but the next lexeme is %s", i, ev, lex))
	}
	s.cursor++
	s.builder.Token(ev.Kind, ev.Text)
}
