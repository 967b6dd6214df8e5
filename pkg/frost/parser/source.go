package parser

import (
	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// source is a forward-only cursor over the lexemes of one parse.
type source struct {
	lexemes []lexer.Lexeme
	cursor  int
}

func newSource(lexemes []lexer.Lexeme) *source {
	return &source{lexemes: lexemes}
}

// peekKind returns the kind of the next significant lexeme without consuming
// anything. Trivia is skipped over, never consumed.
func (s *source) peekKind() (syntax.Kind, bool) {
	for i := s.cursor; i < len(s.lexemes); i++ {
		if kind := s.lexemes[i].Kind; !kind.IsTrivia() {
			return kind, true
		}
	}
	return syntax.Error, false
}

// atTrivia reports whether the very next lexeme is trivia.
func (s *source) atTrivia() bool {
	return s.cursor < len(s.lexemes) && s.lexemes[s.cursor].Kind.IsTrivia()
}

// next consumes the next lexeme, trivia or not.
func (s *source) next() lexer.Lexeme {
	if s.cursor >= len(s.lexemes) {
		panic("parser: consumed past the end of the input")
	}
	lex := s.lexemes[s.cursor]
	s.cursor++
	return lex
}

func (s *source) atEnd() bool {
	return s.cursor >= len(s.lexemes)
}
