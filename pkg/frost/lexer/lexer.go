// Package lexer splits Frost source text into lexemes.
//
// Every byte of the input belongs to exactly one lexeme. Whitespace and comments are
// kept as trivia lexemes, and text that matches no rule becomes an Error lexeme, so
// joining the Text of all lexemes reproduces the input.
package lexer

import (
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/sambeau/frost/pkg/frost/syntax"
)

// Lexeme is a classified slice of the input. Text shares storage with the input.
type Lexeme struct {
	Kind syntax.Kind
	Text string
}

// String returns a string representation of the lexeme
func (l Lexeme) String() string {
	return fmt.Sprintf("{Kind: %s, Text: %q}", l.Kind, l.Text)
}

// keywords take priority over identifiers of the same length
var keywords = map[string]syntax.Kind{
	"let": syntax.LetKw,
	"fn":  syntax.FnKw,
}

// Keywords lists the reserved words, for completion and typo hints.
var Keywords = []string{"let", "fn"}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) syntax.Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return syntax.Ident
}

// IsIdentifier reports whether s lexes as exactly one identifier. Keywords
// and text with surrounding trivia are not identifiers.
func IsIdentifier(s string) bool {
	lexemes := Tokenize(s)
	return len(lexemes) == 1 && lexemes[0].Kind == syntax.Ident
}

var punctuation = [128]syntax.Kind{
	'+': syntax.Plus,
	'-': syntax.Minus,
	'*': syntax.Star,
	'/': syntax.Slash,
	'=': syntax.Equals,
	'(': syntax.LParen,
	')': syntax.RParen,
	'{': syntax.LBrace,
	'}': syntax.RBrace,
}

// Lexer produces lexemes on demand. It cannot be rewound; start a new Lexer to
// tokenize the same input again.
type Lexer struct {
	input    string
	position int // start of the next lexeme
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next lexeme, or false once the input is exhausted.
func (l *Lexer) Next() (Lexeme, bool) {
	if l.position >= len(l.input) {
		return Lexeme{}, false
	}

	start := l.position
	kind, size := l.match(l.input[start:])
	l.position += size
	return Lexeme{Kind: kind, Text: l.input[start:l.position]}, true
}

// All yields the remaining lexemes.
func (l *Lexer) All() iter.Seq[Lexeme] {
	return func(yield func(Lexeme) bool) {
		for {
			lex, ok := l.Next()
			if !ok || !yield(lex) {
				return
			}
		}
	}
}

// Tokenize returns every lexeme of input.
func Tokenize(input string) []Lexeme {
	var lexemes []Lexeme
	for lex := range New(input).All() {
		lexemes = append(lexemes, lex)
	}
	return lexemes
}

// match picks the rule with the longest match at the start of s. The rules below
// never overlap on their first byte, so the longest match of the applicable rule
// wins; keywords and identifiers share a rule and keywords win on equal text.
func (l *Lexer) match(s string) (syntax.Kind, int) {
	ch := s[0]
	switch {
	case isWhitespace(ch):
		return syntax.Whitespace, span(s, isWhitespace)
	case ch == '#':
		n := 1
		for n < len(s) && s[n] != '\n' {
			n++
		}
		return syntax.Comment, n
	case isDigit(ch):
		return syntax.Number, span(s, isDigit)
	case isLetter(ch):
		n := span(s, isAlnum)
		return LookupIdent(s[:n]), n
	case ch < utf8.RuneSelf && punctuation[ch] != syntax.Error:
		return punctuation[ch], 1
	}

	// Unrecognized: one rune, or one byte of invalid UTF-8
	_, size := utf8.DecodeRuneInString(s)
	return syntax.Error, size
}

// span returns the length of the prefix of s whose bytes satisfy ok.
func span(s string, ok func(byte) bool) int {
	n := 0
	for n < len(s) && ok(s[n]) {
		n++
	}
	return n
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
