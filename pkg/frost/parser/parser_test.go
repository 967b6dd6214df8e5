package parser

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/frost/pkg/frost/syntax"
)

func TestDebugTrees(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty input", "", "Root@0..0\n"},
		{"precedence", "1+2*3", `Root@0..5
  BinaryExpr@0..5
    Number@0..1 "1"
    Plus@1..2 "+"
    BinaryExpr@2..5
      Number@2..3 "2"
      Star@3..4 "*"
      Number@4..5 "3"
`},
		{"left associativity", "1-2-3", `Root@0..5
  BinaryExpr@0..5
    BinaryExpr@0..3
      Number@0..1 "1"
      Minus@1..2 "-"
      Number@2..3 "2"
    Minus@3..4 "-"
    Number@4..5 "3"
`},
		{"parentheses override precedence", "(1+2)*3", `Root@0..7
  BinaryExpr@0..7
    ParenExpr@0..5
      LParen@0..1 "("
      BinaryExpr@1..4
        Number@1..2 "1"
        Plus@2..3 "+"
        Number@3..4 "2"
      RParen@4..5 ")"
    Star@5..6 "*"
    Number@6..7 "3"
`},
		{"trivia attachment", "  1 + 2", `Root@0..7
  Whitespace@0..2 "  "
  BinaryExpr@2..7
    Number@2..3 "1"
    Whitespace@3..4 " "
    Plus@4..5 "+"
    Whitespace@5..6 " "
    Number@6..7 "2"
`},
		{"prefix binds tighter than product", "-1 * 2", `Root@0..6
  BinaryExpr@0..6
    PrefixExpr@0..2
      Minus@0..1 "-"
      Number@1..2 "1"
    Whitespace@2..3 " "
    Star@3..4 "*"
    Whitespace@4..5 " "
    Number@5..6 "2"
`},
		{"nested prefix", "--x", `Root@0..3
  PrefixExpr@0..3
    Minus@0..1 "-"
    PrefixExpr@1..3
      Minus@1..2 "-"
      Ident@2..3 "x"
`},
		{"trailing comment", "1 # one\n", `Root@0..8
  Number@0..1 "1"
  Whitespace@1..2 " "
  Comment@2..7 "# one"
  Whitespace@7..8 "\n"
`},
		{"recovery", "+1", `Root@0..2
  ErrorNode@0..1
    Plus@0..1 "+"
  Number@1..2 "1"
`},
		{"missing closing paren", "(1", `Root@0..2
  ParenExpr@0..2
    LParen@0..1 "("
    Number@1..2 "1"
    ErrorNode@2..2
`},
		{"missing right operand", "1 +", `Root@0..3
  BinaryExpr@0..3
    Number@0..1 "1"
    Whitespace@1..2 " "
    Plus@2..3 "+"
    ErrorNode@3..3
`},
		{"empty parentheses", "()", `Root@0..2
  ParenExpr@0..2
    LParen@0..1 "("
    ErrorNode@1..1
    RParen@1..2 ")"
`},
		{"missing operand before closing paren", "(1 +)", `Root@0..5
  ParenExpr@0..5
    LParen@0..1 "("
    BinaryExpr@1..4
      Number@1..2 "1"
      Whitespace@2..3 " "
      Plus@3..4 "+"
      ErrorNode@4..4
    RParen@4..5 ")"
`},
		{"stray closing paren outside parentheses", ")", `Root@0..1
  ErrorNode@0..1
    RParen@0..1 ")"
`},
		{"unrecognized character", "1 @ 2", `Root@0..5
  Number@0..1 "1"
  Whitespace@1..2 " "
  ErrorNode@2..3
    Error@2..3 "@"
  Whitespace@3..4 " "
  Number@4..5 "2"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Parse(tt.input).DebugTree())
		})
	}
}

func TestPrecedenceShape(t *testing.T) {
	root := Parse("1+2*3").Root()
	require.Len(t, root.Children(), 1)

	add := root.Children()[0]
	require.Equal(t, syntax.BinaryExpr, add.Kind())
	assert.Equal(t, syntax.Plus, add.SignificantTokens()[1].Kind())

	operands := add.Children()
	require.Len(t, operands, 1, "only the right operand is a node")
	assert.Equal(t, syntax.BinaryExpr, operands[0].Kind())
	assert.Equal(t, "2*3", operands[0].Text())
}

func TestEmptyInput(t *testing.T) {
	res := Parse("")
	assert.Equal(t, syntax.Root, res.Root().Kind())
	assert.Empty(t, res.Root().ChildrenWithTokens())
	assert.Equal(t, syntax.TextRange{}, res.Root().Range())
	assert.False(t, res.HasErrors())
	assert.Empty(t, res.Errors())
}

func TestEvents(t *testing.T) {
	got := Parse("1+2").Events()
	expected := []Event{
		{Type: StartNode, Kind: syntax.Root},
		{Type: AddToken, Kind: syntax.Number, Text: "1"},
		{Type: AddToken, Kind: syntax.Plus, Text: "+"},
		{Type: AddToken, Kind: syntax.Number, Text: "2"},
		{Type: StartNodeAt, Kind: syntax.BinaryExpr, Checkpoint: 1},
		{Type: FinishNode},
		{Type: FinishNode},
	}
	assert.Equal(t, expected, got)
}

func TestEventString(t *testing.T) {
	tests := []struct {
		event    Event
		expected string
	}{
		{Event{Type: StartNode, Kind: syntax.Root}, "StartNode(Root)"},
		{Event{Type: StartNodeAt, Kind: syntax.BinaryExpr, Checkpoint: 3}, "StartNodeAt(BinaryExpr, 3)"},
		{Event{Type: AddToken, Kind: syntax.Number, Text: "1"}, `AddToken(Number, "1")`},
		{Event{Type: FinishNode}, "FinishNode"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.event.String())
	}
}

// inputs mixes well-formed, malformed and trivia-heavy sources.
var inputs = []string{
	"",
	" ",
	"1",
	"1 + 2 * 3 - 4 / 5",
	"((((x))))",
	"-(a1 - -b2) * 7",
	"  # leading comment\n 1\t+\r\n2  ",
	"+",
	")",
	"(((",
	"1 2 3",
	"let x = fn { y }",
	"@#$%^&",
	"1 + * 2",
	"π * r * r",
	"\xff\xfe(1",
	"1 +\n# dangling\n",
}

// generated returns random sources drawn from an alphabet that hits every lexer
// rule and many parser error paths.
func generated(n int) []string {
	const alphabet = "0123456789 abcxyz()+-*/={}#\n\t@λ"
	runes := []rune(alphabet)
	rng := rand.New(rand.NewPCG(7, 11))

	out := make([]string, n)
	for i := range out {
		var sb strings.Builder
		for j := rng.IntN(24); j > 0; j-- {
			sb.WriteRune(runes[rng.IntN(len(runes))])
		}
		out[i] = sb.String()
	}
	return out
}

func TestLossless(t *testing.T) {
	for _, input := range append(inputs, generated(500)...) {
		res := Parse(input)

		var sb strings.Builder
		for _, tok := range res.Root().LeafTokens() {
			sb.WriteString(tok.Text())
		}
		require.Equal(t, input, sb.String(), "leaf tokens of %q", input)
		require.Equal(t, input, res.Green().Text())
		require.Equal(t, len(input), res.Root().Range().End)
	}
}

func TestEventsBalance(t *testing.T) {
	for _, input := range append(inputs, generated(500)...) {
		depth := 0
		for i, ev := range Parse(input).Events() {
			switch ev.Type {
			case StartNode, StartNodeAt:
				depth++
			case FinishNode:
				depth--
				require.GreaterOrEqual(t, depth, 0, "event %d of %q closes an unopened node", i, input)
			}
			if ev.Type == StartNodeAt {
				require.LessOrEqual(t, ev.Checkpoint, i)
			}
		}
		require.Zero(t, depth, "events of %q are unbalanced", input)
	}
}

func TestRecoveryKeepsLaterTokens(t *testing.T) {
	res := Parse("+1")
	require.True(t, res.HasErrors())

	children := res.Root().ChildrenWithTokens()
	require.Len(t, children, 2)
	assert.Equal(t, syntax.ErrorNode, children[0].Kind())
	assert.Equal(t, syntax.Number, children[1].Kind())
	assert.Equal(t, syntax.TextRange{Start: 1, End: 2}, children[1].Range())
}

func TestSharedCache(t *testing.T) {
	cache := syntax.NewNodeCache()
	first := ParseWithCache("-1", cache)
	second := ParseWithCache("-1 * 2", cache)

	prefix := first.Root().Children()[0]
	nested := second.Root().Children()[0].Children()[0]
	require.Equal(t, syntax.PrefixExpr, nested.Kind())
	assert.Same(t, prefix.Green(), nested.Green())
}

func TestResultAccessorsReturnCopies(t *testing.T) {
	res := Parse("1 + 2")

	events := res.Events()
	events[0] = Event{Type: FinishNode}
	assert.Equal(t, StartNode, res.Events()[0].Type)

	lexemes := res.Lexemes()
	require.Len(t, lexemes, 5)
	lexemes[0].Text = "9"
	assert.Equal(t, "1", res.Lexemes()[0].Text)
	assert.Equal(t, "1 + 2", res.Input())
}
