package repl

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sambeau/frost/journal"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

type fakeJournal struct {
	entries []journal.Entry
}

func (f *fakeJournal) Record(e journal.Entry) error {
	e.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeJournal) Recent(source string, limit int) ([]journal.Entry, error) {
	var out []journal.Entry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].Source == source {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func newTestSession(opts Options) (*Session, *bytes.Buffer) {
	var out bytes.Buffer
	return NewSession(&out, opts), &out
}

func TestFeedPrintsDebugTree(t *testing.T) {
	s, out := newTestSession(Options{})

	complete, ok := s.Feed("1 + 2")
	require.True(t, ok)
	assert.Equal(t, "1 + 2", complete)
	assert.Equal(t, `Root@0..5
  BinaryExpr@0..5
    Number@0..1 "1"
    Whitespace@1..2 " "
    Plus@2..3 "+"
    Whitespace@3..4 " "
    Number@4..5 "2"
`, out.String())
}

func TestFeedExit(t *testing.T) {
	for _, cmd := range []string{"exit", "quit", "  exit  "} {
		s, out := newTestSession(Options{})
		_, ok := s.Feed(cmd)
		assert.False(t, ok, cmd)
		assert.Equal(t, "Goodbye!\n", out.String())
	}
}

func TestFeedSkipsBlankLines(t *testing.T) {
	s, out := newTestSession(Options{})
	complete, ok := s.Feed("   ")
	assert.True(t, ok)
	assert.Empty(t, complete)
	assert.Empty(t, out.String())
}

func TestFeedWaitsForClosingParen(t *testing.T) {
	s, out := newTestSession(Options{})

	complete, ok := s.Feed("(1 +")
	require.True(t, ok)
	assert.Empty(t, complete)
	assert.True(t, s.Pending())
	assert.Empty(t, out.String())

	complete, _ = s.Feed("2)")
	assert.Equal(t, "(1 +\n2)", complete)
	assert.False(t, s.Pending())
	assert.Contains(t, out.String(), "ParenExpr@0..7")
}

func TestResetDropsPendingInput(t *testing.T) {
	s, _ := newTestSession(Options{})
	s.Feed("((")
	require.True(t, s.Pending())
	s.Reset()
	assert.False(t, s.Pending())
}

func TestToggles(t *testing.T) {
	s, out := newTestSession(Options{})

	s.Feed(":tokens")
	s.Feed(":events")
	s.Feed(":eval")
	assert.Contains(t, out.String(), "Lexeme output ON")
	assert.Contains(t, out.String(), "Event output ON")
	assert.Contains(t, out.String(), "Evaluation ON")

	out.Reset()
	s.Feed("2*3")
	assert.Contains(t, out.String(), "Lexemes:\n  {Kind: Number, Text: \"2\"}\n")
	assert.Contains(t, out.String(), "Events:\n    0 StartNode(Root)\n")
	assert.Contains(t, out.String(), "StartNodeAt(BinaryExpr, 1)")
	assert.Contains(t, out.String(), "= 6\n")

	out.Reset()
	s.Feed(":tokens")
	assert.Equal(t, "Lexeme output OFF\n", out.String())
}

func TestErrorsAreShown(t *testing.T) {
	s, out := newTestSession(Options{ShowErrors: true})
	s.Feed("1 +")
	assert.Contains(t, out.String(), "Parser error: line 1, column 4\n  expected expression, got end of input\n")

	out.Reset()
	s.Feed(":errors")
	s.Feed("1 +")
	assert.NotContains(t, out.String(), "Parser error")
}

func TestSetAndEnv(t *testing.T) {
	s, out := newTestSession(Options{Evaluate: true})

	s.Feed(":set width 6")
	assert.Equal(t, "width = 6\n", out.String())

	out.Reset()
	s.Feed("width * 7")
	assert.Contains(t, out.String(), "= 42\n")

	out.Reset()
	s.Feed("wdth")
	assert.Contains(t, out.String(), "Did you mean `width`?")

	out.Reset()
	s.Feed(":env")
	assert.Equal(t, "  width = 6\n", out.String())

	tests := []struct {
		cmd  string
		want string
	}{
		{":set let 1", "Not an identifier: let\n"},
		{":set x y", "Not an integer: y\n"},
		{":set x", "Usage: :set NAME VALUE\n"},
	}
	for _, tt := range tests {
		out.Reset()
		s.Feed(tt.cmd)
		assert.Equal(t, tt.want, out.String(), tt.cmd)
	}

	out.Reset()
	s.Feed(":reset")
	s.Feed(":env")
	assert.Equal(t, "Environment cleared\n(no bound identifiers)\n", out.String())
}

func TestClearDropsBufferedInput(t *testing.T) {
	s, out := newTestSession(Options{})

	s.Feed("(1 +")
	require.True(t, s.Pending())

	complete, ok := s.Feed(":clear")
	assert.True(t, ok)
	assert.Empty(t, complete)
	assert.False(t, s.Pending())
	assert.Equal(t, "Input cleared\n", out.String())

	// the next line starts a fresh input
	out.Reset()
	complete, _ = s.Feed("2")
	assert.Equal(t, "2", complete)
	assert.Contains(t, out.String(), "Number@0..1")

	out.Reset()
	s.Feed(":clear")
	assert.Equal(t, "Nothing to clear\n", out.String())
}

func TestOtherCommandsAreInputWhilePending(t *testing.T) {
	s, out := newTestSession(Options{})

	s.Feed("(1")
	s.Feed(":env")
	assert.True(t, s.Pending())
	assert.Empty(t, out.String())
}

func TestJournalRecording(t *testing.T) {
	j := &fakeJournal{}
	s, out := newTestSession(Options{Journal: j})

	s.Feed("1")
	s.Feed("+")
	require.Len(t, j.entries, 2)
	assert.Equal(t, JournalSource, j.entries[0].Source)
	assert.Equal(t, "Root@0..1\n  Number@0..1 \"1\"\n", j.entries[0].Tree)
	assert.Equal(t, 1, j.entries[1].ErrorCount)

	out.Reset()
	s.Feed(":history")
	assert.Equal(t, "    1  1\n    2  +  (1 errors)\n", out.String())

	out.Reset()
	s.Feed(":history 1")
	assert.Equal(t, "    2  +  (1 errors)\n", out.String())

	out.Reset()
	s.Feed(":history zero")
	assert.Equal(t, "Not a positive number: zero\n", out.String())
}

func TestHistoryWithoutJournal(t *testing.T) {
	s, out := newTestSession(Options{})
	s.Feed(":history")
	assert.Contains(t, out.String(), "Journal is disabled")
}

func TestUnknownCommand(t *testing.T) {
	s, out := newTestSession(Options{})
	s.Feed(":frobnicate")
	assert.Equal(t, "Unknown command: :frobnicate (type :help for commands)\n", out.String())
}

func TestCacheSharedAcrossLines(t *testing.T) {
	s, out := newTestSession(Options{})
	s.Feed("1")
	s.Feed("1")
	out.Reset()
	s.Feed(":cache")
	assert.Equal(t, "1 tokens, 1 nodes interned\n", out.String())
}

func TestPainterIsApplied(t *testing.T) {
	var painted int
	s, out := newTestSession(Options{Painter: func(_ syntax.Kind, line string) string {
		painted++
		return "|" + line
	}})
	s.Feed("x")
	assert.Equal(t, 2, painted)
	assert.Equal(t, "|Root@0..1\n|  Ident@0..1 \"x\"\n", out.String())
}

func TestFilterCompletions(t *testing.T) {
	words := []string{"let", "fn", ":help", ":history", "width"}

	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"1 + ", nil},
		{"l", []string{"let"}},
		{":h", []string{":help", ":history"}},
		{"1 + wi", []string{"1 + width"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.line), func(t *testing.T) {
			assert.Equal(t, tt.want, filterCompletions(tt.line, words))
		})
	}
}

func TestNeedsMoreInput(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", false},
		{"1 + 2", false},
		{"(1 + 2", true},
		{"((1)", true},
		{"(1))", false},
		{"fn {", true},
		{"1 # (", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, needsMoreInput(tt.input), tt.input)
	}
}
