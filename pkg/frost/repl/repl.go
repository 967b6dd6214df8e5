// Package repl implements the interactive Frost prompt: every line is parsed and
// its syntax tree printed.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"github.com/sambeau/frost/journal"
	"github.com/sambeau/frost/pkg/frost/eval"
	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/parser"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

const PROMPT = "> "
const CONTINUATION_PROMPT = ". "

const FROST_LOGO = `
█▀▀ █▀█ █▀█ █▀ ▀█▀
█▀░ █▀▄ █▄█ ▄█ ░█░ `

// JournalSource is the source name REPL lines are recorded under.
const JournalSource = "repl"

// Journal is the part of the parse journal the REPL uses.
type Journal interface {
	Record(entry journal.Entry) error
	Recent(source string, limit int) ([]journal.Entry, error)
}

// Options configures a session.
type Options struct {
	Prompt      string
	HistoryFile string // empty: $TMPDIR/.frost_history
	Version     string

	ShowEvents bool
	ShowTokens bool
	ShowErrors bool
	Evaluate   bool

	Painter syntax.Painter     // decorates debug tree lines; nil for plain text
	Journal Journal            // nil disables recording
	Logger  logrus.FieldLogger // nil discards
}

// Start starts the REPL with line editing, history, and tab completion.
// Input is read from the terminal; out receives everything the session prints.
func Start(out io.Writer, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	// Enable Ctrl+C to abort current line
	line.SetCtrlCAborts(true)

	s := NewSession(out, opts)

	// Set up tab completion
	line.SetCompleter(func(line string) []string {
		return filterCompletions(line, s.completionWords())
	})

	// Load command history from file
	historyFile := opts.HistoryFile
	if historyFile == "" {
		historyFile = filepath.Join(os.TempDir(), ".frost_history")
	}
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	// Save history on exit
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		} else {
			s.logger.WithError(err).WithField("path", historyFile).Warn("could not save history")
		}
	}()

	fmt.Fprintf(out, "%s", FROST_LOGO)
	if opts.Version != "" {
		fmt.Fprintln(out, "v", opts.Version)
	}
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		currentPrompt := s.prompt
		if s.Pending() {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			// Ctrl+D or Ctrl+C
			if err == liner.ErrPromptAborted {
				// Ctrl+C - clear any buffered input and return to main prompt
				if s.Pending() {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				s.Reset()
				continue
			}
			if err == io.EOF {
				// Ctrl+D - exit
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		if complete, ok := s.Feed(input); !ok {
			return
		} else if complete != "" {
			line.AppendHistory(complete)
		}
	}
}

// Session holds the state shared by the lines of one REPL run, independent of
// the terminal.
type Session struct {
	out    io.Writer
	opts   Options
	prompt string
	logger logrus.FieldLogger

	cache  *syntax.NodeCache
	env    *eval.Env
	buffer strings.Builder
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}
	prompt := opts.Prompt
	if prompt == "" {
		prompt = PROMPT
	}
	return &Session{
		out:    out,
		opts:   opts,
		prompt: prompt,
		logger: logger.WithField("component", "repl"),
		cache:  syntax.NewNodeCache(),
		env:    eval.NewEnvironment(),
	}
}

// Pending reports whether an incomplete input is buffered.
func (s *Session) Pending() bool {
	return s.buffer.Len() > 0
}

// Reset drops any buffered input.
func (s *Session) Reset() {
	s.buffer.Reset()
}

// Feed handles one line. It returns the complete input when the line finished
// one (for history), and false once the user asked to leave.
func (s *Session) Feed(input string) (string, bool) {
	// Check for exit command
	trimmed := strings.TrimSpace(input)
	if !s.Pending() && (trimmed == "exit" || trimmed == "quit") {
		fmt.Fprintln(s.out, "Goodbye!")
		return "", false
	}

	// :clear is honoured mid-input; other commands are only read between inputs
	if trimmed == ":clear" {
		s.clearInput()
		return "", true
	}

	// Handle REPL commands (start with :)
	if !s.Pending() && strings.HasPrefix(trimmed, ":") {
		s.handleReplCommand(trimmed)
		return "", true
	}

	// Skip empty lines when no input buffered
	if !s.Pending() && trimmed == "" {
		return "", true
	}

	// Add to input buffer
	if s.Pending() {
		s.buffer.WriteString("\n")
	}
	s.buffer.WriteString(input)

	// Check if input is complete (no unclosed brackets)
	fullInput := s.buffer.String()
	if needsMoreInput(fullInput) {
		return "", true
	}
	s.buffer.Reset()

	s.run(fullInput)
	return fullInput, true
}

// run parses one complete input and prints what the options ask for.
func (s *Session) run(input string) {
	res := parser.ParseWithCache(input, s.cache)

	if err := syntax.WriteDebugTree(s.out, res.Root(), s.opts.Painter); err != nil {
		s.logger.WithError(err).Error("writing tree")
		return
	}

	if s.opts.ShowTokens {
		printLexemes(s.out, res.Lexemes())
	}
	if s.opts.ShowEvents {
		printEvents(s.out, res.Events())
	}

	errs := res.Errors()
	if s.opts.ShowErrors {
		for _, err := range errs {
			io.WriteString(s.out, err.PrettyString())
			io.WriteString(s.out, "\n")
		}
	}

	if s.opts.Evaluate {
		if v, err := eval.Eval(res.Root(), s.env); err != nil {
			io.WriteString(s.out, err.PrettyString())
			io.WriteString(s.out, "\n")
		} else {
			fmt.Fprintf(s.out, "= %d\n", v)
		}
	}

	if s.opts.Journal != nil {
		entry := journal.Entry{
			Source:     JournalSource,
			Input:      input,
			Tree:       res.DebugTree(),
			ErrorCount: len(errs),
		}
		if err := s.opts.Journal.Record(entry); err != nil {
			s.logger.WithError(err).Warn("could not record parse")
		}
	}
}

// handleReplCommand handles REPL meta-commands that start with ':'
func (s *Session) handleReplCommand(cmd string) {
	fields := strings.Fields(cmd)
	out := s.out

	switch fields[0] {
	case ":help", ":h", ":?":
		fmt.Fprintln(out, "REPL Commands:")
		fmt.Fprintln(out, "  :help, :h, :?      Show this help")
		fmt.Fprintln(out, "  :tokens            Toggle printing the lexemes of each line")
		fmt.Fprintln(out, "  :events            Toggle printing the event log of each line")
		fmt.Fprintln(out, "  :errors            Toggle printing diagnostics")
		fmt.Fprintln(out, "  :eval              Toggle evaluating each line")
		fmt.Fprintln(out, "  :set NAME VALUE    Bind an identifier for :eval")
		fmt.Fprintln(out, "  :env               Show bound identifiers")
		fmt.Fprintln(out, "  :reset             Remove all bound identifiers")
		fmt.Fprintln(out, "  :clear             Drop unfinished input")
		fmt.Fprintln(out, "  :cache             Show node cache statistics")
		fmt.Fprintln(out, "  :history [N]       Show the last N journal entries (default 10)")
		fmt.Fprintln(out, "  exit, quit         Exit the REPL")

	case ":tokens":
		s.opts.ShowTokens = !s.opts.ShowTokens
		printToggle(out, "Lexeme output", s.opts.ShowTokens)

	case ":events":
		s.opts.ShowEvents = !s.opts.ShowEvents
		printToggle(out, "Event output", s.opts.ShowEvents)

	case ":errors":
		s.opts.ShowErrors = !s.opts.ShowErrors
		printToggle(out, "Diagnostics", s.opts.ShowErrors)

	case ":eval":
		s.opts.Evaluate = !s.opts.Evaluate
		printToggle(out, "Evaluation", s.opts.Evaluate)

	case ":set":
		if len(fields) != 3 {
			fmt.Fprintln(out, "Usage: :set NAME VALUE")
			return
		}
		if !lexer.IsIdentifier(fields[1]) {
			fmt.Fprintf(out, "Not an identifier: %s\n", fields[1])
			return
		}
		v, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			fmt.Fprintf(out, "Not an integer: %s\n", fields[2])
			return
		}
		s.env.Set(fields[1], v)
		fmt.Fprintf(out, "%s = %d\n", fields[1], v)

	case ":env":
		printEnvironment(s.env, out)

	case ":reset":
		s.env = eval.NewEnvironment()
		fmt.Fprintln(out, "Environment cleared")

	case ":cache":
		tokens, nodes := s.cache.Len()
		fmt.Fprintf(out, "%d tokens, %d nodes interned\n", tokens, nodes)

	case ":history":
		s.printHistory(fields[1:])

	default:
		fmt.Fprintf(out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

// clearInput drops an unfinished multi-line input.
func (s *Session) clearInput() {
	if !s.Pending() {
		fmt.Fprintln(s.out, "Nothing to clear")
		return
	}
	s.Reset()
	fmt.Fprintln(s.out, "Input cleared")
}

func (s *Session) printHistory(args []string) {
	if s.opts.Journal == nil {
		fmt.Fprintln(s.out, "Journal is disabled (set journal.enabled in frost.yaml)")
		return
	}

	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintf(s.out, "Not a positive number: %s\n", args[0])
			return
		}
		limit = n
	}

	entries, err := s.opts.Journal.Recent(JournalSource, limit)
	if err != nil {
		fmt.Fprintf(s.out, "Error reading journal: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "(no entries)")
		return
	}

	// oldest first, like shell history
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		marker := ""
		if e.ErrorCount > 0 {
			marker = fmt.Sprintf("  (%d errors)", e.ErrorCount)
		}
		fmt.Fprintf(s.out, "%5d  %s%s\n", e.ID, strings.ReplaceAll(e.Input, "\n", " "), marker)
	}
}

func (s *Session) completionWords() []string {
	words := append([]string{}, lexer.Keywords...)
	words = append(words, replCommands...)
	return append(words, s.env.Names()...)
}

var replCommands = []string{
	":help", ":tokens", ":events", ":errors", ":eval", ":set", ":env", ":reset", ":clear", ":cache", ":history",
}

func printToggle(out io.Writer, what string, on bool) {
	state := "OFF"
	if on {
		state = "ON"
	}
	fmt.Fprintf(out, "%s %s\n", what, state)
}

func printLexemes(out io.Writer, lexemes []lexer.Lexeme) {
	fmt.Fprintln(out, "Lexemes:")
	for _, lex := range lexemes {
		fmt.Fprintf(out, "  %s\n", lex)
	}
}

func printEvents(out io.Writer, events []parser.Event) {
	fmt.Fprintln(out, "Events:")
	for i, ev := range events {
		fmt.Fprintf(out, "  %3d %s\n", i, ev)
	}
}

// printEnvironment displays all bound identifiers
func printEnvironment(env *eval.Env, out io.Writer) {
	names := env.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "(no bound identifiers)")
		return
	}
	for _, name := range names {
		v, _ := env.Get(name)
		fmt.Fprintf(out, "  %s = %d\n", name, v)
	}
}

// filterCompletions returns completion suggestions based on current input
func filterCompletions(line string, candidates []string) []string {
	// Don't complete if line is empty or only whitespace
	if strings.TrimSpace(line) == "" {
		return nil
	}

	// Don't complete if line ends with whitespace (including tabs from pasting)
	if line[len(line)-1] == ' ' || line[len(line)-1] == '\t' {
		return nil
	}

	// Get the last word being typed
	words := strings.Fields(line)
	lastWord := words[len(words)-1]
	prefix := line[:len(line)-len(lastWord)]

	var matches []string
	for _, word := range candidates {
		if strings.HasPrefix(word, lastWord) {
			matches = append(matches, prefix+word)
		}
	}
	return matches
}

// needsMoreInput checks if the input has unclosed parentheses or braces.
// Comments are skipped so a bracket inside one doesn't count.
func needsMoreInput(input string) bool {
	depth := 0
	for _, lex := range lexer.Tokenize(input) {
		switch lex.Kind {
		case syntax.LParen, syntax.LBrace:
			depth++
		case syntax.RParen, syntax.RBrace:
			depth--
		}
	}
	return depth > 0
}
