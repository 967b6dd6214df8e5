package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sambeau/frost/journal"
	"github.com/sambeau/frost/pkg/frost/parser"
)

// cmdParse prints the syntax tree of a file, of stdin, or of an inline expression.
type cmdParse struct {
	gs *globalState

	expr       string
	showEvents bool
	showTokens bool
	showErrors bool
}

func (c *cmdParse) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVarP(&c.expr, "expr", "e", "", "parse `code` instead of a file")
	flags.BoolVar(&c.showEvents, "events", false, "print the parser's event log")
	flags.BoolVar(&c.showTokens, "tokens", false, "print the lexemes")
	flags.BoolVar(&c.showErrors, "errors", false, "print diagnostics")
	return flags
}

func (c *cmdParse) run(_ *cobra.Command, args []string) error {
	gs := c.gs

	src, name, err := readSource(gs, c.expr, args)
	if err != nil {
		return err
	}

	res := parser.Parse(src)
	if err := writeTree(gs, res.Root()); err != nil {
		return err
	}
	if c.showTokens {
		fmt.Fprintln(gs.stdout, "Lexemes:")
		for _, l := range res.Lexemes() {
			fmt.Fprintf(gs.stdout, "  %s\n", l)
		}
	}
	if c.showEvents {
		fmt.Fprintln(gs.stdout, "Events:")
		for i, ev := range res.Events() {
			fmt.Fprintf(gs.stdout, "  %3d %s\n", i, ev)
		}
	}

	errs := res.Errors()
	if c.showErrors {
		printDiagnostics(gs.stdout, src, errs, gs.color)
	}
	gs.logger.WithField("errors", len(errs)).Debug("parsed " + name)

	j, err := openJournal(gs)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
		record(gs, j, journal.Entry{
			Source:     name,
			Input:      src,
			Tree:       res.DebugTree(),
			ErrorCount: len(errs),
		})
	}
	return nil
}

func getCmdParse(gs *globalState) *cobra.Command {
	c := &cmdParse{gs: gs}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of an expression",
		Long: `Print the lossless syntax tree of a file, of standard input ("-" or no file),
or of the code given with -e.`,
		Example: `  frost parse -e "1 + 2 * 3"
  frost parse --events calc.frost
  echo "(1 + 2" | frost parse --errors`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	cmd.Flags().AddFlagSet(c.flagSet())
	return cmd
}

// readSource returns the text a command works on and the name it is
// recorded under: the inline expression, stdin, or a file.
func readSource(gs *globalState, expr string, args []string) (src, name string, err error) {
	switch {
	case expr != "" && len(args) > 0:
		return "", "", exitCodeError{
			error: fmt.Errorf("both -e and a file were given"),
			Code:  exitGenericError,
			Hint:  "use either -e code or a file name",
		}
	case expr != "":
		return expr, "-e", nil
	case len(args) == 0 || args[0] == "-":
		data, err := io.ReadAll(gs.stdin)
		if err != nil {
			return "", "", exitCodeError{error: fmt.Errorf("reading stdin: %w", err), Code: exitIOError}
		}
		return string(data), "<stdin>", nil
	default:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", exitCodeError{error: fmt.Errorf("reading %s: %w", args[0], err), Code: exitIOError}
		}
		return string(data), args[0], nil
	}
}
