package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/eval"
	"github.com/sambeau/frost/pkg/frost/lexer"
	"github.com/sambeau/frost/pkg/frost/parser"
)

// cmdEval parses an expression and prints its integer value.
type cmdEval struct {
	gs *globalState

	expr    string
	defines map[string]int64
}

func (c *cmdEval) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.StringVarP(&c.expr, "expr", "e", "", "evaluate `code` instead of a file")
	flags.StringToInt64VarP(&c.defines, "define", "d", nil, "bind identifiers, e.g. -d x=2,y=3")
	return flags
}

func (c *cmdEval) run(_ *cobra.Command, args []string) error {
	gs := c.gs

	src, _, err := readSource(gs, c.expr, args)
	if err != nil {
		return err
	}

	env := eval.NewEnvironment()
	for _, name := range slices.Sorted(maps.Keys(c.defines)) {
		if !lexer.IsIdentifier(name) {
			return exitCodeError{
				error: fmt.Errorf("invalid identifier in --define: %q", name),
				Code:  exitGenericError,
				Hint:  "identifiers start with a letter and contain only letters and digits",
			}
		}
		env.Set(name, c.defines[name])
	}

	res := parser.Parse(src)
	if errs := res.Errors(); len(errs) > 0 {
		printDiagnostics(gs.stderr, src, errs, gs.color)
		return exitCodeError{error: fmt.Errorf("cannot evaluate: %d syntax errors", len(errs)), Code: exitSyntaxError}
	}

	v, ferr := eval.Eval(res.Root(), env)
	if ferr != nil {
		printDiagnostics(gs.stderr, src, []*errors.FrostError{ferr}, gs.color)
		return exitCodeError{error: fmt.Errorf("evaluation failed: %s", ferr.Code), Code: exitGenericError}
	}

	_, err = fmt.Fprintln(gs.stdout, v)
	return err
}

func getCmdEval(gs *globalState) *cobra.Command {
	c := &cmdEval{gs: gs}

	cmd := &cobra.Command{
		Use:   "eval [file]",
		Short: "Evaluate an expression",
		Long: `Parse an expression and print its integer value.

Arithmetic is on 64-bit integers; identifiers are bound with --define.`,
		Example: `  frost eval -e "(1 + 2) * 3"
  frost eval -e "x * y" -d x=6,y=7`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.run,
	}
	cmd.Flags().AddFlagSet(c.flagSet())
	return cmd
}
