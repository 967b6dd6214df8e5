package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/parser"
)

// cmdCheck reports the syntax errors of files without printing their trees.
type cmdCheck struct {
	gs     *globalState
	isJSON bool
}

// run checks the syntax of one or more files. A file that cannot be read
// stops the run with an I/O status; syntax errors are collected across files.
func (c *cmdCheck) run(_ *cobra.Command, files []string) error {
	gs := c.gs
	total := 0

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			return exitCodeError{error: fmt.Errorf("reading %s: %w", filename, err), Code: exitIOError}
		}

		res := parser.Parse(string(content))
		errs := res.Errors()
		if len(errs) == 0 {
			gs.logger.WithField("path", filename).Debug("no syntax errors")
			continue
		}

		located := make([]*errors.FrostError, len(errs))
		for i, e := range errs {
			located[i] = e.WithFile(filename)
		}
		if c.isJSON {
			if err := writeJSONLines(gs, located); err != nil {
				return err
			}
		} else {
			printDiagnostics(gs.stderr, string(content), located, gs.color)
		}
		total += len(errs)
	}

	if total > 0 {
		noun := "errors"
		if total == 1 {
			noun = "error"
		}
		return exitCodeError{error: fmt.Errorf("%d syntax %s found", total, noun), Code: exitSyntaxError}
	}
	return nil
}

// writeJSONLines prints one JSON object per diagnostic to stdout.
func writeJSONLines(gs *globalState, errs []*errors.FrostError) error {
	for _, e := range errs {
		data, err := e.ToJSON()
		if err != nil {
			return fmt.Errorf("encoding diagnostic %s: %w", e.Code, err)
		}
		if _, err := fmt.Fprintln(gs.stdout, string(data)); err != nil {
			return err
		}
	}
	return nil
}

func getCmdCheck(gs *globalState) *cobra.Command {
	c := &cmdCheck{gs: gs}

	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Check files for syntax errors",
		Long: `Check files for syntax errors without printing their trees.

Exits with status 1 when a file has syntax errors and 2 when a file cannot be read.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVar(&c.isJSON, "json", false, "print each diagnostic as a JSON object on its own line")
	return cmd
}
