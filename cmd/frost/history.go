package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// cmdHistory lists or clears the parse journal.
type cmdHistory struct {
	gs *globalState

	limit     int
	source    string
	clear     bool
	showTrees bool
	isJSON    bool
}

func (c *cmdHistory) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.SortFlags = false
	flags.IntVarP(&c.limit, "limit", "n", 20, "number of entries to show")
	flags.StringVar(&c.source, "source", "", "only entries recorded from `source` (repl, -e, <stdin> or a file path)")
	flags.BoolVar(&c.clear, "clear", false, "delete the entries instead of listing them")
	flags.BoolVar(&c.showTrees, "trees", false, "print the recorded trees")
	flags.BoolVar(&c.isJSON, "json", false, "print entries as JSON")
	return flags
}

func (c *cmdHistory) run(_ *cobra.Command, _ []string) error {
	gs := c.gs

	j, err := openJournalAlways(gs)
	if err != nil {
		return err
	}
	defer j.Close()

	if c.clear {
		n, err := j.Count(c.source)
		if err != nil {
			return fmt.Errorf("counting journal entries: %w", err)
		}
		if err := j.Clear(c.source); err != nil {
			return fmt.Errorf("clearing journal: %w", err)
		}
		fmt.Fprintf(gs.stdout, "Cleared %d entries\n", n)
		return nil
	}

	entries, err := j.Recent(c.source, c.limit)
	if err != nil {
		return err
	}
	// oldest first, like a shell history
	slices.Reverse(entries)

	if c.isJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding journal entries: %w", err)
		}
		_, err = fmt.Fprintln(gs.stdout, string(data))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(gs.stdout, "No history")
		return nil
	}
	for _, e := range entries {
		suffix := ""
		if e.ErrorCount > 0 {
			suffix = fmt.Sprintf("  (%d errors)", e.ErrorCount)
		}
		fmt.Fprintf(gs.stdout, "%5d  %-8s %s%s\n", e.ID, e.Source, oneLine(e.Input), suffix)
		if c.showTrees {
			for _, line := range strings.Split(strings.TrimRight(e.Tree, "\n"), "\n") {
				fmt.Fprintf(gs.stdout, "       %s\n", line)
			}
		}
	}
	return nil
}

// oneLine shows newlines in an input as ⏎ so each entry stays on one line.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", "⏎")
}

func getCmdHistory(gs *globalState) *cobra.Command {
	c := &cmdHistory{gs: gs}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded parses",
		Long: `Show the parses recorded in the journal, oldest first.

Parses are recorded when journal.enabled is set in the configuration.`,
		Args: cobra.NoArgs,
		RunE: c.run,
	}
	cmd.Flags().AddFlagSet(c.flagSet())
	return cmd
}
