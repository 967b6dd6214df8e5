package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sambeau/frost/journal"
	"github.com/sambeau/frost/pkg/frost/parser"
	"github.com/sambeau/frost/pkg/frost/syntax"
	"github.com/sambeau/frost/watcher"
)

// cmdWatch reprints the tree of each file whenever it is saved.
type cmdWatch struct {
	gs *globalState

	journal *journal.Journal
	cache   *syntax.NodeCache

	mu sync.Mutex // one file's output at a time
}

func (c *cmdWatch) run(cmd *cobra.Command, files []string) error {
	gs := c.gs

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return exitCodeError{error: fmt.Errorf("watching %s: %w", f, err), Code: exitIOError}
		}
	}

	j, err := openJournal(gs)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}
	c.journal = j
	c.cache = syntax.NewNodeCache()

	for _, f := range files {
		c.show(f)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(files, c.show, gs.logger, gs.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return exitCodeError{error: err, Code: exitIOError}
	}
	gs.logger.WithField("files", len(files)).Info("watching for changes, press Ctrl+C to stop")

	<-ctx.Done()
	gs.logger.Debug("watch stopped")
	return nil
}

// show parses path and prints its tree and diagnostics.
func (c *cmdWatch) show(path string) {
	gs := c.gs
	c.mu.Lock()
	defer c.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		gs.logger.WithError(err).WithField("path", path).Warn("could not read file")
		return
	}
	src := string(content)

	res := parser.ParseWithCache(src, c.cache)
	errs := res.Errors()

	fmt.Fprintf(gs.stdout, "==> %s <==\n", path)
	if err := writeTree(gs, res.Root()); err != nil {
		gs.logger.WithError(err).Error("writing tree")
		return
	}
	printDiagnostics(gs.stdout, src, errs, gs.color)

	record(gs, c.journal, journal.Entry{
		Source:     path,
		Input:      src,
		Tree:       res.DebugTree(),
		ErrorCount: len(errs),
	})
}

func getCmdWatch(gs *globalState) *cobra.Command {
	c := &cmdWatch{gs: gs}

	return &cobra.Command{
		Use:   "watch file...",
		Short: "Reparse files whenever they change",
		Long: `Print the syntax tree of each file, then print it again every time the file
is written. Stop with Ctrl+C.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.run,
	}
}
