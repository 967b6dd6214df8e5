package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sambeau/frost/config"
	"github.com/sambeau/frost/journal"
	"github.com/sambeau/frost/pkg/frost/repl"
)

// rootCommand holds the base frost command and the state it shares with its children.
type rootCommand struct {
	gs  *globalState
	cmd *cobra.Command
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{gs: gs}

	// the base command when called without any subcommands.
	c.cmd = &cobra.Command{
		Use:               "frost",
		Short:             "a lossless parser for arithmetic expressions",
		Long:              "frost parses expressions into lossless syntax trees.\nRun without a command to start the REPL.",
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		RunE:              c.runREPL,
	}
	c.cmd.SetIn(gs.stdin)
	c.cmd.SetOut(gs.stdout)
	c.cmd.SetErr(gs.stderr)

	c.cmd.PersistentFlags().AddFlagSet(c.rootCmdPersistentFlagSet())

	c.cmd.AddCommand(
		getCmdParse(gs),
		getCmdCheck(gs),
		getCmdEval(gs),
		getCmdWatch(gs),
		getCmdHistory(gs),
		getCmdVersion(gs),
	)
	return c
}

func (c *rootCommand) persistentPreRunE(_ *cobra.Command, _ []string) error {
	gs := c.gs

	cfg, err := config.Load(gs.flags.configFile, gs.getenv)
	if err != nil {
		return exitCodeError{error: err, Code: exitInvalidConfig}
	}

	if gs.flags.logLevel != "" {
		cfg.Logging.Level = gs.flags.logLevel
	}
	if gs.flags.verbose {
		cfg.Logging.Level = "debug"
	}
	if gs.flags.noColor {
		cfg.Output.Color = "never"
	}
	if err := config.Validate(cfg); err != nil {
		return exitCodeError{error: err, Code: exitInvalidConfig}
	}
	gs.cfg = cfg

	if err := c.setupLogger(); err != nil {
		return err
	}

	switch cfg.Output.Color {
	case "always":
		gs.color = true
	case "never":
		gs.color = false
	default:
		gs.color = gs.stdoutTTY
	}
	if !gs.color {
		if w, ok := gs.stdout.(*consoleWriter); ok {
			w.stripColors()
		}
	}

	if cfg.Path != "" {
		gs.logger.WithField("path", cfg.Path).Debug("loaded configuration")
	} else {
		gs.logger.Debug("no configuration file found, using defaults")
	}
	gs.logger.Debugf("frost version: v%s", Version)
	return nil
}

// setupLogger applies the configured level and format.
func (c *rootCommand) setupLogger() error {
	gs := c.gs

	level, err := logrus.ParseLevel(gs.cfg.Logging.Level)
	if err != nil {
		return exitCodeError{error: err, Code: exitInvalidConfig}
	}
	gs.logger.SetLevel(level)

	switch gs.cfg.Logging.Format {
	case "json":
		gs.logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		forceColors := false
		if tf, ok := gs.logger.Formatter.(*logrus.TextFormatter); ok {
			forceColors = tf.ForceColors
		}
		gs.logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   forceColors && gs.cfg.Output.Color != "never",
			DisableColors: gs.cfg.Output.Color == "never",
		})
	}
	return nil
}

func (c *rootCommand) rootCmdPersistentFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	gs := c.gs
	flags.StringVarP(&gs.flags.configFile, "config", "c", gs.flags.configFile,
		"config file (default: $FROST_CONFIG, ./frost.yaml or ~/.config/frost/frost.yaml)")
	flags.StringVar(&gs.flags.logLevel, "log-level", gs.flags.logLevel, "log level: debug, info, warn or error")
	flags.BoolVarP(&gs.flags.verbose, "verbose", "v", gs.flags.verbose, "enable debug logging")
	flags.BoolVar(&gs.flags.noColor, "no-color", gs.flags.noColor, "disable colored output")
	must(cobra.MarkFlagFilename(flags, "config", "yaml", "yml"))
	return flags
}

func (c *rootCommand) runREPL(_ *cobra.Command, _ []string) error {
	gs := c.gs

	j, err := openJournal(gs)
	if err != nil {
		return err
	}
	opts := repl.Options{
		Prompt:      gs.cfg.REPL.Prompt,
		HistoryFile: gs.cfg.REPL.HistoryFile,
		Version:     Version,
		ShowEvents:  gs.cfg.REPL.ShowEvents,
		ShowTokens:  gs.cfg.REPL.ShowTokens,
		ShowErrors:  gs.cfg.REPL.ShowErrors,
		Evaluate:    gs.cfg.REPL.Evaluate,
		Painter:     treePainter(gs.color),
		Logger:      gs.logger,
	}
	if j != nil {
		defer j.Close()
		opts.Journal = j
	}

	repl.Start(gs.stdout, opts)
	return nil
}

// openJournal opens the configured journal, or returns nil when journaling is off.
func openJournal(gs *globalState) (*journal.Journal, error) {
	if !gs.cfg.Journal.Enabled {
		return nil, nil
	}
	return openJournalAlways(gs)
}

// openJournalAlways opens the configured journal whether or not recording is enabled.
func openJournalAlways(gs *globalState) (*journal.Journal, error) {
	maxSize, err := config.ParseSize(gs.cfg.Journal.MaxSize)
	if err != nil {
		return nil, exitCodeError{error: err, Code: exitInvalidConfig}
	}
	jcfg := journal.DefaultConfig()
	jcfg.Path = gs.cfg.Journal.Path
	if maxSize > 0 {
		jcfg.MaxSize = maxSize
	}
	if gs.cfg.Journal.TruncatePct > 0 {
		jcfg.TruncatePct = gs.cfg.Journal.TruncatePct
	}
	j, err := journal.Open(gs.cfg.BaseDir, jcfg, gs.logger)
	if err != nil {
		return nil, exitCodeError{error: err, Code: exitIOError}
	}
	gs.logger.WithField("path", j.Path()).Debug("journal opened")
	return j, nil
}

// record writes one parse to the journal, logging rather than failing.
func record(gs *globalState, j *journal.Journal, entry journal.Entry) {
	if j == nil {
		return
	}
	if err := j.Record(entry); err != nil {
		gs.logger.WithError(err).Warn("could not record parse")
	}
}

// run executes the command line in args and returns the error it ended with.
func (c *rootCommand) run(args []string) error {
	c.cmd.SetArgs(args)
	return c.cmd.ExecuteContext(c.gs.ctx)
}

// execute runs the command line of the process and exits with its status.
func (c *rootCommand) execute() {
	if err := c.run(os.Args[1:]); err != nil {
		os.Exit(c.handleError(err))
	}
}

// handleError logs err and returns the process exit status for it.
func (c *rootCommand) handleError(err error) int {
	fields := logrus.Fields{}
	code := exitGenericError
	var ecerr exitCodeError
	if errors.As(err, &ecerr) {
		code = ecerr.Code
		if ecerr.Hint != "" {
			fields["hint"] = ecerr.Hint
		}
	}
	c.gs.logger.WithFields(fields).Error(strings.TrimSpace(err.Error()))
	return code
}

// must panics on errors that can only come from programming mistakes.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("frost: %v", err))
	}
}
