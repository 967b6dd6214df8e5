package main

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/sambeau/frost/config"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configFile string
	logLevel   string
	verbose    bool
	noColor    bool
}

// globalState is everything a command touches outside of its own flags, so
// commands can be run in-process by tests.
type globalState struct {
	ctx context.Context

	stdin          io.Reader
	stdout, stderr io.Writer
	stdoutTTY      bool
	getenv         func(string) string

	flags  globalFlags
	cfg    *config.Config
	logger *logrus.Logger

	// set once the config is known
	color bool
}

// newGlobalState wires the process' real terminal and environment.
func newGlobalState(ctx context.Context) *globalState {
	stdoutTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

	outMutex := &sync.Mutex{}
	stdout := &consoleWriter{Writer: colorable.NewColorableStdout(), mutex: outMutex}
	stderr := &consoleWriter{Writer: colorable.NewColorableStderr(), mutex: outMutex}

	logger := &logrus.Logger{
		Out:       stderr,
		Formatter: &logrus.TextFormatter{ForceColors: stderrTTY},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	return &globalState{
		ctx:       ctx,
		stdin:     os.Stdin,
		stdout:    stdout,
		stderr:    stderr,
		stdoutTTY: stdoutTTY,
		getenv:    os.Getenv,
		flags:     defaultFlags(os.LookupEnv),
		logger:    logger,
	}
}

// defaultFlags reads the environment variables that stand in for flags.
func defaultFlags(lookupEnv func(string) (string, bool)) globalFlags {
	var flags globalFlags
	if v, ok := lookupEnv("FROST_LOG_LEVEL"); ok {
		flags.logLevel = v
	}
	// https://no-color.org/: any value, even an empty one, disables color
	if _, ok := lookupEnv("NO_COLOR"); ok {
		flags.noColor = true
	}
	return flags
}

// consoleWriter serializes writes from the watch goroutine and the command.
type consoleWriter struct {
	io.Writer
	mutex *sync.Mutex
}

func (w *consoleWriter) Write(p []byte) (int, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.Writer.Write(p)
}

// stripColors replaces the writer with one that drops ANSI escapes.
func (w *consoleWriter) stripColors() {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.Writer = colorable.NewNonColorable(w.Writer)
}
