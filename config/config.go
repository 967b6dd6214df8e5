package config

import "time"

// Config represents the complete Frost configuration
type Config struct {
	BaseDir string        `yaml:"-"` // Directory containing config file, for resolving relative paths
	Path    string        `yaml:"-"` // Absolute path of the loaded file, empty when running on defaults
	REPL    REPLConfig    `yaml:"repl"`
	Output  OutputConfig  `yaml:"output"`
	Journal JournalConfig `yaml:"journal"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// REPLConfig holds interactive read-loop settings
type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"` // Line history (default: $TMPDIR/.frost_history)
	ShowEvents  bool   `yaml:"show_events"`  // Print the event log after each tree
	ShowTokens  bool   `yaml:"show_tokens"`  // Print the lexemes after each tree
	ShowErrors  bool   `yaml:"show_errors"`  // Print diagnostics after each tree
	Evaluate    bool   `yaml:"evaluate"`     // Print the value of each line
}

// OutputConfig holds terminal output settings
type OutputConfig struct {
	Color string `yaml:"color"` // auto, always, never
}

// JournalConfig holds parse journal settings
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`         // SQLite file (default: <config dir>/frost_journal.db)
	MaxSize     string `yaml:"max_size"`     // e.g. "10MB"
	TruncatePct int    `yaml:"truncate_pct"` // Percentage of oldest entries removed when max_size is exceeded
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		REPL: REPLConfig{
			Prompt:     "> ",
			ShowErrors: true,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Journal: JournalConfig{
			MaxSize:     "10MB",
			TruncatePct: 25,
		},
		Watch: WatchConfig{
			Debounce: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
