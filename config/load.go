package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation.
// If configPath is empty, it searches default locations and falls back to
// Defaults when no file is found.
func Load(configPath string, getenv func(string) string) (*Config, error) {
	cfg, _, err := LoadWithPath(configPath, getenv)
	return cfg, err
}

// LoadWithPath reads configuration and returns both the config and the resolved path.
// The path is empty when no config file was found.
func LoadWithPath(configPath string, getenv func(string) string) (*Config, string, error) {
	path, err := resolveConfigPath(configPath, getenv)
	if err != nil {
		return nil, "", err
	}

	cfg := Defaults()
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve working directory: %w", err)
		}
		cfg.BaseDir = wd
		resolvePaths(cfg)
		return cfg, "", nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = filepath.Dir(absPath)
	cfg.Path = absPath
	resolvePaths(cfg)

	if err := Validate(cfg); err != nil {
		return nil, "", err
	}

	return cfg, absPath, nil
}

// resolvePaths fills in default file locations and makes relative paths
// relative to the config directory.
func resolvePaths(cfg *Config) {
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = "frost_journal.db"
	}
	if !filepath.IsAbs(cfg.Journal.Path) {
		cfg.Journal.Path = filepath.Join(cfg.BaseDir, cfg.Journal.Path)
	}

	if cfg.REPL.HistoryFile == "" {
		cfg.REPL.HistoryFile = filepath.Join(os.TempDir(), ".frost_history")
	} else if !filepath.IsAbs(cfg.REPL.HistoryFile) {
		cfg.REPL.HistoryFile = filepath.Join(cfg.BaseDir, cfg.REPL.HistoryFile)
	}
}

// Validate checks the configuration for errors.
// Call this again after applying CLI overrides.
func Validate(cfg *Config) error {
	var errs []string

	// Output validation
	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Output.Color] {
		errs = append(errs, fmt.Sprintf("invalid output color: %s (must be auto, always, or never)", cfg.Output.Color))
	}

	// Journal validation
	if _, err := ParseSize(cfg.Journal.MaxSize); err != nil {
		errs = append(errs, fmt.Sprintf("journal.max_size: %v", err))
	}
	if cfg.Journal.TruncatePct < 1 || cfg.Journal.TruncatePct > 100 {
		errs = append(errs, fmt.Sprintf("journal.truncate_pct: %d (must be 1-100)", cfg.Journal.TruncatePct))
	}

	// Watch validation
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Sprintf("watch.debounce: %s (must not be negative)", cfg.Watch.Debounce))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", cfg.Logging.Level))
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be json or text)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > FROST_CONFIG env > ./frost.yaml > ~/.config/frost/frost.yaml
// Returns "" when none of the implicit locations exist.
func resolveConfigPath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	// Try FROST_CONFIG environment variable
	if envPath := getenv("FROST_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("FROST_CONFIG file not found: %s", envPath)
		}
		return envPath, nil
	}

	// Try ./frost.yaml
	if _, err := os.Stat("frost.yaml"); err == nil {
		return "frost.yaml", nil
	}

	// Try ~/.config/frost/frost.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "frost", "frost.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath, nil
		}
	}

	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// ParseSize parses a size string like "10MB", "1GB", "500KB" to bytes.
// Supports: B, KB, MB, GB (case insensitive).
// Returns 0 for empty string.
func ParseSize(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	s = strings.TrimSpace(strings.ToUpper(s))

	// Check suffixes in order of length (longest first) to avoid "B" matching before "MB"
	suffixes := []struct {
		suffix string
		mult   int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}

	for _, sf := range suffixes {
		if strings.HasSuffix(s, sf.suffix) {
			numStr := strings.TrimSpace(strings.TrimSuffix(s, sf.suffix))
			var num int64
			if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
				return 0, fmt.Errorf("invalid size number: %s", numStr)
			}
			return num * sf.mult, nil
		}
	}

	// Try parsing as plain number (bytes)
	var num int64
	if _, err := fmt.Sscanf(s, "%d", &num); err != nil {
		return 0, fmt.Errorf("invalid size format: %s (use B, KB, MB, or GB suffix)", s)
	}
	return num, nil
}
