// Package config loads explorer settings from defaults, an optional config
// file, FEX_* environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. FEX_LOG_FILE.
const EnvPrefix = "FEX"

// Keys shared by flags, environment and config file.
const (
	KeyLogFile        = "log_file"
	KeyHistoryLines   = "history_lines"
	KeyFollowSymlinks = "follow_symlinks"
	KeyExcludes       = "excludes"
	KeyDebug          = "debug"
	KeyOutput         = "output"
)

// Outputs lists the accepted output formats.
//
//nolint:gochecknoglobals // Config constant
var Outputs = []string{"table", "json", "yaml"}

// Config holds the resolved settings.
type Config struct {
	// LogFile is the append-only activity log.
	LogFile string `mapstructure:"log_file"`
	// HistoryLines is the number of activity lines shown by history.
	HistoryLines int `mapstructure:"history_lines"`
	// FollowSymlinks makes traversals descend into linked directories.
	FollowSymlinks bool `mapstructure:"follow_symlinks"`
	// Excludes holds doublestar patterns pruned from traversals.
	Excludes []string `mapstructure:"excludes"`
	// Debug enables debug diagnostics.
	Debug bool `mapstructure:"debug"`
	// Output is the subcommand output format.
	Output string `mapstructure:"output"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		LogFile:      "file_explorer_activity.log",
		HistoryLines: 20,
		Excludes:     []string{},
		Output:       "table",
	}
}

// New returns a viper instance seeded with defaults and environment lookup.
func New() *viper.Viper {
	v := viper.New()

	def := Default()
	v.SetDefault(KeyLogFile, def.LogFile)
	v.SetDefault(KeyHistoryLines, def.HistoryLines)
	v.SetDefault(KeyFollowSymlinks, def.FollowSymlinks)
	v.SetDefault(KeyExcludes, def.Excludes)
	v.SetDefault(KeyDebug, def.Debug)
	v.SetDefault(KeyOutput, def.Output)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file, if any, and returns the validated settings.
// An explicit file must exist; the default locations are optional.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "fex"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	if c.LogFile == "" {
		return errors.New("log file cannot be empty")
	}

	if c.HistoryLines <= 0 {
		return fmt.Errorf("history lines must be positive, got %d", c.HistoryLines)
	}

	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("invalid output format %q: must be one of %v", c.Output, Outputs)
	}

	return nil
}
