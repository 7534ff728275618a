// Package common holds flags and file helpers shared by the boombox commands.
package common

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/internal/app"
	"github.com/ian97531/boombox/internal/app/logging"
	"github.com/ian97531/boombox/internal/app/transcript"
	envconfig "github.com/ian97531/boombox/internal/config"
)

var (
	Verbose    bool
	ConfigFile string
)

// ConfigPath resolves the --config flag, falling back to the environment and project defaults.
func ConfigPath() app.ConfigPath {
	if ConfigFile != "" {
		return app.ConfigPath(ConfigFile)
	}
	return app.ConfigPath(envconfig.ConfigPath())
}

// Logger returns a development logger when --verbose is set and a production one otherwise.
func Logger() *zap.Logger {
	return logging.MustNewLogger(Verbose)
}

// EngineFlags binds the alignment tuning to command flags.
type EngineFlags struct {
	opts transcript.Options
}

// Register adds --overlap, --lookahead and --max-window to cmd.
func (f *EngineFlags) Register(cmd *cobra.Command) {
	defaults := transcript.DefaultOptions()
	cmd.Flags().IntVar(&f.opts.Overlap, "overlap", defaults.Overlap, "consecutive words that must match across a seam")
	cmd.Flags().Float64Var(&f.opts.LookaheadSeconds, "lookahead", defaults.LookaheadSeconds, "seconds searched past a candidate seam")
	cmd.Flags().IntVar(&f.opts.MaxWindow, "max-window", defaults.MaxWindow, "largest window tried by the drift search")
}

// Options returns the validated tuning.
func (f *EngineFlags) Options() (transcript.Options, error) {
	return f.opts, f.opts.Validate()
}

// ReadItems decodes a JSON array of transcript items from path.
func ReadItems(path string) ([]transcript.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var items []transcript.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return items, nil
}

// WriteJSON writes v as indented JSON to path, or to stdout when path is empty.
func WriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
