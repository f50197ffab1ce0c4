// Package main provides the CLI entry point for threadstone, a CPU and
// memory benchmark suite.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/threadstone/threadstone/config"
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app carries state shared by every subcommand once the root flags are
// parsed.
type app struct {
	configPath string
	logLevel   string

	logger *slog.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "threadstone",
		Short: "ThreadStone CPU benchmark suite",
		Long: `ThreadStone runs integer (Dhrystone) and memory bandwidth (STREAM)
workloads across a configurable number of threads and emits signed,
machine-readable results.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "",
		"Path to TOML config file (default: ./"+config.DefaultPath+" if present)")
	flags.StringVar(&a.logLevel, "log-level", "info",
		"Log level: debug, info, warn, error")

	root.AddCommand(
		newRunCmd(a),
		newVerifyCmd(a),
		newUploadCmd(a),
		newSchemaCmd(),
		newKeygenCmd(a),
		newReportCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(a.logLevel))); err != nil {
		return fmt.Errorf("parse --log-level: %w", err)
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	return nil
}

// loadConfig reads the config file. Only commands that consult the config
// call it, so a broken file does not block schema or keygen.
func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.cfg = cfg

	return nil
}
