package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/threadstone/threadstone/harness"
	"github.com/threadstone/threadstone/report"
	"github.com/threadstone/threadstone/signing"
	"github.com/threadstone/threadstone/workload"
)

type runFlags struct {
	workload         string
	threads          int
	samples          int
	output           string
	sign             bool
	privateKey       string
	streamSize       int
	streamIterations int
	profileDir       string
	format           string
}

func newRunCmd(a *app) *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a benchmark workload",
		Long: `Sample a workload on a pool of threads and print the result as JSON,
or write it to a file with --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.format != "json" && f.format != "markdown" {
				return fmt.Errorf("unknown --format %q", f.format)
			}

			if err := a.loadConfig(); err != nil {
				return err
			}

			f.applyConfig(cmd, a)

			if cmd.Flags().Changed("format") && a.cfg.Run.Output != "" {
				return fmt.Errorf("--format applies to stdout only and cannot be combined with an output file")
			}

			if err := a.cfg.Validate(); err != nil {
				return err
			}

			if f.profileDir != "" {
				defer profile.Start(
					profile.CPUProfile,
					profile.ProfilePath(f.profileDir),
					profile.Quiet,
				).Stop()
			}

			return runWorkload(cmd.Context(), a, f.format, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.workload, "workload", "w", "dhrystone",
		"Workload to execute: "+strings.Join(workload.Names(), ", "))
	flags.IntVarP(&f.threads, "threads", "t", 0,
		"Number of OS threads to use (0 = all logical cores)")
	flags.IntVarP(&f.samples, "samples", "s", 5,
		"Number of samples to collect")
	flags.StringVarP(&f.output, "output", "o", "",
		"Write the result JSON to this file instead of stdout")
	flags.BoolVar(&f.sign, "sign", false,
		"Sign the result with the configured private key")
	flags.StringVar(&f.privateKey, "key", "",
		"Private key used with --sign")
	flags.IntVar(&f.streamSize, "stream-size", workload.DefaultStreamSize,
		"Elements per STREAM array; the shared inputs take 16 bytes per element "+
			"and every concurrent sample adds 8 more")
	flags.IntVar(&f.streamIterations, "stream-iterations", workload.DefaultStreamIterations,
		"STREAM triad passes per sample")
	flags.StringVar(&f.profileDir, "profile", "",
		"Write a CPU profile of the run into this directory")
	flags.StringVar(&f.format, "format", "json",
		"Stdout format: json, markdown (not allowed with --output, which always writes JSON)")

	return cmd
}

// applyConfig overlays explicitly set flags onto the loaded config.
func (f *runFlags) applyConfig(cmd *cobra.Command, a *app) {
	flags := cmd.Flags()
	cfg := a.cfg

	if flags.Changed("workload") {
		cfg.Run.Workload = f.workload
	}
	if flags.Changed("threads") {
		cfg.Run.Threads = f.threads
	}
	if flags.Changed("samples") {
		cfg.Run.Samples = f.samples
	}
	if flags.Changed("output") {
		cfg.Run.Output = f.output
	}
	if flags.Changed("sign") {
		cfg.Run.Sign = f.sign
	}
	if flags.Changed("key") {
		cfg.Signing.PrivateKey = f.privateKey
	}
	if flags.Changed("stream-size") {
		cfg.Stream.Size = f.streamSize
	}
	if flags.Changed("stream-iterations") {
		cfg.Stream.Iterations = f.streamIterations
	}
}

func runWorkload(ctx context.Context, a *app, format string, stdout io.Writer) error {
	cfg := a.cfg

	w, err := workload.New(cfg.Run.Workload, cfg.WorkloadOptions())
	if err != nil {
		return err
	}

	runner := harness.NewRunner(w, a.logger)

	result, err := runner.Run(ctx, harness.RunConfig{
		Threads: cfg.Run.Threads,
		Samples: cfg.Run.Samples,
	})
	if err != nil {
		return err
	}

	if cfg.Run.Sign {
		key, err := signing.LoadPrivateKey(cfg.Signing.PrivateKey)
		if err != nil {
			return fmt.Errorf("load signing key: %w", err)
		}

		if err := result.Sign(key); err != nil {
			return err
		}
	}

	if cfg.Run.Output != "" {
		if err := result.WriteFile(cfg.Run.Output); err != nil {
			return err
		}

		a.logger.InfoContext(ctx, "result written",
			slog.String("path", cfg.Run.Output),
			slog.Bool("signed", result.Signature != ""),
		)

		return nil
	}

	switch format {
	case "json":
		return result.WriteJSON(stdout)
	case "markdown":
		return report.Generate(stdout, []harness.Result{*result})
	default:
		return fmt.Errorf("unknown --format %q", format)
	}
}
