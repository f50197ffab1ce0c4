package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/threadstone/threadstone/harness"
	"github.com/threadstone/threadstone/report"
	"github.com/threadstone/threadstone/signing"
	"github.com/threadstone/threadstone/upload"
)

func newVerifyCmd(a *app) *cobra.Command {
	var pubKey string

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Verify the integrity signature of a result file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}

			if cmd.Flags().Changed("pubkey") {
				a.cfg.Signing.PublicKey = pubKey
			}

			pub, err := signing.LoadPublicKey(a.cfg.Signing.PublicKey)
			if err != nil {
				return err
			}

			result, err := harness.ReadResultFile(args[0])
			if err != nil {
				return err
			}

			if err := result.Verify(pub); err != nil {
				return fmt.Errorf("verify %s: %w", args[0], err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: signature OK\n", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&pubKey, "pubkey", "",
		"Public key file (default from config: keys/threadstone.pub)")

	return cmd
}

func newUploadCmd(a *app) *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a result file to a ThreadStone server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadConfig(); err != nil {
				return err
			}

			if cmd.Flags().Changed("endpoint") {
				a.cfg.Upload.Endpoint = endpoint
			}

			result, err := harness.ReadResultFile(args[0])
			if err != nil {
				return err
			}

			client, err := upload.NewClient(
				a.cfg.Upload.Endpoint,
				&http.Client{Timeout: a.cfg.Upload.Timeout.Duration},
				a.logger,
			)
			if err != nil {
				return err
			}

			return client.Upload(cmd.Context(), result)
		},
	}

	cmd.Flags().StringVarP(&endpoint, "endpoint", "e", "",
		"Override upload endpoint")

	return cmd
}

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of result files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" {
				return report.WriteSchema(cmd.OutOrStdout())
			}

			if err := os.WriteFile(output, report.Schema(), 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		"Write the schema to this file instead of stdout")

	return cmd
}

func newKeygenCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 signing key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			privPath, pubPath, err := signing.GenerateKey(dir)
			if err != nil {
				return err
			}

			a.logger.InfoContext(cmd.Context(), "keys written",
				slog.String("private_key", privPath),
				slog.String("public_key", pubPath),
			)

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "keys",
		"Directory to write threadstone.key and threadstone.pub into")

	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:   "report <file>...",
		Short: "Compare one or more result files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]harness.Result, 0, len(args))

			for _, path := range args {
				r, err := harness.ReadResultFile(path)
				if err != nil {
					return err
				}

				results = append(results, *r)
			}

			a.logger.DebugContext(cmd.Context(), "loaded results",
				slog.Int("count", len(results)),
			)

			if outputJSON {
				return report.GenerateJSON(cmd.OutOrStdout(), results)
			}

			return report.Generate(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of table")

	return cmd
}
