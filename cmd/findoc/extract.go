// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/findoc/internal/extract"
	"github.com/pdiddy/findoc/internal/report"
)

var extractCmd = &cobra.Command{
	Use:   "extract [files...|-]",
	Short: "Extract financial fields from report text",
	Long: `Extract runs the field rules over report text and prints a formatted
report, or JSON with --json. Use "-" to read from stdin. Non-text files
(PDF, HTML) are converted first.

With --batch it processes every file in text/ and writes one
<key>-fields.yaml per document into extracted/. Documents whose output is
newer than their text are skipped unless --force is given.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().Bool("batch", false, "process all documents in text/")
	extractCmd.Flags().Bool("json", false, "print the extraction result as JSON")
	extractCmd.Flags().Bool("force", false, "re-extract documents that are up to date")
	extractCmd.Flags().String("metrics-file", "", "write Prometheus textfile metrics to this path")
	extractCmd.Flags().String("currency", "", "currency symbol for monetary fields in the report")

	bindFlag("extraction.force", extractCmd.Flags().Lookup("force"))
	bindFlag("extraction.metrics_file", extractCmd.Flags().Lookup("metrics-file"))
	bindFlag("report.currency_symbol", extractCmd.Flags().Lookup("currency"))

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetBool("batch")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	runner := &extract.Runner{
		Engine:  extract.New(),
		Logger:  component("extract"),
		Metrics: extract.NewMetrics(),
	}

	var err error
	if batch {
		err = runBatchExtract(cmd, runner)
	} else {
		err = runSingleExtract(cmd, runner, args, jsonOutput)
	}

	if path := cfg.Extraction.MetricsFile; path != "" {
		if werr := runner.Metrics.WriteTextfile(path); werr != nil {
			runner.Logger.Warn().Err(werr).Msg("metrics not written")
		}
	}
	return err
}

func runBatchExtract(cmd *cobra.Command, runner *extract.Runner) error {
	summary, err := runner.ExtractAll(cmd.Context(), cfg.Extraction, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d document(s) failed extraction", summary.Failed)
	}
	return nil
}

func runSingleExtract(cmd *cobra.Command, runner *extract.Runner, args []string, jsonOutput bool) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more files, \"-\" for stdin, or use --batch")
	}

	router := newRouter(cmd.Context(), false)

	for _, arg := range args {
		text, err := readInput(cmd, arg, func(path string) (string, error) {
			t, _, err := router.Text(cmd.Context(), path)
			return t, err
		})
		if err != nil {
			return err
		}

		start := time.Now()
		result, diag := runner.Engine.ExtractDetailed(text)
		runner.Metrics.ObserveDocument(result, diag, time.Since(start))
		for _, f := range diag.Failures {
			runner.Logger.Debug().Str("input", arg).Str("field", string(f.Field)).Str("raw", f.Raw).Err(f.Err).Msg("field did not parse")
		}

		if len(args) > 1 && !jsonOutput {
			fmt.Printf("==> %s <==\n", arg)
		}
		if jsonOutput {
			if err := report.WriteJSON(os.Stdout, result); err != nil {
				return err
			}
			continue
		}
		fmt.Print(report.Format(result, cfg.Report))
	}
	return nil
}

// readInput returns the text for one argument: stdin for "-", the file
// contents for .txt files, and converted text for everything else.
func readInput(cmd *cobra.Command, arg string, convert func(string) (string, error)) (string, error) {
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	if strings.EqualFold(filepath.Ext(arg), ".txt") {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", arg, err)
		}
		return string(data), nil
	}
	return convert(arg)
}
