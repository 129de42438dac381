// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/findoc/internal/source"
)

const defaultDelay = 1 * time.Second

var acquireCmd = &cobra.Command{
	Use:   "acquire [urls...]",
	Short: "Download credit reports into raw/",
	Long: `Acquire downloads report files (PDF, HTML, images, text) from http or
https URLs into raw/. Rate-limited responses (429, 503) are retried with
backoff. Files without an extension are named from their Content-Type.`,
	RunE: runAcquire,
}

func init() {
	acquireCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	acquireCmd.Flags().Duration("delay", 0, "delay between consecutive downloads (default 1s)")

	bindFlag("source.http.timeout", acquireCmd.Flags().Lookup("timeout"))

	rootCmd.AddCommand(acquireCmd)
}

func runAcquire(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more report URLs")
	}

	delay, _ := cmd.Flags().GetDuration("delay")
	if delay == 0 {
		delay = defaultDelay
	}

	httpCfg := cfg.Source.HTTP
	client := &http.Client{Timeout: httpCfg.Timeout}
	log := component("acquire")
	ctx := cmd.Context()

	failed := 0
	for i, u := range args {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		path, err := source.Download(ctx, client, httpCfg, u, cfg.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:     %s (%v)\n", u, err)
			log.Warn().Str("url", u).Err(err).Msg("download failed")
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "downloaded: %s -> %s (key %s)\n", u, path, source.Key(path))
	}

	if failed > 0 {
		return fmt.Errorf("%d report(s) failed acquisition", failed)
	}
	return nil
}
