// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the findoc CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/findoc/internal/logger"
	"github.com/pdiddy/findoc/internal/secrets"
	"github.com/pdiddy/findoc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the merged configuration (file, env, flags) for this run.
	cfg types.Config

	// log is the root logger, built from cfg.Log before each command runs.
	log = logger.Nop()

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets map[string]string
)

// rootCmd is the base command for the findoc CLI.
var rootCmd = &cobra.Command{
	Use:   "findoc",
	Short: "Extract financial fields from credit report text",
	Long: `findoc pulls company, credit, financial, and payment fields out of
credit reports and stores them for querying.

The pipeline runs in stages: acquire downloads reports into raw/, convert
turns PDF, HTML, and scanned images into text/, extract writes one
-fields.yaml per document into extracted/, and store indexes those into
SQLite or Postgres.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("decoding config: %w", err)
		}
		applyDefaults(&cfg)
		log = logger.New(cfg.Log, os.Stderr)

		s, err := secrets.Load(".secrets/", log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug().Strs("keys", keys).Msg("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./findoc.yaml or ~/.config/findoc/config.yaml)")
	pf.String("data-dir", "data", "base directory (contains raw/, text/, extracted/, index/)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Bool("log-pretty", false, "human-readable console logs instead of JSON")

	bindFlag("data_dir", pf.Lookup("data-dir"))
	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.pretty", pf.Lookup("log-pretty"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("findoc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "findoc"))
		}
	}

	viper.SetDefault("store.dialect", string(types.DialectSQLite))
	viper.SetDefault("store.max_results", 10)
	viper.SetDefault("source.runtime", "auto")
	viper.SetDefault("source.http.timeout", "60s")
	viper.SetDefault("source.http.max_retries", 5)
	viper.SetDefault("report.currency_symbol", "£")

	viper.SetEnvPrefix("FINDOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// applyDefaults fills stage configs from the top-level data directory.
func applyDefaults(c *types.Config) {
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Extraction.DataDir == "" {
		c.Extraction.DataDir = c.DataDir
	}
	if c.Store.DataDir == "" {
		c.Store.DataDir = c.DataDir
	}
	if c.Store.Dialect == "" {
		c.Store.Dialect = types.DialectSQLite
	}
	if c.Source.HTTP.UserAgent == "" {
		c.Source.HTTP.UserAgent = "findoc/" + version
	}
}

// bindFlag ties a viper key to a flag. A nil flag panics at startup.
func bindFlag(key string, f *pflag.Flag) {
	if err := viper.BindPFlag(key, f); err != nil {
		panic(fmt.Sprintf("binding %s: %v", key, err))
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// component returns a child of the root logger for one stage.
func component(name string) zerolog.Logger {
	return logger.Component(log, name)
}
