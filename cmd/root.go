// Package main implements catalogctl, the batch CLI that discovers,
// fetches, and parses a startup accelerator's public company directory into
// a normalized SQLite dataset.
package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/directorycat/catalog-pipeline/internal/config"
)

var cfg *config.Config

// strict controls whether a command exits non-zero when failed > 0, per
// §A.7's "non-zero exit iff failed > 0 and --strict is set".
var strict bool

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Catalog ingest pipeline",
	Long:  "Discovers, fetches, and parses a startup accelerator's public company directory into a normalized SQLite dataset.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "exit non-zero when any page failed")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
