package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var runN int

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scrape then process: fetch and parse in one pass",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initFetchEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Driver.Run(ctx, runN)
		if err != nil {
			return eris.Wrap(err, "run")
		}

		if printSummary(counts) {
			return errFailuresAboveThreshold
		}
		return nil
	},
}

func init() {
	runCmd.Flags().IntVarP(&runN, "n", "n", 0, "max pages to fetch this run (0 means all pending)")
	rootCmd.AddCommand(runCmd)
}
