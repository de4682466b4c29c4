package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var processN int

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Parse up to N fetched-but-unparsed pages (or all)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initStoreOnly(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Driver.Process(ctx, processN)
		if err != nil {
			return eris.Wrap(err, "process")
		}

		if printSummary(counts) {
			return errFailuresAboveThreshold
		}
		return nil
	},
}

func init() {
	processCmd.Flags().IntVarP(&processN, "n", "n", 0, "max pages to parse (0 means all fetched-but-unparsed)")
	rootCmd.AddCommand(processCmd)
}
