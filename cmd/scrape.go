package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var errFailuresAboveThreshold = eris.New("one or more pages failed")

var scrapeN int

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch up to N pending pages (or all) and stream results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initFetchEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		counts, err := env.Driver.Scrape(ctx, scrapeN)
		if err != nil {
			return eris.Wrap(err, "scrape")
		}

		if printSummary(counts) {
			return errFailuresAboveThreshold
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().IntVarP(&scrapeN, "n", "n", 0, "max pages to fetch (0 means all pending)")
	rootCmd.AddCommand(scrapeCmd)
}
