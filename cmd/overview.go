package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	overviewStatus string
	overviewBatch  string
	overviewN      int
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Read-only tabular listing of ingested companies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initStoreOnly(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		rows, err := env.Store.Overview(ctx, overviewStatus, overviewBatch, overviewN)
		if err != nil {
			return eris.Wrap(err, "overview")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tNAME\tSTATUS\tBATCH\tLOCATION\tHIRING")
		for _, r := range rows {
			batch := r.BatchSeason
			if r.BatchYear != 0 {
				batch = fmt.Sprintf("%s %d", r.BatchSeason, r.BatchYear)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", r.Slug, r.Name, r.Status, batch, r.Location, r.IsHiring)
		}
		return w.Flush()
	},
}

func init() {
	overviewCmd.Flags().StringVar(&overviewStatus, "status", "", "filter by company status")
	overviewCmd.Flags().StringVar(&overviewBatch, "batch", "", "filter by batch season")
	overviewCmd.Flags().IntVarP(&overviewN, "n", "n", 0, "max rows to print (0 means unlimited)")
	rootCmd.AddCommand(overviewCmd)
}
