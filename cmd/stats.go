package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print queue counters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initStoreOnly(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		st, err := env.Store.Stats(ctx)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		fmt.Printf("pending=%d fetched=%d parsed=%d failed=%d total=%d companies=%d\n",
			st.Pending, st.Fetched, st.Parsed, st.Failed, st.Total, st.Companies)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
