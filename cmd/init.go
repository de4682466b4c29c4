package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/directorycat/catalog-pipeline/internal/discovery"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Fetch sitemap(s) and enqueue discovered company URLs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initStoreOnly(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		httpClient := &http.Client{Timeout: 30 * time.Second}

		var all []string
		for _, sitemapURL := range cfg.Catalog.SitemapURLs {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
			if err != nil {
				return eris.Wrapf(err, "build sitemap request for %q", sitemapURL)
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				return eris.Wrapf(err, "fetch sitemap %q", sitemapURL)
			}
			urls, err := discovery.Sitemap(ctx, resp.Body)
			resp.Body.Close()
			if err != nil {
				return eris.Wrapf(err, "parse sitemap %q", sitemapURL)
			}
			zap.L().Info("discovered urls", zap.String("sitemap", sitemapURL), zap.Int("count", len(urls)))
			all = append(all, urls...)
		}

		inserted, err := env.Store.Enqueue(ctx, all)
		if err != nil {
			return eris.Wrap(err, "enqueue discovered urls")
		}

		fmt.Printf("discovered=%d enqueued=%d\n", len(all), inserted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
