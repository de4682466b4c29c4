package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/directorycat/catalog-pipeline/internal/fetcher"
	"github.com/directorycat/catalog-pipeline/internal/pipeline"
	"github.com/directorycat/catalog-pipeline/internal/store"
	"github.com/directorycat/catalog-pipeline/pkg/renderclient"
)

// pipelineEnv holds everything a scrape/process/run command needs. Callers
// must defer env.Close().
type pipelineEnv struct {
	Store  *store.Store
	Driver *pipeline.Driver
}

func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initStoreOnly opens the store for commands that never need the
// render-service client (init, process, overview, stats).
func initStoreOnly(ctx context.Context) (*pipelineEnv, error) {
	if err := cfg.Validate(false); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	d := pipeline.New(st, nil, cfg.Parse.ChunkSize, cfg.Parse.Workers)
	return &pipelineEnv{Store: st, Driver: d}, nil
}

// initFetchEnv opens the store and builds a fetcher + Driver for commands
// that fetch (scrape, run). Exits the process with code 2 if the render
// service API key is unset, per §A.6.
func initFetchEnv(ctx context.Context) (*pipelineEnv, error) {
	if cfg.Render.Key == "" {
		fmt.Fprintln(os.Stderr, "catalogctl: RENDER_API_KEY is not set")
		os.Exit(2)
	}
	if err := cfg.Validate(true); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}

	client := renderclient.NewClient(cfg.Render.Key, renderclient.WithBaseURL(cfg.Render.BaseURL))
	attemptTimeout := time.Duration(cfg.Fetch.AttemptTimeoutS) * time.Second
	f := fetcher.New(client, st, cfg.Fetch.MaxConcurrent, attemptTimeout)

	d := pipeline.New(st, f, cfg.Parse.ChunkSize, cfg.Parse.Workers)
	return &pipelineEnv{Store: st, Driver: d}, nil
}
