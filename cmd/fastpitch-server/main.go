package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/fastpitchtools/fastpitch-events/internal/aggregate"
	"github.com/fastpitchtools/fastpitch-events/internal/config"
	"github.com/fastpitchtools/fastpitch-events/internal/fetch"
	"github.com/fastpitchtools/fastpitch-events/internal/logger"
	"github.com/fastpitchtools/fastpitch-events/internal/server"
	"github.com/fastpitchtools/fastpitch-events/internal/source"
	"github.com/fastpitchtools/fastpitch-events/internal/storage"
)

var (
	configFile = flag.String("config", "", "Optional TOML config file")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
	dataDir    = flag.String("data-dir", "", "Data directory for snapshots (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if cfg.Verbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	fetcher := fetch.New(cfg.FetchOptions())
	controller := aggregate.NewController(source.DefaultAdapters(fetcher)...)
	controller.Workers = cfg.Workers

	srv := server.New(store, controller)
	srv.EnsureSnapshot()

	logger.Info("query service listening", logger.Fields{
		"addr":  cfg.ListenAddr,
		"relay": cfg.RelayEnabled(),
	})
	if err := http.ListenAndServe(cfg.ListenAddr, srv.Handler()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
