package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookloop/internal/app"
	"bookloop/internal/config"
	"bookloop/internal/logging"
	"bookloop/internal/mcpserver"
	"bookloop/internal/store"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	offline := flag.Bool("offline", false, "serve the built-in fixture catalog")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	if err := run(*configPath, *offline, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "bookloop-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, offline, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if offline {
		cfg = cfg.WithOffline(true)
	}
	if verbose {
		cfg = cfg.WithVerbose(true)
	}

	// stdout carries the protocol.
	logger, err := logging.NewStderr(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notices := store.NotifierFunc(func(message string) {
		logger.Info("notice", zap.String("message", message))
	})
	rt, err := app.New(ctx, cfg, logger, app.WithStoreOptions(store.WithNotifier(notices)))
	if err != nil {
		return err
	}
	defer rt.Close()

	// A failed load leaves the error page in the store; the tools still
	// answer, with an empty catalog.
	if err := rt.Load(ctx); err != nil {
		logger.Error("initial load failed", zap.Error(err))
	}

	opts := []mcpserver.Option{
		mcpserver.WithJournal(rt.JournalRepo()),
		mcpserver.WithLogger(logger.Named("mcp")),
	}
	if rt.Graph != nil {
		opts = append(opts, mcpserver.WithGraph(rt.Graph))
	}
	server := mcpserver.NewServer(mcpserver.Config{
		ServerName:    "bookloop",
		ServerVersion: "1.0.0",
	}, rt.Store, opts...)

	logger.Info("serving MCP on stdio", zap.Int("books", len(rt.Store.Catalog())))
	return server.Start(ctx)
}
