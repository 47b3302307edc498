package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"bookloop/internal/app"
	"bookloop/internal/config"
	"bookloop/internal/logging"
	"bookloop/internal/store"
	"bookloop/ui/console"
	"bookloop/ui/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	offline    bool
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bookloop",
	Short: "BookLoop - rent books from readers near you",
	Long: `BookLoop is a peer-to-peer book rental marketplace for the terminal.

Browse books listed near you, list your own for rent and manage your
rentals. The catalog is generated once at startup.

Run without arguments to start the interactive interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("offline") {
			cfg = cfg.WithOffline(offline)
		}
		if cmd.Flags().Changed("verbose") {
			cfg = cfg.WithVerbose(verbose)
		}

		logger, err = logging.New(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

// catalogCmd prints the ingested catalog and exits
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Load the catalog once and print it",
	Long: `Runs the one-shot catalog load and prints the home shelves, your
listings and your rentals as a plain report.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCatalog(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Use the built-in catalog instead of the generation service")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(catalogCmd)
}

func runInteractive(ctx context.Context) error {
	notices := tui.NewNotices()
	rt, err := app.New(ctx, cfg, logger, app.WithStoreOptions(store.WithNotifier(notices)))
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	return tui.Start(rt.Store, tui.Options{
		Load:             rt.Load,
		Activity:         rt.JournalRepo(),
		Notices:          notices,
		CarouselInterval: cfg.CarouselInterval,
		NoticeDuration:   cfg.NoticeDuration,
		Logger:           logger.Named("tui"),
	})
}

func runCatalog(ctx context.Context) error {
	rt, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	loadErr := rt.Load(ctx)
	console.Print(os.Stdout, rt.Store.Snapshot())
	return loadErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
