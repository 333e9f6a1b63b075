package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"primedata/internal/config"
	"primedata/internal/logger"
)

var (
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sample-app",
		Short: "Sample sender for the analytics pipeline",
		Long:  "Sample sender that builds demo payloads and uploads them through the analytics core",
		RunE:  runCmd().RunE,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (required)")

	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the sample sender",
		RunE: func(cmd *cobra.Command, args []string) error {
			earlyLog := logger.NewEarlyLog()

			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
				if configFile == "" {
					earlyLog.Error("Config file is required. Use --config flag or CONFIG_FILE environment variable")
					return fmt.Errorf("config file is required")
				}
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				earlyLog.Error("Failed to load config: %v", err)
				return err
			}

			log, err := logger.New(cfg.Logging.Level)
			if err != nil {
				earlyLog.Error("Failed to init logger: %v", err)
				return err
			}
			defer log.Sync()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			log.Infow("Starting sample sender")

			app := NewApp(cfg, log)
			if err := app.Initialize(ctx); err != nil {
				log.Fatalf("Failed to initialize application: %v", err)
			}
			defer app.Shutdown()

			log.Infow("Sender running")
			if err := app.Run(ctx); err != nil && err != context.Canceled {
				log.Errorw("Sender stopped with error", "error", err)
				return err
			}
			log.Infow("Sender shutdown complete")
			return nil
		},
	}
}
