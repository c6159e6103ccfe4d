// pkg/cli/root.go
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
)

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interruption signals
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	// Local .env files are optional
	_ = godotenv.Load()

	var configPath string
	cfg := config.New()

	rootCmd := &cobra.Command{
		Use:   "photo-seo",
		Short: "Enrich photo libraries with EXIF metadata and SEO descriptions",
		Long: `photo-seo extracts EXIF and IPTC metadata from photos, resolves their
location taxonomy, enriches them with timezone and historical weather data,
and synthesizes search descriptions from scored tags.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			// Flags bound to cfg win over file and environment values.
			if !cmd.Flags().Changed("log-level") {
				cfg.LogLevel = loaded.LogLevel
			}
			if !cmd.Flags().Changed("db") {
				cfg.Database = loaded.Database
			}
			cfg.Pipeline = loaded.Pipeline
			cfg.Timezone = loaded.Timezone
			cfg.Weather = loaded.Weather
			cfg.SEO = loaded.SEO
			cfg.Source = loaded.Source

			logger.SetLevel(cfg.LogLevel)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.Database.Path, "db", "photo-seo.db", "Path to the database file")

	// Add commands
	rootCmd.AddCommand(newProcessCommand(cfg))
	rootCmd.AddCommand(newWatchCommand(cfg))
	rootCmd.AddCommand(newServeCommand(cfg))
	rootCmd.AddCommand(newCorrectionsCommand(cfg))
	rootCmd.AddCommand(newWeatherCommand(cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Error executing command: %v", err)
		os.Exit(1)
	}
}
