// pkg/cli/watch.go
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/imagesource"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/orchestrator"
	"github.com/bstardust/photo-seo-enricher/internal/watcher"
)

func newWatchCommand(cfg *config.Config) *cobra.Command {
	var journalPath string
	var syncWeather bool

	cmd := &cobra.Command{
		Use:   "watch [flags] <photo-dir>",
		Short: "Watch a directory and enrich photos as they appear",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cfg, args[0], journalPath, syncWeather)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "Path to journal file")
	cmd.Flags().BoolVar(&syncWeather, "sync-weather", false, "Block on weather fetches instead of running them in the background")

	return cmd
}

func runWatch(ctx context.Context, cfg *config.Config, dir, journalPath string, syncWeather bool) error {
	source, err := imagesource.NewLocal(dir)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, source, journalPath)
	if err != nil {
		return err
	}
	defer a.close()

	opts := orchestrator.Options{SyncWeather: syncWeather}
	w, err := watcher.New(dir, func(ctx context.Context, relPath string) {
		// Each event is its own logical batch.
		postID, err := a.orch.IngestPhoto(ctx, relPath, orchestrator.NewArena(), opts)
		if err != nil {
			logger.Error("Failed to ingest %s: %v", relPath, err)
			return
		}
		if a.journal != nil {
			a.journal.MarkProcessed(relPath, postID)
		}
	})
	if err != nil {
		return err
	}

	err = w.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
