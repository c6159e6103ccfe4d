// pkg/cli/process.go
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/orchestrator"
)

func newProcessCommand(cfg *config.Config) *cobra.Command {
	var (
		journalPath string
		prefix      string
		force       bool
		syncWeather bool
		resume      bool
	)

	cmd := &cobra.Command{
		Use:   "process [flags] <photo-dir>",
		Short: "Ingest and enrich every photo under a directory or S3 bucket",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}
			return runProcess(cmd.Context(), cfg, dir, journalPath, prefix, force, syncWeather, resume)
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "Path to journal file for resumable ingests")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Only ingest photos under this path prefix")
	cmd.Flags().BoolVar(&force, "force", false, "Clear and regenerate metadata that already exists")
	cmd.Flags().BoolVar(&syncWeather, "sync-weather", false, "Block on weather fetches instead of running them in the background")
	cmd.Flags().BoolVar(&resume, "resume", true, "Skip photos recorded in the journal")

	return cmd
}

func runProcess(ctx context.Context, cfg *config.Config, dir, journalPath, prefix string, force, syncWeather, resume bool) error {
	source, err := openSource(ctx, cfg, dir)
	if err != nil {
		return fmt.Errorf("failed to open photo source: %w", err)
	}
	if source == nil {
		return fmt.Errorf("no photo source: pass a directory or configure S3")
	}

	if !resume {
		journalPath = ""
	}
	a, err := newApp(cfg, source, journalPath)
	if err != nil {
		return err
	}
	defer a.close()

	if a.journal != nil {
		a.journal.StartPeriodicSave(ctx)
		defer a.journal.StopPeriodicSave()
	}

	opts := orchestrator.Options{Force: force, SyncWeather: syncWeather}
	if err := a.orch.IngestAll(ctx, prefix, opts); err != nil {
		return err
	}

	logger.Info("Processing finished")
	return nil
}
