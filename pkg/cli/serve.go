// pkg/cli/serve.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/server"
)

func newServeCommand(cfg *config.Config) *cobra.Command {
	var addr string
	var photoDir string

	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Run the operator HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg, addr, photoDir)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8087", "Address to listen on")
	cmd.Flags().StringVar(&photoDir, "photo-dir", "", "Local photo directory, when not reading from S3")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, addr, photoDir string) error {
	source, err := openSource(ctx, cfg, photoDir)
	if err != nil {
		return err
	}

	a, err := newApp(cfg, source, "")
	if err != nil {
		return err
	}
	defer a.close()

	srv := server.New(addr, a.store, a.tables, a.orch, a.enricher, a.seo)
	return srv.Start(ctx)
}
