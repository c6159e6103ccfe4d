// pkg/cli/app.go
package cli

import (
	"context"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/enrich"
	"github.com/bstardust/photo-seo-enricher/internal/imagesource"
	"github.com/bstardust/photo-seo-enricher/internal/journal"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/orchestrator"
	"github.com/bstardust/photo-seo-enricher/internal/places"
	"github.com/bstardust/photo-seo-enricher/internal/progress"
	"github.com/bstardust/photo-seo-enricher/internal/seo"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/internal/worker"
)

// app bundles the wired pipeline for one command invocation.
type app struct {
	cfg      *config.Config
	store    *store.Store
	tables   *corrections.Tables
	places   *places.Manager
	enricher *enrich.Enricher
	seo      *seo.Engine
	journal  *journal.Journal
	orch     *orchestrator.Orchestrator
}

// newApp opens the store, seeds the correction tables and wires the
// pipeline. source may be nil for commands that never read photo bytes.
func newApp(cfg *config.Config, source imagesource.Source, journalPath string) (*app, error) {
	s, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	tables := corrections.NewTables(s)
	if err := tables.Seed(); err != nil {
		s.Close()
		return nil, err
	}

	pl := places.New(s)
	en := enrich.New(s, enrich.NewTimezoneClient(cfg.Timezone), enrich.NewWeatherClient(cfg.Weather))
	se := seo.NewEngine(s, pl, seo.NewVocabulary(cfg.SEO))
	pool := worker.NewPool(cfg.Pipeline.Concurrency)

	var jnl *journal.Journal
	if journalPath != "" {
		jnl = journal.New(journalPath)
		if err := jnl.Load(); err != nil {
			logger.Warn("Could not load journal: %v", err)
		}
	}

	orch := orchestrator.New(s, tables, pl, en, se, source, pool, progress.New(), jnl, cfg)

	return &app{
		cfg:      cfg,
		store:    s,
		tables:   tables,
		places:   pl,
		enricher: en,
		seo:      se,
		journal:  jnl,
		orch:     orch,
	}, nil
}

func (a *app) close() {
	if a.journal != nil {
		a.journal.Flush()
	}
	a.store.Close()
}

// openSource picks the photo source: S3 when an endpoint is configured,
// otherwise the given local directory.
func openSource(ctx context.Context, cfg *config.Config, localDir string) (imagesource.Source, error) {
	if cfg.Source.S3Endpoint != "" {
		return imagesource.NewS3(ctx, cfg.Source)
	}
	if localDir == "" {
		return nil, nil
	}
	return imagesource.NewLocal(localDir)
}
