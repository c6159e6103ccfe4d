// Package orchestrator sequences the enrichment pipeline for posts:
// extraction, place resolution, timezone and weather enrichment, and SEO
// synthesis.
package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bstardust/photo-seo-enricher/internal/config"
	"github.com/bstardust/photo-seo-enricher/internal/corrections"
	"github.com/bstardust/photo-seo-enricher/internal/enrich"
	"github.com/bstardust/photo-seo-enricher/internal/exifreader"
	"github.com/bstardust/photo-seo-enricher/internal/extractor"
	"github.com/bstardust/photo-seo-enricher/internal/imagesource"
	"github.com/bstardust/photo-seo-enricher/internal/journal"
	"github.com/bstardust/photo-seo-enricher/internal/logger"
	"github.com/bstardust/photo-seo-enricher/internal/places"
	"github.com/bstardust/photo-seo-enricher/internal/progress"
	"github.com/bstardust/photo-seo-enricher/internal/seo"
	"github.com/bstardust/photo-seo-enricher/internal/store"
	"github.com/bstardust/photo-seo-enricher/internal/worker"
	"github.com/bstardust/photo-seo-enricher/pkg/models"
)

// Options control one processing pass over a post.
type Options struct {
	// Force regenerates fields that already exist: metadata is cleared
	// first and the SEO description is rebuilt.
	Force bool

	// SyncWeather blocks on the weather fetch instead of dispatching it
	// to the background pool. Used for operator-triggered refreshes.
	SyncWeather bool
}

// Orchestrator wires the pipeline stages together. Build one per process
// and pass it by handle; it holds no per-request state.
type Orchestrator struct {
	store     *store.Store
	tables    *corrections.Tables
	extractor *extractor.Extractor
	places    *places.Manager
	enricher  *enrich.Enricher
	seo       *seo.Engine
	source    imagesource.Source
	pool      *worker.Pool
	progress  *progress.Reporter
	journal   *journal.Journal
	config    *config.Config
}

// New creates an Orchestrator.
func New(s *store.Store, tables *corrections.Tables, pl *places.Manager,
	en *enrich.Enricher, se *seo.Engine, src imagesource.Source,
	pool *worker.Pool, rep *progress.Reporter, jnl *journal.Journal,
	cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		store:     s,
		tables:    tables,
		extractor: extractor.New(s, tables),
		places:    pl,
		enricher:  en,
		seo:       se,
		source:    src,
		pool:      pool,
		progress:  rep,
		journal:   jnl,
		config:    cfg,
	}
}

// IngestPhoto finds or creates the post backing a photo and runs the
// pipeline over it. Sidecar title, body and tags are applied on creation
// only.
func (o *Orchestrator) IngestPhoto(ctx context.Context, path string, arena *Arena, opts Options) (int64, error) {
	post, err := o.store.FindPostByPhoto(path)
	if err != nil {
		return 0, err
	}

	if post == nil {
		sidecar, err := o.loadSidecar(ctx, path)
		if err != nil {
			return 0, err
		}
		p := &models.Post{Type: "post", PhotoPath: path}
		var tags []string
		if sidecar != nil {
			p.Title = sidecar.Title
			p.Content = sidecar.Content
			p.Excerpt = sidecar.Excerpt
			tags = sidecar.Tags
		}
		if p.Title == "" {
			p.Title = titleFromPath(path)
		}
		id, err := o.store.CreatePost(p, tags)
		if err != nil {
			return 0, err
		}
		if sidecar != nil && sidecar.Caption != "" {
			if _, err := o.store.SetMetaIfAbsent(id, models.MetaCaption, sidecar.Caption); err != nil {
				return 0, err
			}
		}
		post = p
		post.ID = id
	}

	if err := o.ProcessPost(ctx, post.ID, arena, opts); err != nil {
		return post.ID, err
	}
	return post.ID, nil
}

// ProcessPost runs the pipeline stages over one post. Missing inputs are
// skipped silently; only store and context failures surface as errors.
func (o *Orchestrator) ProcessPost(ctx context.Context, postID int64, arena *Arena, opts Options) error {
	if arena != nil && !arena.Claim(postID) {
		logger.Debug("Post %d already processed in this batch, skipping", postID)
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	post, err := o.store.GetPost(postID)
	if err != nil {
		return err
	}
	if !o.typeEnabled(post.Type) {
		logger.Debug("Post %d has disabled type %q, skipping", postID, post.Type)
		return nil
	}

	if opts.Force || o.config.Pipeline.ClearOnUpdate {
		if err := o.store.ClearMeta(postID, models.GeneratedKeys); err != nil {
			return err
		}
	}

	if err := o.extract(ctx, post); err != nil {
		return err
	}

	beforeNode, _, err := o.store.AssignedPlace(postID)
	if err != nil {
		return err
	}
	afterNode, _, err := o.places.ResolveAndAssign(postID)
	if err != nil {
		return err
	}
	locationChanged := afterNode != beforeNode

	if err := o.enricher.ResolveTimezone(ctx, postID); err != nil {
		return err
	}

	o.dispatchWeather(ctx, postID, opts)

	if _, err := o.seo.GenerateDescription(postID, opts.Force || locationChanged); err != nil {
		return err
	}

	return o.store.TouchPost(postID)
}

// ProcessBatch runs the pipeline over a set of posts with a fresh arena,
// reporting progress as it goes.
func (o *Orchestrator) ProcessBatch(ctx context.Context, postIDs []int64, opts Options) error {
	arena := NewArena()
	o.progress.Start(len(postIDs))

	for _, id := range postIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := o.ProcessPost(ctx, id, arena, opts); err != nil {
			logger.Error("Failed to process post %d: %v", id, err)
			o.progress.Error(fmt.Sprintf("post %d", id), err)
			continue
		}
		o.progress.Complete(fmt.Sprintf("post %d", id))
	}

	o.pool.Wait()
	o.progress.Finish()
	return nil
}

// IngestAll lists every photo in the source and ingests the ones the
// journal has not seen yet.
func (o *Orchestrator) IngestAll(ctx context.Context, prefix string, opts Options) error {
	if o.source == nil {
		return errors.New("no image source configured")
	}

	paths, err := o.source.List(ctx, prefix)
	if err != nil {
		return err
	}

	arena := NewArena()
	o.progress.Start(len(paths))

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if o.journal != nil && o.journal.IsProcessed(path) && !opts.Force {
			o.progress.Skip(path)
			continue
		}

		postID, err := o.IngestPhoto(ctx, path, arena, opts)
		if err != nil {
			logger.Error("Failed to ingest %s: %v", path, err)
			o.progress.Error(path, err)
			continue
		}

		o.progress.Complete(path)
		if o.journal != nil {
			o.journal.MarkProcessed(path, postID)
			o.journal.Save()
		}
	}

	o.pool.Wait()
	o.progress.Finish()
	if o.journal != nil {
		return o.journal.Flush()
	}
	return nil
}

// extract reads the photo bytes and sidecar and runs field extraction.
// A missing source or unreadable photo is an expected absence.
func (o *Orchestrator) extract(ctx context.Context, post *models.Post) error {
	if o.source == nil || post.PhotoPath == "" {
		return nil
	}

	reader, err := o.source.Open(ctx, post.PhotoPath)
	if err != nil {
		logger.Debug("Photo %s not readable: %v", post.PhotoPath, err)
		return nil
	}
	data, err := io.ReadAll(reader)
	reader.Close()
	if err != nil {
		logger.Warn("Failed to read photo %s: %v", post.PhotoPath, err)
		return nil
	}

	tags, err := exifreader.Read(bytes.NewReader(data))
	if err != nil {
		logger.Debug("No EXIF in %s: %v", post.PhotoPath, err)
		tags = exifreader.RawTags{}
	}
	width, height, err := exifreader.Dimensions(bytes.NewReader(data))
	if err != nil {
		width, height = 0, 0
	}

	sidecar, err := o.loadSidecar(ctx, post.PhotoPath)
	if err != nil {
		return err
	}

	// The caption lives in the sidecar, so it is re-applied here like the
	// IPTC fields; a cleared caption comes back on the next pass.
	if sidecar != nil && sidecar.Caption != "" {
		if _, err := o.store.SetMetaIfAbsent(post.ID, models.MetaCaption, sidecar.Caption); err != nil {
			return err
		}
	}

	return o.extractor.Extract(post.ID, extractor.Input{
		Tags:   tags,
		IPTC:   sidecar.IPTCFields(),
		Width:  width,
		Height: height,
	})
}

func (o *Orchestrator) loadSidecar(ctx context.Context, photoPath string) (*exifreader.Sidecar, error) {
	if o.source == nil {
		return nil, nil
	}
	sidecarPath := imagesource.SidecarPath(photoPath)
	ok, err := o.source.Exists(ctx, sidecarPath)
	if err != nil || !ok {
		return nil, err
	}
	r, err := o.source.Open(ctx, sidecarPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return exifreader.ReadSidecar(r)
}

// dispatchWeather hands the weather fetch to the pool, or blocks when a
// synchronous refresh was requested. Background failures are silent: the
// enricher records the attempt and the cooldown takes over.
func (o *Orchestrator) dispatchWeather(ctx context.Context, postID int64, opts Options) {
	if !o.config.Weather.Enabled {
		return
	}
	if opts.SyncWeather {
		if err := o.enricher.RefreshWeather(ctx, postID, opts.Force); err != nil {
			logger.Warn("Weather refresh for post %d: %v", postID, err)
		}
		return
	}
	o.pool.Submit(func() {
		if err := o.enricher.RefreshWeather(context.Background(), postID, false); err != nil {
			logger.Debug("Background weather fetch for post %d: %v", postID, err)
		}
	})
}

func (o *Orchestrator) typeEnabled(postType string) bool {
	if len(o.config.Pipeline.EnabledTypes) == 0 {
		return true
	}
	for _, t := range o.config.Pipeline.EnabledTypes {
		if strings.EqualFold(t, postType) {
			return true
		}
	}
	return false
}

// titleFromPath derives a human title from a photo filename.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ").Replace(base)
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	return strings.ToUpper(base[:1]) + base[1:]
}
