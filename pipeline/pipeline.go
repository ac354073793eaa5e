// Package pipeline sequences one complete digest run: collect, enrich,
// index the archive, render and write both snapshots.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Emathyran/daily-news/archive"
	"github.com/Emathyran/daily-news/collector"
	"github.com/Emathyran/daily-news/enricher"
	"github.com/Emathyran/daily-news/models"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Renderer produces one snapshot document from the page data contract.
type Renderer interface {
	Render(data *models.PageData) ([]byte, error)
}

// Config collects the collaborators the pipeline sequences for one run.
type Config struct {

	// Collects articles from the configured feed registry
	Collector *collector.Collector

	// Attaches a generated analysis to every collected article
	Enricher *enricher.Enricher

	// Lists existing dated snapshots and persists today's
	Store archive.Store

	// Renders the snapshot document
	Renderer Renderer

	// Path the root snapshot is written to
	OutputFile string

	// Clock for the run date; defaults to time.Now
	Now func() time.Time
}

// Pipeline runs the digest once. Collection and enrichment failures degrade
// the output; archive listing, rendering and writing failures are fatal.
type Pipeline struct {
	collector  *collector.Collector
	enricher   *enricher.Enricher
	store      archive.Store
	renderer   Renderer
	outputFile string
	now        func() time.Time
}

func New(config *Config) *Pipeline {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		collector:  config.Collector,
		enricher:   config.Enricher,
		store:      config.Store,
		renderer:   config.Renderer,
		outputFile: config.OutputFile,
		now:        now,
	}
}

// Run executes one full digest run. All collection completes before any
// enrichment starts, and all enrichment before anything is rendered. The
// root snapshot and today's archive copy are both overwritten, so a second
// run on the same day replaces them; earlier days' files are never touched.
func (p *Pipeline) Run(ctx context.Context) error {
	now := p.now().UTC()
	log.WithField("date", now.Format(time.DateOnly)).Info("Starting digest run")

	result, reports := p.collector.Collect(ctx)
	failedFeeds := lo.CountBy(reports, func(report collector.SourceReport) bool {
		return report.Err != nil
	})
	log.WithFields(log.Fields{
		"articles":    result.TotalArticles(),
		"feeds":       len(reports),
		"failedFeeds": failedFeeds,
	}).Info("Collection complete")

	outcomes := p.enricher.EnrichAll(ctx, result)
	failedAnalyses := lo.CountBy(outcomes, func(outcome enricher.Outcome) bool {
		return outcome.Err != nil
	})
	log.WithFields(log.Fields{
		"articles": len(outcomes),
		"failures": failedAnalyses,
	}).Info("Enrichment complete")

	existing, err := p.store.List()
	if err != nil {
		return err
	}
	nav := archive.BuildNavigation(existing, now)

	rootDoc, err := p.renderer.Render(p.pageData(result, nav, now, false))
	if err != nil {
		return fmt.Errorf("failed to render root snapshot: %w", err)
	}
	if err := os.WriteFile(p.outputFile, rootDoc, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.outputFile, err)
	}

	archiveDoc, err := p.renderer.Render(p.pageData(result, nav, now, true))
	if err != nil {
		return fmt.Errorf("failed to render archive snapshot: %w", err)
	}
	if err := p.store.Write(now, archiveDoc); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"output":  p.outputFile,
		"archive": now.Format(time.DateOnly),
	}).Info("Digest run complete")
	return nil
}

// pageData assembles the renderer contract for one of the two render
// passes. Navigation hrefs are resolved for the directory the document
// will live in.
func (p *Pipeline) pageData(result *models.RunResult, nav []models.ArchiveEntry, now time.Time, isArchiveCopy bool) *models.PageData {
	categories := lo.Map(result.Sections, func(section models.Section, _ int) models.CategoryView {
		return models.CategoryView{
			Name:      section.Category,
			QuotaUsed: len(section.Articles),
			Articles:  section.Articles,
		}
	})

	return &models.PageData{
		GeneratedAt:   now.Format("2006-01-02 15:04:05 MST"),
		Categories:    categories,
		Navigation:    archive.ResolveLinks(nav, isArchiveCopy),
		IsArchiveCopy: isArchiveCopy,
	}
}
