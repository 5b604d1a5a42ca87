package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/storage"
)

// Extractor is the slice of the extraction engine the pipeline needs.
type Extractor interface {
	Extract(ctx context.Context, article *core.Article) (*core.Document, error)
}

// Pipeline orchestrates one full ingestion run: collect search hits into
// the article store, extract the unprocessed backlog, then chunk, embed,
// and upload the resulting documents.
type Pipeline struct {
	store     storage.ArticleRepository
	collector *Collector
	extractor Extractor
	batcher   *Batcher
	pacer     *Pacer
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPacer replaces the default request pacing. Passing nil disables
// pacing entirely.
func WithPacer(pacer *Pacer) Option {
	return func(p *Pipeline) error {
		p.pacer = pacer
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store storage.ArticleRepository,
	searcher Searcher,
	extractor Extractor,
	batcher *Batcher,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if batcher == nil {
		return nil, ErrBatcherRequired
	}

	p := &Pipeline{
		store:     store,
		extractor: extractor,
		batcher:   batcher,
		pacer:     DefaultPacer(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			return nil, optErr
		}
	}

	p.collector = NewCollector(searcher, store, p.pacer)
	return p, nil
}

// RunOptions holds optional parameters for a pipeline run.
type RunOptions struct {
	// MaxPages bounds the search result walk. Default is 20.
	MaxPages int

	// TimeRange restricts search results by age ("day", "week", "month",
	// "year"). Empty means no restriction.
	TimeRange string

	// ProcessLimit caps how many backlog articles one run extracts.
	// Zero or negative means no cap.
	ProcessLimit int
}

// RunReport summarizes one pipeline run.
type RunReport struct {
	NewArticles int
	Extracted   int
	Uploaded    int
	Stats       core.StoreStats
}

// Run executes the full pipeline for one topic. Collection failures end
// the walk early but never lose stored articles; extraction failures are
// per-article and logged. An upload failure fails the run since no rows
// were written.
func (p *Pipeline) Run(ctx context.Context, topic string, opts *RunOptions) (*RunReport, error) {
	if opts == nil {
		opts = &RunOptions{}
	}
	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = 20
	}

	report := &RunReport{}

	p.logger.Info("collecting articles", "topic", topic, "max_pages", maxPages)
	newCount, err := p.collector.Collect(ctx, topic, maxPages, opts.TimeRange)
	if err != nil {
		return nil, err
	}
	report.NewArticles = newCount

	backlog, err := p.store.ListUnprocessed(ctx, opts.ProcessLimit)
	if err != nil {
		return nil, err
	}
	p.logger.Info("processing backlog", "topic", topic, "articles", len(backlog))

	var docs []*core.Document
	for i, article := range backlog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		doc, err := p.extractor.Extract(ctx, article)
		if err != nil {
			p.logger.Error("extraction failed", "url", article.URL, "err", err)
			continue
		}
		if doc != nil {
			docs = append(docs, doc)
			report.Extracted++
		}

		if i < len(backlog)-1 {
			p.pacer.ArticlePause(ctx)
		}
	}

	uploaded, err := p.batcher.Upload(ctx, docs)
	if err != nil {
		return nil, err
	}
	report.Uploaded = uploaded

	stats, err := p.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	report.Stats = stats

	p.logger.Info("run complete",
		"topic", topic,
		"new", report.NewArticles,
		"extracted", report.Extracted,
		"uploaded", report.Uploaded,
		"store_total", stats.Total)
	return report, nil
}

// RunTopics runs the pipeline for each topic in order. A failure or panic
// in one topic is contained and does not stop the remaining topics; the
// collected errors are returned after all topics ran.
func (p *Pipeline) RunTopics(ctx context.Context, topics []string, opts *RunOptions) error {
	var errs []error
	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		if err := p.runIsolated(ctx, topic, opts); err != nil {
			p.logger.Error("topic run failed", "topic", topic, "err", err)
			errs = append(errs, fmt.Errorf("topic %q: %w", topic, err))
		}

		if i < len(topics)-1 {
			p.pacer.TopicPause(ctx)
		}
	}
	return errors.Join(errs...)
}

// runIsolated converts a panic during one topic into an error.
func (p *Pipeline) runIsolated(ctx context.Context, topic string, opts *RunOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	_, err = p.Run(ctx, topic, opts)
	return err
}

// Release releases resources including the embedding worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.batcher.Release()
}
