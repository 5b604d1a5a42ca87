package extract

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/storage"
)

// Content source tags recorded in article metadata.
const (
	sourcePrimary  = "trafilatura"
	sourceFallback = "searxng_fallback"
)

// descriptionLimit caps the metadata description length in runes.
const descriptionLimit = 500

// Engine turns a stored article into an upload-ready document. It fetches
// the page, runs the parser, and falls back to the search snippet when the
// page yields nothing. Every attempt records its outcome on the article,
// so an article is never extracted twice.
type Engine struct {
	fetcher Fetcher
	parser  Parser
	store   storage.ArticleRepository
	logger  *slog.Logger
}

// EngineOption is a functional option for configuring an Engine.
type EngineOption func(*Engine)

// WithFetcher replaces the page fetcher.
func WithFetcher(f Fetcher) EngineOption {
	return func(e *Engine) {
		e.fetcher = f
	}
}

// WithParser replaces the content parser.
func WithParser(p Parser) EngineOption {
	return func(e *Engine) {
		e.parser = p
	}
}

// NewEngine creates an extraction engine writing outcomes to store.
func NewEngine(store storage.ArticleRepository, opts ...EngineOption) *Engine {
	e := &Engine{
		fetcher: NewHTTPFetcher(),
		parser:  NewTrafilaturaParser(),
		store:   store,
		logger:  slog.Default().With("component", "extract-engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract processes one article and returns the document to upload, or nil
// when no usable content exists from either the page or the search snippet.
// In every case the article is marked processed before Extract returns.
func (e *Engine) Extract(ctx context.Context, article *core.Article) (*core.Document, error) {
	if article == nil || article.URL == "" {
		return nil, ErrMissingURL
	}

	var parsed *ParseResult
	html, err := e.fetcher.Fetch(ctx, article.URL)
	if err != nil {
		e.logger.Warn("fetch failed", "url", article.URL, "err", err)
	} else if html != "" {
		parsed, err = e.parser.Parse(html, article.URL)
		if err != nil {
			e.logger.Warn("parse failed", "url", article.URL, "err", err)
			parsed = nil
		}
	}

	success := parsed != nil && parsed.Text != ""

	var content, source string
	if success {
		content = parsed.Text
		source = sourcePrimary
		e.logger.Info("using extracted page content", "url", article.URL)
	} else {
		content = article.Content
		if content == "" {
			content = article.Title
		}
		source = sourceFallback
		e.logger.Warn("using search snippet fallback", "url", article.URL)
	}

	meta := mergeMetadata(article, parsed, source, success)
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}

	if content == "" {
		// Nothing usable from either source. Record the failure so the
		// article leaves the unprocessed queue for good.
		e.logger.Error("no content available from any source", "url", article.URL)
		e.markProcessed(ctx, article.URL, false, "", string(metaJSON))
		return nil, nil
	}

	storedContent := ""
	if success {
		storedContent = content
	}
	e.markProcessed(ctx, article.URL, success, storedContent, string(metaJSON))

	return &core.Document{
		ID:       article.URL,
		Text:     content,
		Metadata: meta,
	}, nil
}

// markProcessed records the outcome, logging rather than failing the
// extraction when the write does not land.
func (e *Engine) markProcessed(ctx context.Context, url string, success bool, content, metaJSON string) {
	if err := e.store.MarkProcessed(ctx, url, success, content, metaJSON); err != nil {
		e.logger.Error("failed to record extraction outcome", "url", url, "err", err)
	}
}

// mergeMetadata combines page metadata with the stored search result,
// preferring what the page itself declares.
func mergeMetadata(article *core.Article, parsed *ParseResult, source string, success bool) core.ArticleMetadata {
	var page PageMetadata
	if parsed != nil {
		page = parsed.Meta
	}

	return core.ArticleMetadata{
		Title:         firstNonEmpty(page.Title, article.Title),
		Date:          firstNonEmpty(page.Date, article.PublishedDate),
		Author:        page.Author,
		Source:        firstNonEmpty(page.Sitename, article.SourceName, domainOf(article.URL)),
		URL:           article.URL,
		Description:   truncateRunes(firstNonEmpty(page.Description, article.Content), descriptionLimit),
		ImageURL:      firstNonEmpty(page.Image, article.ImgSrc, article.Thumbnail),
		ContentSource: source,
		ExtractionOK:  success,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// domainOf returns the host of a URL without a leading www prefix.
func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// truncateRunes shortens s to at most limit runes without splitting one.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
