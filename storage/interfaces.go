package storage

import (
	"context"

	"github.com/poiesic/newsvec/core"
)

// ArticleRepository provides operations for the durable article store.
// All mutations are committed synchronously before the call returns.
//
// The pipeline runs single-writer, but InsertIfNew is atomic at the storage
// layer so concurrent writers would still get at-most-once inserts.
type ArticleRepository interface {
	// InsertIfNew maps a search hit to an Article record and stores it.
	// Returns true iff a new record was created. Hits without a URL are
	// rejected without error, and a URL that is already stored is ignored,
	// not merged.
	InsertIfNew(ctx context.Context, hit *core.SearchHit) (bool, error)

	// GetArticle retrieves a single article by URL.
	// Returns ErrNotFound if no record exists.
	GetArticle(ctx context.Context, url string) (*core.Article, error)

	// ListUnprocessed returns articles with Processed=false, ordered by
	// CreatedAt ascending (oldest first). A limit <= 0 returns all
	// unprocessed articles.
	ListUnprocessed(ctx context.Context, limit int) ([]*core.Article, error)

	// MarkProcessed transitions an article from Processed=false to
	// Processed=true exactly once, recording the extraction outcome.
	// Calling it again for the same URL is a no-op; the recorded outcome is
	// never altered. Returns ErrNotFound for unknown URLs.
	MarkProcessed(ctx context.Context, url string, success bool, content, metadataJSON string) error

	// Stats returns counts derived from the current store contents.
	Stats(ctx context.Context) (core.StoreStats, error)

	// Close releases repository resources.
	Close() error
}
