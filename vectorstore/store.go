package vectorstore

import (
	"context"
	"time"

	"github.com/poiesic/newsvec/core"
)

// Row is one embedded chunk ready for insertion.
type Row struct {
	Content   string               `json:"content"`
	Metadata  core.ArticleMetadata `json:"metadata"`
	Embedding []float32            `json:"embedding"`
}

// Match is one result returned by a similarity search.
type Match struct {
	Content    string               `json:"content"`
	Metadata   core.ArticleMetadata `json:"metadata"`
	Similarity float64              `json:"similarity"`
}

// Store is the remote vector database the pipeline uploads to and the
// query tool reads from.
type Store interface {
	// BulkInsert writes all rows in a single request. An empty slice is
	// a no-op.
	BulkInsert(ctx context.Context, rows []Row) error

	// SearchByDate returns chunks similar to the query embedding whose
	// article date falls within [start, end].
	SearchByDate(ctx context.Context, embedding []float32, start, end time.Time, threshold float64, limit int) ([]Match, error)
}
