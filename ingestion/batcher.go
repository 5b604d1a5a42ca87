package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/poiesic/newsvec/ai"
	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/vectorstore"
)

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 500

	// DefaultChunkOverlap is the character overlap between adjacent chunks.
	DefaultChunkOverlap = 100

	// minBodyLength is the shortest document body worth chunking.
	minBodyLength = 50

	// minChunkLength filters out fragments the splitter leaves behind.
	// A chunk survives only if its trimmed length exceeds this.
	minChunkLength = 20

	// embedBatchSize is how many chunks one embedding request carries.
	embedBatchSize = 32
)

// Batcher chunks documents, embeds the chunks concurrently, and uploads
// the rows to the vector store in a single bulk insert.
type Batcher struct {
	embedder ai.Embedder
	store    vectorstore.Store
	splitter textsplitter.RecursiveCharacter
	pool     *ants.Pool
	logger   *slog.Logger
}

// BatcherOption configures a Batcher.
type BatcherOption func(*Batcher) error

// WithPoolSize sets the embedding worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) BatcherOption {
	return func(b *Batcher) error {
		if size < 1 {
			size = 1
		}
		if b.pool != nil {
			b.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithChunking overrides the chunk size and overlap.
func WithChunking(size, overlap int) BatcherOption {
	return func(b *Batcher) error {
		b.splitter = textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		)
		return nil
	}
}

// NewBatcher creates a batcher with default chunking and pool size.
func NewBatcher(embedder ai.Embedder, store vectorstore.Store, opts ...BatcherOption) (*Batcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Batcher{
		embedder: embedder,
		store:    store,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(DefaultChunkSize),
			textsplitter.WithChunkOverlap(DefaultChunkOverlap),
		),
		pool:   pool,
		logger: slog.Default().With("component", "batcher"),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}
	return b, nil
}

// chunkItem pairs one chunk's text with the metadata it inherits.
type chunkItem struct {
	text string
	meta core.ArticleMetadata
}

// chunk splits one document into upload-sized pieces. Documents with
// bodies shorter than minBodyLength produce nothing, as do fragments at
// or below minChunkLength.
func (b *Batcher) chunk(doc *core.Document) ([]chunkItem, error) {
	if doc == nil || len(strings.TrimSpace(doc.Text)) < minBodyLength {
		return nil, nil
	}

	meta := doc.Metadata
	meta.SourceID = doc.ID

	pieces, err := b.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, err
	}

	items := make([]chunkItem, 0, len(pieces))
	for _, piece := range pieces {
		if len(strings.TrimSpace(piece)) > minChunkLength {
			items = append(items, chunkItem{text: piece, meta: meta})
		}
	}
	return items, nil
}

// Upload chunks and embeds all documents, then writes every row in one
// bulk insert. It returns the number of rows uploaded. Nothing is written
// unless every chunk embedded successfully.
func (b *Batcher) Upload(ctx context.Context, docs []*core.Document) (int, error) {
	var items []chunkItem
	for _, doc := range docs {
		docItems, err := b.chunk(doc)
		if err != nil {
			return 0, err
		}
		items = append(items, docItems...)
	}

	if len(items) == 0 {
		b.logger.Warn("no chunks to upload")
		return 0, nil
	}

	b.logger.Info("embedding chunks", "count", len(items))
	vectors, err := b.embedAll(ctx, items)
	if err != nil {
		return 0, err
	}

	rows := make([]vectorstore.Row, len(items))
	for i, item := range items {
		rows[i] = vectorstore.Row{
			Content:   item.text,
			Metadata:  item.meta,
			Embedding: vectors[i],
		}
	}

	if err := b.store.BulkInsert(ctx, rows); err != nil {
		return 0, err
	}

	b.logger.Info("upload complete", "rows", len(rows))
	return len(rows), nil
}

// embedAll embeds chunks in fixed-size sub-batches across the worker
// pool, preserving input order. The first error aborts the whole batch.
func (b *Batcher) embedAll(ctx context.Context, items []chunkItem) ([][]float32, error) {
	vectors := make([][]float32, len(items))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for start := 0; start < len(items); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(items) {
			end = len(items)
		}

		offset := start
		texts := make([]string, end-start)
		for i := range texts {
			texts[i] = items[offset+i].text
		}

		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()

			batch, err := b.embedder.EmbedTexts(ctx, texts)
			if err != nil {
				setErr(err)
				return
			}
			if len(batch) != len(texts) {
				setErr(ErrEmbeddingCountMismatch)
				return
			}
			for i, vec := range batch {
				vectors[offset+i] = vec
			}
		})
		if submitErr != nil {
			wg.Done()
			setErr(submitErr)
			break
		}
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

// Release frees the embedding worker pool.
// The batcher should not be used after calling Release.
func (b *Batcher) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
