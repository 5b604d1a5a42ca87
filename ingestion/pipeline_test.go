package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newsvec/ai/mock"
	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/storage"
	badgerstore "github.com/poiesic/newsvec/storage/badger"
)

// fakeExtractor marks each article processed and emits a document built
// from its snippet, panicking or failing on demand.
type fakeExtractor struct {
	store    storage.ArticleRepository
	failURLs map[string]bool
	panicOn  string
}

func (f *fakeExtractor) Extract(ctx context.Context, article *core.Article) (*core.Document, error) {
	if article.URL == f.panicOn {
		panic("extractor exploded")
	}
	if f.failURLs[article.URL] {
		return nil, errors.New("extraction broke")
	}

	text := article.Content
	if text == "" {
		text = article.Title
	}
	if err := f.store.MarkProcessed(ctx, article.URL, true, text, "{}"); err != nil {
		return nil, err
	}
	return &core.Document{
		ID:       article.URL,
		Text:     text,
		Metadata: core.ArticleMetadata{Title: article.Title, URL: article.URL},
	}, nil
}

func newTestPipeline(t *testing.T, searcher Searcher, vstore *fakeVectorStore) (*Pipeline, storage.ArticleRepository) {
	t.Helper()

	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(); backend.Close() })

	batcher, err := NewBatcher(mock.NewMockEmbedder(), vstore)
	require.NoError(t, err)
	t.Cleanup(batcher.Release)

	extractor := &fakeExtractor{store: repo}
	pipeline, err := NewPipeline(repo, searcher, extractor, batcher, WithPacer(nil))
	require.NoError(t, err)
	return pipeline, repo
}

func longSnippetHits(page, n int) []*core.SearchHit {
	hits := hitsFor(page, n)
	for _, hit := range hits {
		hit.Content = sentences(200)
	}
	return hits
}

func TestRunEndToEnd(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{
		1: longSnippetHits(1, 3),
	}}
	vstore := &fakeVectorStore{}
	pipeline, repo := newTestPipeline(t, searcher, vstore)

	report, err := pipeline.Run(context.Background(), "energy markets", nil)
	require.NoError(t, err)

	assert.Equal(t, 3, report.NewArticles)
	assert.Equal(t, 3, report.Extracted)
	assert.GreaterOrEqual(t, report.Uploaded, 3)
	assert.Equal(t, 3, report.Stats.Processed)
	assert.Equal(t, 0, report.Stats.Unprocessed)

	// One bulk insert carried everything.
	require.Len(t, vstore.inserts, 1)

	// A second run finds nothing new and nothing to process.
	report, err = pipeline.Run(context.Background(), "energy markets", nil)
	require.NoError(t, err)
	assert.Zero(t, report.NewArticles)
	assert.Zero(t, report.Extracted)
	assert.Zero(t, report.Uploaded)

	// Backlog is empty.
	backlog, err := repo.ListUnprocessed(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, backlog)
}

func TestRunContinuesPastExtractionFailures(t *testing.T) {
	hits := longSnippetHits(1, 3)
	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{1: hits}}
	vstore := &fakeVectorStore{}
	pipeline, repo := newTestPipeline(t, searcher, vstore)
	pipeline.extractor.(*fakeExtractor).failURLs = map[string]bool{hits[1].URL: true}

	report, err := pipeline.Run(context.Background(), "topic", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Extracted)

	// The failed article stays in the backlog for the next run.
	backlog, err := repo.ListUnprocessed(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, backlog, 1)
	assert.Equal(t, hits[1].URL, backlog[0].URL)
}

func TestRunProcessLimit(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{
		1: longSnippetHits(1, 5),
	}}
	pipeline, repo := newTestPipeline(t, searcher, &fakeVectorStore{})

	report, err := pipeline.Run(context.Background(), "topic", &RunOptions{ProcessLimit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Extracted)

	backlog, err := repo.ListUnprocessed(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, backlog, 3)
}

func TestRunFailsWhenUploadFails(t *testing.T) {
	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{
		1: longSnippetHits(1, 2),
	}}
	vstore := &fakeVectorStore{err: errors.New("remote rejected")}
	pipeline, _ := newTestPipeline(t, searcher, vstore)

	_, err := pipeline.Run(context.Background(), "topic", nil)
	require.Error(t, err)
}

func TestRunTopicsIsolatesPanics(t *testing.T) {
	// The second article makes the extractor panic on every topic, after
	// the first article was already processed.
	pages := map[int][]*core.SearchHit{1: longSnippetHits(1, 2)}
	searcher := &fakeSearcher{pages: pages}
	vstore := &fakeVectorStore{}
	pipeline, repo := newTestPipeline(t, searcher, vstore)
	pipeline.extractor.(*fakeExtractor).panicOn = pages[1][1].URL

	err := pipeline.RunTopics(context.Background(), []string{"first", "second", "third"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")

	// Later topics still ran: the non-panicking article was processed.
	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
}

func TestNewPipelineValidation(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	batcher, err := NewBatcher(mock.NewMockEmbedder(), &fakeVectorStore{})
	require.NoError(t, err)
	defer batcher.Release()

	extractor := &fakeExtractor{store: repo}

	_, err = NewPipeline(nil, &fakeSearcher{}, extractor, batcher)
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = NewPipeline(repo, nil, extractor, batcher)
	assert.ErrorIs(t, err, ErrSearcherRequired)

	_, err = NewPipeline(repo, &fakeSearcher{}, nil, batcher)
	assert.ErrorIs(t, err, ErrExtractorRequired)

	_, err = NewPipeline(repo, &fakeSearcher{}, extractor, nil)
	assert.ErrorIs(t, err, ErrBatcherRequired)
}
