package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/searxng"
	badgerstore "github.com/poiesic/newsvec/storage/badger"
)

// fakeSearcher serves canned pages and can fail a specific page.
type fakeSearcher struct {
	pages    map[int][]*core.SearchHit
	failPage int
	calls    int
}

func (f *fakeSearcher) Search(ctx context.Context, query string, opts searxng.SearchOptions) ([]*core.SearchHit, error) {
	f.calls++
	if f.failPage != 0 && opts.Page == f.failPage {
		return nil, errors.New("instance unavailable")
	}
	return f.pages[opts.Page], nil
}

func hitsFor(page, n int) []*core.SearchHit {
	hits := make([]*core.SearchHit, n)
	for i := range hits {
		hits[i] = &core.SearchHit{
			URL:   fmt.Sprintf("https://news.test/p%d-%d", page, i),
			Title: fmt.Sprintf("Story %d on page %d", i, page),
		}
	}
	return hits
}

// quietPacer records pauses instead of sleeping.
func quietPacer(pauses *[]time.Duration) *Pacer {
	p := DefaultPacer()
	p.Sleep = func(ctx context.Context, d time.Duration) {
		*pauses = append(*pauses, d)
	}
	return p
}

func TestCollectWalksPagesAndCounts(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{
		1: hitsFor(1, 3),
		2: hitsFor(2, 2),
	}}

	var pauses []time.Duration
	collector := NewCollector(searcher, repo, quietPacer(&pauses))

	count, err := collector.Collect(context.Background(), "ai regulation", 10, "week")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	// Page 3 came back empty, ending the walk before maxPages.
	assert.Equal(t, 3, searcher.calls)
	// One pause per page boundary actually crossed.
	assert.Equal(t, []time.Duration{1500 * time.Millisecond, 1500 * time.Millisecond}, pauses)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
}

func TestCollectCountsOnlyNewArticles(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	// The same three articles appear on both pages.
	searcher := &fakeSearcher{pages: map[int][]*core.SearchHit{
		1: hitsFor(1, 3),
		2: hitsFor(1, 3),
	}}

	collector := NewCollector(searcher, repo, nil)
	count, err := collector.Collect(context.Background(), "topic", 2, "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCollectStopsOnSearchError(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	searcher := &fakeSearcher{
		pages:    map[int][]*core.SearchHit{1: hitsFor(1, 2), 2: hitsFor(2, 2)},
		failPage: 2,
	}

	collector := NewCollector(searcher, repo, nil)
	count, err := collector.Collect(context.Background(), "topic", 5, "")
	require.NoError(t, err)

	// Page 1 survived the failed page 2.
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, searcher.calls)
}

func TestCollectHonorsCancellation(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	collector := NewCollector(&fakeSearcher{}, repo, nil)
	_, err = collector.Collect(ctx, "topic", 5, "")
	assert.ErrorIs(t, err, context.Canceled)
}
