package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newsvec/ai/mock"
	"github.com/poiesic/newsvec/vectorstore"
)

// fakeStore records the parameters of the last search.
type fakeStore struct {
	gotEmbedding []float32
	gotStart     time.Time
	gotEnd       time.Time
	gotThreshold float64
	gotLimit     int
	matches      []vectorstore.Match
	err          error
}

func (f *fakeStore) BulkInsert(ctx context.Context, rows []vectorstore.Row) error {
	return nil
}

func (f *fakeStore) SearchByDate(ctx context.Context, embedding []float32, start, end time.Time, threshold float64, limit int) ([]vectorstore.Match, error) {
	f.gotEmbedding = embedding
	f.gotStart = start
	f.gotEnd = end
	f.gotThreshold = threshold
	f.gotLimit = limit
	return f.matches, f.err
}

func TestSearchUsesDefaults(t *testing.T) {
	store := &fakeStore{matches: []vectorstore.Match{{Content: "hit", Similarity: 0.9}}}
	searcher, err := NewSearcher(mock.NewMockEmbedder(), store)
	require.NoError(t, err)

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	matches, err := searcher.Search(context.Background(), "merger announcement", start, end)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "hit", matches[0].Content)
	assert.NotEmpty(t, store.gotEmbedding)
	assert.Equal(t, start, store.gotStart)
	assert.Equal(t, end, store.gotEnd)
	assert.Equal(t, DefaultThreshold, store.gotThreshold)
	assert.Equal(t, DefaultLimit, store.gotLimit)
}

func TestSearchOptionsOverrideDefaults(t *testing.T) {
	store := &fakeStore{}
	searcher, err := NewSearcher(mock.NewMockEmbedder(), store, WithThreshold(0.5), WithLimit(3))
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "anything", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0.5, store.gotThreshold)
	assert.Equal(t, 3, store.gotLimit)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	searcher, err := NewSearcher(mock.NewMockEmbedder(), &fakeStore{})
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchPropagatesEmbedderError(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("embedding service down")
	}
	searcher, err := NewSearcher(embedder, &fakeStore{})
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "anything", time.Now(), time.Now())
	require.Error(t, err)
}

func TestSearchPropagatesStoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("rpc missing")}
	searcher, err := NewSearcher(mock.NewMockEmbedder(), store)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "anything", time.Now(), time.Now())
	require.Error(t, err)
}

func TestNewSearcherValidation(t *testing.T) {
	_, err := NewSearcher(nil, &fakeStore{})
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewSearcher(mock.NewMockEmbedder(), nil)
	assert.ErrorIs(t, err, ErrVectorStoreRequired)
}
