package newsvec

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/searxng"
	"github.com/poiesic/newsvec/vectorstore"
)

// nullStore satisfies vectorstore.Store for wiring tests.
type nullStore struct{}

func (nullStore) BulkInsert(ctx context.Context, rows []vectorstore.Row) error {
	return nil
}

func (nullStore) SearchByDate(ctx context.Context, embedding []float32, start, end time.Time, threshold float64, limit int) ([]vectorstore.Match, error) {
	return nil, nil
}

// nullSearcher satisfies ingestion.Searcher for wiring tests.
type nullSearcher struct{}

func (nullSearcher) Search(ctx context.Context, query string, opts searxng.SearchOptions) ([]*core.SearchHit, error) {
	return nil, nil
}

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.Articles())
		assert.NotNil(t, db.Provider())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile)
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("in-memory database", func(t *testing.T) {
		db, err := NewDatabase("", WithInMemory())
		require.NoError(t, err)
		defer db.Close()

		created, err := db.Articles().InsertIfNew(context.Background(), &core.SearchHit{URL: "https://news.test/a"})
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestDatabase_Close(t *testing.T) {
	tmpDir := t.TempDir()
	db, err := NewDatabase(tmpDir)
	require.NoError(t, err)
	require.NotNil(t, db)

	// Close the database
	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_FactoryMethods(t *testing.T) {
	db, err := NewDatabase("", WithInMemory())
	require.NoError(t, err)
	require.NotNil(t, db)
	defer db.Close()

	t.Run("can create ingestion pipeline", func(t *testing.T) {
		pipeline, err := db.NewIngestionPipeline(nullSearcher{}, nullStore{})
		require.NoError(t, err)
		require.NotNil(t, pipeline)
		pipeline.Release()
	})

	t.Run("can create searcher", func(t *testing.T) {
		searcher, err := db.NewSearcher(nullStore{})
		require.NoError(t, err)
		require.NotNil(t, searcher)
	})

	t.Run("can create search client", func(t *testing.T) {
		client, err := db.NewSearchClient("http://localhost:8888")
		require.NoError(t, err)
		require.NotNil(t, client)
	})
}
