package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/storage"
)

// ArticleRepository implements storage.ArticleRepository for BadgerDB.
//
// Layout: the primary record lives at artrec:<id> where the ID is derived
// from the URL, and every unprocessed article also has an index entry at
// artunp:<createdAt>:<id>. MarkProcessed removes the index entry, so the
// unprocessed scan never touches processed records.
type ArticleRepository struct {
	backend *Backend
}

var _ storage.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository creates a new ArticleRepository.
func NewArticleRepository(backend *Backend) (*ArticleRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ArticleRepository{backend: backend}, nil
}

// Close releases repository resources.
func (r *ArticleRepository) Close() error {
	return nil
}

// InsertIfNew maps a search hit to an Article record and stores it.
// The existence check and the insert run in one transaction, which makes
// the operation atomic at the storage layer.
func (r *ArticleRepository) InsertIfNew(ctx context.Context, hit *core.SearchHit) (bool, error) {
	if err := core.ValidateSearchHit(hit); err != nil {
		// Malformed results are skipped, not errors.
		return false, nil
	}

	id := core.IDFromContent(hit.URL)
	inserted := false

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeArticleKey(id)

		_, err := tx.Get(key)
		if err == nil {
			// Second discovery of a known URL is a no-op.
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		article := &core.Article{
			Id:            id,
			URL:           hit.URL,
			Title:         hit.Title,
			Content:       hit.Content,
			PublishedDate: hit.PublishedDate,
			SourceName:    hit.SourceName,
			ImgSrc:        hit.ImgSrc,
			Thumbnail:     hit.Thumbnail,
			RawResult:     hit.Raw,
			CreatedAt:     time.Now().UTC(),
		}

		if err := tx.Set(key, storage.MarshalArticle(article)); err != nil {
			return err
		}
		if err := tx.Set(makeUnprocessedKey(article.CreatedAt, id), storage.MarshalID(id)); err != nil {
			return err
		}

		inserted = true
		return tx.Commit()
	}, true)

	return inserted, err
}

// GetArticle retrieves a single article by URL.
func (r *ArticleRepository) GetArticle(ctx context.Context, url string) (*core.Article, error) {
	var result *core.Article
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readArticle(tx, makeArticleKey(core.IDFromContent(url)))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListUnprocessed returns unprocessed articles ordered by CreatedAt ascending.
func (r *ArticleRepository) ListUnprocessed(ctx context.Context, limit int) ([]*core.Article, error) {
	var results []*core.Article

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = unprocessedScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}

			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			article, err := r.readArticle(tx, makeArticleKey(id))
			if err != nil {
				return err
			}
			if article == nil {
				// Dangling index entry; skip rather than abort the scan.
				continue
			}
			results = append(results, article)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return results, nil
}

// MarkProcessed transitions an article to Processed=true exactly once.
func (r *ArticleRepository) MarkProcessed(ctx context.Context, url string, success bool, content, metadataJSON string) error {
	id := core.IDFromContent(url)

	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeArticleKey(id)
		article, err := r.readArticle(tx, key)
		if err != nil {
			return err
		}
		if article == nil {
			return storage.ErrNotFound
		}
		if article.Processed {
			// Already processed: the recorded outcome is immutable.
			return nil
		}

		article.Processed = true
		article.ExtractionOK = success
		article.ExtractedContent = content
		article.ExtractedMetadata = metadataJSON

		if err := tx.Set(key, storage.MarshalArticle(article)); err != nil {
			return err
		}
		if err := tx.Delete(makeUnprocessedKey(article.CreatedAt, id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Stats returns counts derived from the current store contents.
func (r *ArticleRepository) Stats(ctx context.Context) (core.StoreStats, error) {
	var stats core.StoreStats

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = articleScanPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var article *core.Article
			err := iter.Item().Value(func(val []byte) error {
				var err error
				article, err = storage.UnmarshalArticle(val)
				return err
			})
			if err != nil {
				return err
			}

			stats.Total++
			if article.Processed {
				stats.Processed++
				if article.ExtractionOK {
					stats.ExtractionSucceeded++
				} else {
					stats.ExtractionFailed++
				}
			}
		}
		return nil
	}, false)

	if err != nil {
		return core.StoreStats{}, err
	}

	stats.Unprocessed = stats.Total - stats.Processed
	return stats, nil
}

// readArticle reads and deserializes an article, returning nil if the key
// does not exist.
func (r *ArticleRepository) readArticle(tx *badger.Txn, key []byte) (*core.Article, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var article *core.Article
	err = item.Value(func(val []byte) error {
		var err error
		article, err = storage.UnmarshalArticle(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}
