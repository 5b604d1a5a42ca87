// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package newsvec

import (
	"log/slog"

	"github.com/poiesic/newsvec/ai"
	"github.com/poiesic/newsvec/ai/openai"
	"github.com/poiesic/newsvec/extract"
	"github.com/poiesic/newsvec/ingestion"
	"github.com/poiesic/newsvec/search"
	"github.com/poiesic/newsvec/searxng"
	"github.com/poiesic/newsvec/storage"
	"github.com/poiesic/newsvec/storage/badger"
	"github.com/poiesic/newsvec/vectorstore"
)

// Database is the assembled article store plus the AI provider every
// pipeline and searcher built from it shares.
type Database struct {
	backend  *badger.Backend
	articles storage.ArticleRepository
	provider ai.AIProvider
	logger   *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig overrides the default embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemory opens the article store in memory, discarding everything
// on close. Intended for tests and experiments.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the article store at filePath and initializes the
// embedding provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create article repository
	articles, err := badger.NewArticleRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		articles.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:  backend,
		articles: articles,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.articles.Close(); err != nil {
		db.logger.Error("error closing article repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) Articles() storage.ArticleRepository {
	return db.articles
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

// NewIngestionPipeline wires a full pipeline against this database, the
// given search instance, and the given vector store.
func (db *Database) NewIngestionPipeline(searcher ingestion.Searcher, store vectorstore.Store, opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	batcher, err := ingestion.NewBatcher(db.provider.Embedder(), store)
	if err != nil {
		return nil, err
	}

	engine := extract.NewEngine(db.articles)

	pipeline, err := ingestion.NewPipeline(db.articles, searcher, engine, batcher, opts...)
	if err != nil {
		batcher.Release()
		return nil, err
	}
	return pipeline, nil
}

// NewSearcher wires a query-side searcher against the given vector store.
func (db *Database) NewSearcher(store vectorstore.Store, opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.provider.Embedder(), store, opts...)
}

// NewSearchClient creates a SearXNG client suitable for
// NewIngestionPipeline.
func (db *Database) NewSearchClient(baseURL string, opts ...searxng.ClientOption) (*searxng.Client, error) {
	return searxng.NewClient(baseURL, opts...)
}
