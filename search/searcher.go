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


package search

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/newsvec/ai"
	"github.com/poiesic/newsvec/vectorstore"
)

// Defaults applied when no option overrides them.
const (
	DefaultThreshold = 0.2
	DefaultLimit     = 10
)

var (
	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrVectorStoreRequired indicates a nil vector store was provided.
	ErrVectorStoreRequired = errors.New("vector store is required")

	// ErrEmptyQuery indicates an empty query string.
	ErrEmptyQuery = errors.New("query must not be empty")
)

// Searcher answers natural language queries against the vector store,
// restricted to a date window.
type Searcher struct {
	embedder  ai.Embedder
	store     vectorstore.Store
	threshold float64
	limit     int
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithThreshold sets the minimum similarity for a match.
func WithThreshold(threshold float64) Option {
	return func(s *Searcher) {
		s.threshold = threshold
	}
}

// WithLimit sets the maximum number of matches returned.
func WithLimit(limit int) Option {
	return func(s *Searcher) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// NewSearcher creates a query-side searcher.
func NewSearcher(embedder ai.Embedder, store vectorstore.Store, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrVectorStoreRequired
	}

	s := &Searcher{
		embedder:  embedder,
		store:     store,
		threshold: DefaultThreshold,
		limit:     DefaultLimit,
		logger:    slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search embeds the query and returns matching chunks whose article date
// falls within [start, end].
func (s *Searcher) Search(ctx context.Context, query string, start, end time.Time) ([]vectorstore.Match, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.SearchByDate(ctx, embedding, start, end, s.threshold, s.limit)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("search completed", "query", query, "matches", len(matches))
	return matches, nil
}
