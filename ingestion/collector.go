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


package ingestion

import (
	"context"
	"log/slog"

	"github.com/poiesic/newsvec/core"
	"github.com/poiesic/newsvec/searxng"
	"github.com/poiesic/newsvec/storage"
)

// Searcher is the slice of the search client the collector needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts searxng.SearchOptions) ([]*core.SearchHit, error)
}

// Collector walks search result pages for a topic and stores every new
// article it discovers. Discovery is durable: hits land in the article
// store before any extraction is attempted.
type Collector struct {
	searcher Searcher
	store    storage.ArticleRepository
	pacer    *Pacer
	logger   *slog.Logger
}

// NewCollector creates a collector. A nil pacer disables pacing.
func NewCollector(searcher Searcher, store storage.ArticleRepository, pacer *Pacer) *Collector {
	return &Collector{
		searcher: searcher,
		store:    store,
		pacer:    pacer,
		logger:   slog.Default().With("component", "collector"),
	}
}

// Collect pages through search results for topic until maxPages is
// reached or a page comes back empty, and returns the number of newly
// stored articles. A failed search request ends the walk without failing
// the run; everything stored so far stays stored.
func (c *Collector) Collect(ctx context.Context, topic string, maxPages int, timeRange string) (int, error) {
	if maxPages < 1 {
		maxPages = 1
	}

	totalNew := 0
	for page := 1; page <= maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return totalNew, err
		}

		hits, err := c.searcher.Search(ctx, topic, searxng.SearchOptions{Page: page, TimeRange: timeRange})
		if err != nil {
			c.logger.Warn("search request failed, stopping collection", "topic", topic, "page", page, "err", err)
			break
		}
		if len(hits) == 0 {
			c.logger.Info("no more results", "topic", topic, "page", page)
			break
		}

		newOnPage := 0
		for _, hit := range hits {
			created, err := c.store.InsertIfNew(ctx, hit)
			if err != nil {
				return totalNew, err
			}
			if created {
				newOnPage++
			}
		}
		totalNew += newOnPage
		c.logger.Info("collected page", "topic", topic, "page", page, "hits", len(hits), "new", newOnPage)

		if page < maxPages {
			c.pacer.PagePause(ctx)
		}
	}

	return totalNew, nil
}
