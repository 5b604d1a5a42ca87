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


package core

import "fmt"

// ValidateSearchHit validates a SearchHit according to domain rules.
//
// Validation rules:
//   - URL must not be empty (it is the identity of the article)
//
// Everything else is captured verbatim; search engines return loosely shaped
// results and missing titles or snippets are expected.
func ValidateSearchHit(hit *SearchHit) error {
	if hit == nil {
		return fmt.Errorf("%w: hit is nil", ErrInvalidSearchHit)
	}

	if hit.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchHit, ErrEmptyURL)
	}

	return nil
}

// ValidateArticle validates an Article according to domain rules.
//
// Validation rules:
//   - URL must not be empty
//   - An unprocessed article must not carry extraction output
//
// NOT validated (populated by the extraction engine):
//   - ExtractedContent / ExtractedMetadata on processed articles
//   - Id (derived from URL by the store)
func ValidateArticle(article *Article) error {
	if article == nil {
		return fmt.Errorf("%w: article is nil", ErrInvalidArticle)
	}

	if article.URL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrEmptyURL)
	}

	if !article.Processed && (article.ExtractedContent != "" || article.ExtractionOK) {
		return fmt.Errorf("%w: %w", ErrInvalidArticle, ErrUnprocessedContent)
	}

	return nil
}
